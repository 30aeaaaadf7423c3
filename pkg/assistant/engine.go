// Package assistant wires the resolution engine from its collaborators.
package assistant

import (
	"io"
	"log"
	"time"

	"phone-store-be/pkg/ai/router"
	"phone-store-be/pkg/catalog"
	"phone-store-be/pkg/extract"
	"phone-store-be/pkg/llm"
	"phone-store-be/pkg/rag/followup"
	"phone-store-be/pkg/rag/history"
	"phone-store-be/pkg/rag/intent"
	"phone-store-be/pkg/rag/response"
	"phone-store-be/pkg/rag/session"
	"phone-store-be/pkg/rag/state"
	"phone-store-be/pkg/search"
	"phone-store-be/pkg/textnorm"
)

// Options configures the engine. Only Catalog and Contexts are required.
type Options struct {
	Catalog  catalog.Store
	Contexts session.Repository
	Lexicon  *textnorm.Lexicon

	LLM               llm.LLMProvider // nil disables generation
	GenerationTimeout time.Duration
	Publisher         router.EventPublisher

	Search          search.Config
	PendingLimit    int
	PopularCacheTTL time.Duration
	HistoryTTL      time.Duration
	HistoryLimit    int

	Logger *log.Logger
}

// Engine holds the wired components; Router is the entry point for turns
type Engine struct {
	Normalizer *textnorm.Normalizer
	Extractor  *extract.Extractor
	Cascade    *search.Cascade
	Popular    *search.PopularCache
	Sessions   *session.Manager
	Router     *router.Router
}

// New builds an engine, filling unset options with defaults
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if opts.Search == (search.Config{}) {
		opts.Search = search.DefaultConfig()
	}
	if opts.PendingLimit <= 0 {
		opts.PendingLimit = followup.DefaultConfig().PendingLimit
	}
	if opts.PopularCacheTTL <= 0 {
		opts.PopularCacheTTL = 10 * time.Minute
	}
	if opts.HistoryTTL <= 0 {
		opts.HistoryTTL = time.Hour
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 10
	}
	if opts.GenerationTimeout <= 0 {
		opts.GenerationTimeout = 8 * time.Second
	}

	// 1. Text understanding
	normalizer := textnorm.New(opts.Lexicon)
	extractor := extract.New(normalizer, opts.Lexicon)

	// 2. Search
	popular := search.NewPopularCache(opts.PopularCacheTTL)
	cascade := search.NewCascade(
		opts.Catalog,
		extractor,
		search.NewScorer(normalizer.Normalize, search.DefaultWeights()),
		popular,
		opts.Search,
		logger,
	)

	// 3. Context
	sessions := session.NewManager(opts.Contexts, logger)
	resolver := followup.NewResolver(
		cascade,
		opts.Catalog,
		sessions,
		state.NewManager(logger),
		followup.Config{PendingLimit: opts.PendingLimit},
		logger,
	)

	// 4. Turn router
	r := router.NewRouter(
		cascade,
		resolver,
		intent.NewClassifier(logger),
		sessions,
		response.NewComposer(normalizer.Normalize, opts.PendingLimit),
		response.NewGenerator(opts.LLM, opts.GenerationTimeout, logger),
		history.NewStore(opts.HistoryTTL, opts.HistoryLimit),
		opts.Publisher,
		logger,
	)

	return &Engine{
		Normalizer: normalizer,
		Extractor:  extractor,
		Cascade:    cascade,
		Popular:    popular,
		Sessions:   sessions,
		Router:     r,
	}
}
