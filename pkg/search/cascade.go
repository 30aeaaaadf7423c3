// Package search resolves a shopper query to ranked catalog items through an ordered
// cascade of retrieval strategies.
package search

import (
	"context"
	"log"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"phone-store-be/pkg/catalog"
	"phone-store-be/pkg/extract"
	"phone-store-be/pkg/store"
	"phone-store-be/pkg/textnorm"
)

// Config holds the cascade thresholds
type Config struct {
	FuzzyFloor           float64
	FuzzyBrandBonus      float64
	CheapPriceMax        float64 // VND
	PremiumPriceMin      float64 // VND
	GamingRAMMin         int
	GamingChipsetPattern string
	CameraPattern        string
	BatteryMin           int
	CandidateLimit       int
	MaxResults           int
	FallbackLimit        int
}

// DefaultConfig returns the production thresholds
func DefaultConfig() Config {
	return Config{
		FuzzyFloor:           0.2,
		FuzzyBrandBonus:      0.1,
		CheapPriceMax:        7_000_000,
		PremiumPriceMin:      20_000_000,
		GamingRAMMin:         8,
		GamingChipsetPattern: `(snapdragon 8|snapdragon 7 plus|dimensity [89][0-9]{3}|a1[5-8]|a[0-9]{2} pro|exynos 2[0-9]{3}|tensor)`,
		CameraPattern:        `(^|[^0-9])(4[89]|[5-9][0-9]|[1-9][0-9]{2}) ?mp`,
		BatteryMin:           5000,
		CandidateLimit:       50,
		MaxResults:           10,
		FallbackLimit:        5,
	}
}

// Request is a fully prepared query. Preferences may carry slots accumulated in earlier
// turns, which is how a refinement reuses the conversation's budget and features.
type Request struct {
	Query       string
	Normalized  string
	Entity      extract.Entity
	Preferences extract.Preferences
}

// Cascade runs the strategies in order and stops at the first non-empty one
type Cascade struct {
	catalog   catalog.Store
	extractor *extract.Extractor
	scorer    *Scorer
	popular   *PopularCache
	config    Config
	logger    *log.Logger
}

// NewCascade wires a cascade. popular may be nil, in which case fallback always hits the catalog.
func NewCascade(
	catalogStore catalog.Store,
	extractor *extract.Extractor,
	scorer *Scorer,
	popular *PopularCache,
	config Config,
	logger *log.Logger,
) *Cascade {
	return &Cascade{
		catalog:   catalogStore,
		extractor: extractor,
		scorer:    scorer,
		popular:   popular,
		config:    config,
		logger:    logger,
	}
}

// Prepare normalizes and extracts a raw query
func (c *Cascade) Prepare(raw string) Request {
	normalized := c.extractor.Normalizer().Normalize(raw)
	return Request{
		Query:       raw,
		Normalized:  normalized,
		Entity:      c.extractor.ExtractNormalized(normalized),
		Preferences: extract.ParsePreferences(normalized),
	}
}

// Search runs the cascade for a raw query
func (c *Cascade) Search(ctx context.Context, raw string) (Result, error) {
	return c.Execute(ctx, c.Prepare(raw))
}

type strategyFunc func(ctx context.Context, req Request) ([]Scored, error)

// Execute runs the cascade for a prepared request. Catalog failures are returned as
// collaborator errors and never downgraded to an empty result.
func (c *Cascade) Execute(ctx context.Context, req Request) (Result, error) {
	ctx, span := otel.Tracer("search").Start(ctx, "Cascade.Execute")
	defer span.End()

	result := Result{
		OriginalQuery: req.Query,
		Normalized:    req.Normalized,
		Entity:        req.Entity,
	}

	c.logger.Printf("[SEARCH] query=%q entity=%s budget=%.1f features=%v",
		req.Normalized, req.Entity, req.Preferences.BudgetMillion, req.Preferences.Features)

	steps := []struct {
		strategy Strategy
		run      strategyFunc
	}{
		{StrategyExactModel, c.exactModel},
		{StrategyBrand, c.brand},
		{StrategyFeature, c.feature},
		{StrategyFuzzy, c.fuzzy},
	}
	for _, step := range steps {
		items, err := step.run(ctx, req)
		if err != nil {
			span.RecordError(err)
			return result, err
		}
		if len(items) == 0 {
			continue
		}
		result.Items = c.truncate(items)
		result.Strategy = step.strategy
		result.Success = true
		c.logger.Printf("[SEARCH] strategy=%s hits=%d top=%q", step.strategy, len(items), items[0].Item.Name)
		span.SetAttributes(attribute.String("search.strategy", string(step.strategy)), attribute.Int("search.hits", len(items)))
		return result, nil
	}

	// 5. Fallback: something to say, never a match
	popular, err := c.popularItems(ctx)
	if err != nil {
		span.RecordError(err)
		return result, err
	}
	result.Strategy = StrategyFallback
	result.Success = false
	for _, item := range popular {
		result.Items = append(result.Items, Scored{Item: item})
	}
	c.logger.Printf("[SEARCH] strategy=fallback suggestions=%d", len(popular))
	span.SetAttributes(attribute.String("search.strategy", string(StrategyFallback)))
	return result, nil
}

func (c *Cascade) truncate(items []Scored) []Scored {
	if c.config.MaxResults > 0 && len(items) > c.config.MaxResults {
		return items[:c.config.MaxResults]
	}
	return items
}

func (c *Cascade) find(ctx context.Context, f catalog.Filter) ([]store.CatalogItem, error) {
	if f.Limit == 0 {
		f.Limit = c.config.CandidateLimit
	}
	items, err := c.catalog.Find(ctx, f)
	if err != nil {
		return nil, store.Unavailable("catalog", "find", err)
	}
	return items, nil
}

func (c *Cascade) rank(req Request, items []store.CatalogItem) []Scored {
	if len(items) == 0 {
		return nil
	}
	return c.scorer.Rank(Query{Normalized: req.Normalized, Entity: req.Entity}, items)
}

// exactModel filters on the model phrase, relaxing storage when it empties the set, then
// falls back to a brand pass with an in-process model containment check
func (c *Cascade) exactModel(ctx context.Context, req Request) ([]Scored, error) {
	e := req.Entity
	if e.Model == "" {
		return nil, nil
	}

	// 1. Name filter from model + variant (+ storage), within the brand when one was named
	f := catalog.Filter{
		NamePatterns: []string{catalog.NamePattern(e.ModelPhrase())},
		Brand:        e.Brand,
		Category:     e.ProductType,
		StorageGB:    e.StorageGB,
	}
	items, err := c.find(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 && e.StorageGB > 0 {
		f.StorageGB = 0
		if items, err = c.find(ctx, f); err != nil {
			return nil, err
		}
	}
	if len(items) > 0 {
		return c.rank(req, items), nil
	}

	// 2. Brand reference first, then model containment on the names
	if e.Brand == "" {
		return nil, nil
	}
	byBrand, err := c.find(ctx, catalog.Filter{Brand: e.Brand, Category: e.ProductType})
	if err != nil {
		return nil, err
	}
	model := textnorm.Compact(e.Model)
	var matched []store.CatalogItem
	for _, item := range byBrand {
		if strings.Contains(textnorm.Compact(c.extractor.Normalizer().Normalize(item.Name)), model) {
			matched = append(matched, item)
		}
	}
	return c.rank(req, matched), nil
}

// brand returns every item of the brand when no model was named
func (c *Cascade) brand(ctx context.Context, req Request) ([]Scored, error) {
	e := req.Entity
	if e.Brand == "" || e.Model != "" {
		return nil, nil
	}
	f := catalog.Filter{
		Category: e.ProductType,
		AnyOf: []catalog.Filter{
			{Brand: e.Brand},
			{NamePatterns: []string{catalog.NamePattern(e.Brand)}},
		},
	}
	if req.Preferences.BudgetMillion > 0 {
		f.PriceMax = req.Preferences.BudgetMillion * 1e6
	}
	if req.Preferences.MinPriceMillion > 0 {
		f.PriceMin = req.Preferences.MinPriceMillion * 1e6
	}
	items, err := c.find(ctx, f)
	if err != nil {
		return nil, err
	}
	return c.rank(req, items), nil
}

// FeatureFilter maps qualitative preferences onto catalog conditions.
// ok is false when nothing in the preferences can narrow the catalog.
func (c *Cascade) FeatureFilter(req Request) (catalog.Filter, bool) {
	p := req.Preferences
	f := catalog.Filter{
		Category: req.Entity.ProductType,
		Brand:    req.Entity.Brand,
		Sort:     catalog.SortPopular,
	}
	if f.Category == "" {
		f.Category = store.ProductTypePhone
	}
	narrowed := false

	has := func(feature string) bool {
		for _, x := range p.Features {
			if x == feature {
				return true
			}
		}
		return false
	}

	if p.BudgetMillion > 0 {
		f.PriceMax = p.BudgetMillion * 1e6
		narrowed = true
	}
	if p.MinPriceMillion > 0 {
		f.PriceMin = p.MinPriceMillion * 1e6
		narrowed = true
	}
	if has(extract.FeatureCheap) {
		if f.PriceMax == 0 || f.PriceMax > c.config.CheapPriceMax {
			f.PriceMax = c.config.CheapPriceMax
		}
		f.Sort = catalog.SortPriceAsc
		narrowed = true
	}
	if has(extract.FeaturePremium) {
		if f.PriceMin < c.config.PremiumPriceMin {
			f.PriceMin = c.config.PremiumPriceMin
		}
		f.Sort = catalog.SortPriceDesc
		narrowed = true
	}
	if has(extract.FeatureGaming) {
		f.AnyOf = []catalog.Filter{
			{MinRAM: c.config.GamingRAMMin},
			{ChipsetPattern: c.config.GamingChipsetPattern},
		}
		narrowed = true
	}
	if has(extract.FeatureCamera) {
		f.CameraPattern = c.config.CameraPattern
		narrowed = true
	}
	if has(extract.FeatureBattery) {
		f.MinBattery = c.config.BatteryMin
		narrowed = true
	}
	return f, narrowed
}

func (c *Cascade) feature(ctx context.Context, req Request) ([]Scored, error) {
	f, ok := c.FeatureFilter(req)
	if !ok {
		return nil, nil
	}
	items, err := c.find(ctx, f)
	if err != nil {
		return nil, err
	}
	return c.rank(req, items), nil
}

// fuzzy matches any meaningful token and keeps items whose token relevance clears the floor
func (c *Cascade) fuzzy(ctx context.Context, req Request) ([]Scored, error) {
	tokens := fuzzyTokens(req)
	if len(tokens) == 0 {
		return nil, nil
	}

	patterns := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		patterns = append(patterns, catalog.NamePattern(tok))
	}
	items, err := c.find(ctx, catalog.Filter{AnyNamePatterns: patterns, Category: req.Entity.ProductType})
	if err != nil {
		return nil, err
	}

	normalize := c.extractor.Normalizer().Normalize
	var kept []store.CatalogItem
	for _, item := range items {
		name := normalize(item.Name)
		hit := 0
		for _, tok := range tokens {
			if strings.Contains(name, tok) {
				hit++
			}
		}
		relevance := float64(hit) / float64(len(tokens))
		if req.Entity.Brand != "" && normalize(item.BrandName) == req.Entity.Brand {
			relevance += c.config.FuzzyBrandBonus
		}
		if relevance < c.config.FuzzyFloor {
			continue
		}
		kept = append(kept, item)
	}
	return c.rank(req, kept), nil
}

// fuzzyTokens are the brand and model tokens minus stop words, or else the three most
// meaningful query tokens
func fuzzyTokens(req Request) []string {
	var tokens []string
	for _, tok := range textnorm.Tokens(req.Entity.Brand + " " + req.Entity.ModelPhrase()) {
		if !extract.IsStopWord(tok) {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) > 0 {
		return tokens
	}
	return extract.MeaningfulTokens(req.Normalized, 3)
}

func (c *Cascade) popularItems(ctx context.Context) ([]store.CatalogItem, error) {
	load := func(ctx context.Context) ([]store.CatalogItem, error) {
		return c.find(ctx, catalog.Filter{InStockOnly: true, Sort: catalog.SortPopular, Limit: c.config.FallbackLimit})
	}
	if c.popular == nil {
		return load(ctx)
	}
	return c.popular.Get(ctx, load)
}
