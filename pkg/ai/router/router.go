package router

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"phone-store-be/pkg/events"
	"phone-store-be/pkg/llm"
	"phone-store-be/pkg/rag/followup"
	"phone-store-be/pkg/rag/history"
	"phone-store-be/pkg/rag/intent"
	"phone-store-be/pkg/rag/prompt"
	"phone-store-be/pkg/rag/response"
	"phone-store-be/pkg/rag/session"
	"phone-store-be/pkg/search"
	"phone-store-be/pkg/store"
)

// ExecuteResult is the outcome of one assistant turn
type ExecuteResult struct {
	Intent          intent.Intent              `json:"intent"`
	Decision        followup.Decision          `json:"decision"`
	Outcomes        []followup.Outcome         `json:"outcomes,omitempty"`
	Strategy        search.Strategy            `json:"strategy,omitempty"`
	MatchedProducts []store.CatalogItem        `json:"matched_products"`
	Options         []store.ProductSummary     `json:"options,omitempty"`
	Reply           string                     `json:"reply"`
	Generated       bool                       `json:"generated"`
	Mode            Mode                       `json:"mode"`
	Context         *store.ConversationContext `json:"context"`
}

// EventPublisher receives turn analytics. *nats.Publisher satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Router runs a turn end to end: classification, follow-up resolution, context writes,
// then reply generation. Generation runs last so its failure never undoes context writes.
type Router struct {
	cascade    *search.Cascade
	resolver   *followup.Resolver
	classifier *intent.Classifier
	sessions   *session.Manager
	composer   *response.Composer
	generator  *response.Generator
	history    *history.Store
	publisher  EventPublisher
	logger     *log.Logger
}

// NewRouter creates a new turn router. generator, history and publisher may be nil.
func NewRouter(
	cascade *search.Cascade,
	resolver *followup.Resolver,
	classifier *intent.Classifier,
	sessions *session.Manager,
	composer *response.Composer,
	generator *response.Generator,
	historyStore *history.Store,
	publisher EventPublisher,
	logger *log.Logger,
) *Router {
	return &Router{
		cascade:    cascade,
		resolver:   resolver,
		classifier: classifier,
		sessions:   sessions,
		composer:   composer,
		generator:  generator,
		history:    historyStore,
		publisher:  publisher,
		logger:     logger,
	}
}

// Resolve handles one shopper message for a session
func (r *Router) Resolve(ctx context.Context, sessionID, message string) (*ExecuteResult, error) {
	ctx, span := otel.Tracer("router").Start(ctx, "Router.Resolve")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	// 1. Directives
	parsed := Parse(message)
	r.logger.Printf("[ROUTER] session=%s mode=%s message=%q", sessionID, parsed.Mode, truncateLog(parsed.CleanPrompt, 80))
	switch parsed.Mode {
	case ModeReset:
		return r.reset(ctx, sessionID)
	case ModeSearch:
		return r.searchOnly(ctx, sessionID, parsed.CleanPrompt)
	}

	// 2. Current context
	current, err := r.sessions.Get(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// 3. Intent
	req := r.cascade.Prepare(parsed.CleanPrompt)
	classified := r.classifier.Classify(req.Normalized, req.Entity)

	// 4. Small talk is answered without touching the conversation
	var res *followup.Resolution
	switch {
	case isSmallTalk(classified.Intent, req, current):
		r.logger.Printf("[ROUTER] session=%s small talk intent=%s, context untouched", sessionID, classified.Intent)
		res = &followup.Resolution{Decision: followup.DecisionGeneral, Entity: req.Entity, Context: current}
	case classified.Intent == intent.Compare:
		res, err = r.resolver.Compare(ctx, sessionID, parsed.CleanPrompt, current, string(classified.Intent))
	default:
		// follow-up resolution; the turn's context changes are committed in one write
		res, err = r.resolver.Resolve(ctx, sessionID, parsed.CleanPrompt, current, string(classified.Intent))
	}
	if err != nil {
		span.RecordError(err)
		r.logger.Printf("[ROUTER] resolution failed: %v", err)
		return nil, err
	}
	snapshot := res.Context

	result := &ExecuteResult{
		Intent:          classified.Intent,
		Decision:        res.Decision,
		Outcomes:        res.Outcomes,
		MatchedProducts: res.MatchedProducts(),
		Options:         res.Options,
		Mode:            ModeChat,
		Context:         snapshot,
	}
	if res.Search != nil {
		result.Strategy = res.Search.Strategy
	}
	span.SetAttributes(
		attribute.String("turn.intent", string(result.Intent)),
		attribute.String("turn.decision", string(result.Decision)),
		attribute.Int("turn.matched", len(result.MatchedProducts)),
	)

	// 5. Reply; context is already committed
	reply := r.composer.Compose(classified.Intent, res)
	result.Reply, result.Generated = r.generate(ctx, sessionID, parsed.CleanPrompt, classified.Intent, res, reply)

	r.remember(sessionID, parsed.CleanPrompt, result.Reply)
	r.publish(ctx, sessionID, result)
	return result, nil
}

// isSmallTalk reports a greeting, order question or general chat that names no product
// and is not a follow-up to the current conversation
func isSmallTalk(in intent.Intent, req search.Request, current *store.ConversationContext) bool {
	switch in {
	case intent.Greeting, intent.OrderTracking, intent.General:
	default:
		return false
	}
	if req.Entity.MentionsProduct() || req.Entity.ProductType != "" || !req.Preferences.IsEmpty() {
		return false
	}
	switch followup.Decide(req.Normalized, req.Entity, current).Decision {
	case followup.DecisionNewSearch, followup.DecisionGeneral:
		return true
	}
	return false
}

// SearchProducts runs the candidate search without touching any session
func (r *Router) SearchProducts(ctx context.Context, rawQuery string) (search.Result, error) {
	return r.cascade.Search(ctx, rawQuery)
}

// Context returns the stored context of a session, if any
func (r *Router) Context(ctx context.Context, sessionID string) (*store.ConversationContext, bool, error) {
	return r.sessions.Peek(ctx, sessionID)
}

// EndSession forgets the context and chat history of a session
func (r *Router) EndSession(ctx context.Context, sessionID string) error {
	if r.history != nil {
		r.history.Delete(sessionID)
	}
	return r.sessions.Delete(ctx, sessionID)
}

func (r *Router) reset(ctx context.Context, sessionID string) (*ExecuteResult, error) {
	if r.history != nil {
		r.history.Delete(sessionID)
	}
	c, err := r.sessions.Clear(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &ExecuteResult{
		Intent:   intent.General,
		Decision: followup.DecisionGeneral,
		Reply:    "Đã bắt đầu cuộc trò chuyện mới. Bạn cần tìm sản phẩm nào ạ?",
		Mode:     ModeReset,
		Context:  c,
	}, nil
}

func (r *Router) searchOnly(ctx context.Context, sessionID, query string) (*ExecuteResult, error) {
	result, err := r.cascade.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	c, _, err := r.sessions.Peek(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	res := &followup.Resolution{Decision: followup.DecisionNewSearch, Entity: result.Entity, Search: &result}
	if top, ok := result.Top(); ok && result.Found() {
		res.Product = &top
		if summaries := result.Summaries(5); len(summaries) > 1 {
			res.Options = summaries
		}
	} else {
		res.Outcomes = []followup.Outcome{followup.OutcomeNoCandidatesFound}
	}

	return &ExecuteResult{
		Intent:          intent.ProductInquiry,
		Decision:        followup.DecisionNewSearch,
		Outcomes:        res.Outcomes,
		Strategy:        result.Strategy,
		MatchedProducts: res.MatchedProducts(),
		Options:         res.Options,
		Reply:           r.composer.Compose(intent.ProductInquiry, res).Text,
		Mode:            ModeSearch,
		Context:         c,
	}, nil
}

func (r *Router) generate(ctx context.Context, sessionID, message string, in intent.Intent, res *followup.Resolution, reply response.Reply) (string, bool) {
	products := res.MatchedProducts()
	if len(products) == 0 && res.Search != nil {
		// fallback suggestions are the only products the model may mention
		products = res.Search.Products()
	}
	var past []llm.Message
	if r.history != nil {
		past = r.history.Recent(sessionID)
	}
	return r.generator.Generate(ctx, prompt.Input{
		Message:  message,
		Intent:   string(in),
		Products: products,
		Facts:    reply.Facts,
		Draft:    reply.Text,
		History:  past,
	})
}

func (r *Router) remember(sessionID, message, reply string) {
	if r.history != nil {
		r.history.Append(sessionID, message, reply)
	}
}

// publish sends turn analytics without blocking or failing the turn
func (r *Router) publish(ctx context.Context, sessionID string, result *ExecuteResult) {
	if r.publisher == nil {
		return
	}
	event := events.TurnResolved{
		EventID:    uuid.NewString(),
		SessionID:  sessionID,
		Intent:     string(result.Intent),
		Decision:   string(result.Decision),
		Strategy:   string(result.Strategy),
		Generated:  result.Generated,
		OccurredAt: time.Now(),
	}
	for _, o := range result.Outcomes {
		event.Outcomes = append(event.Outcomes, string(o))
	}
	for _, p := range result.MatchedProducts {
		event.ProductIDs = append(event.ProductIDs, p.ID)
	}

	go func() {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := r.publisher.Publish(pubCtx, event); err != nil {
			r.logger.Printf("[ROUTER] turn event not published: %v", err)
		}
	}()
}

// truncateLog truncates string for logging
func truncateLog(s string, maxLen int) string {
	if r := []rune(s); len(r) > maxLen {
		return string(r[:maxLen]) + "..."
	}
	return s
}
