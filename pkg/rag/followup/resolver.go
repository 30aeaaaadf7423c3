package followup

import (
	"context"
	"log"
	"strings"

	"phone-store-be/pkg/catalog"
	"phone-store-be/pkg/extract"
	"phone-store-be/pkg/rag/session"
	"phone-store-be/pkg/rag/state"
	"phone-store-be/pkg/search"
	"phone-store-be/pkg/store"
)

// Config holds resolver limits
type Config struct {
	PendingLimit int // options kept for a later selection
}

// DefaultConfig returns default resolver configuration
func DefaultConfig() Config {
	return Config{PendingLimit: 5}
}

// Resolution is everything the reply needs about one resolved turn
type Resolution struct {
	Decision        Decision                   `json:"decision"`
	Bound           bool                       `json:"bound"`
	Outcomes        []Outcome                  `json:"outcomes,omitempty"`
	Entity          extract.Entity             `json:"entity"`
	Search          *search.Result             `json:"search,omitempty"`
	Product         *store.CatalogItem         `json:"product,omitempty"`
	Options         []store.ProductSummary     `json:"options,omitempty"`
	Compared        []store.CatalogItem        `json:"compared,omitempty"`
	Colors          []store.ColorOption        `json:"colors,omitempty"`
	RequestedColors []string                   `json:"requested_colors,omitempty"`
	Installment     *InstallmentTerms          `json:"installment,omitempty"`
	Understood      store.Slots                `json:"understood"`
	Context         *store.ConversationContext `json:"context,omitempty"`

	changes []session.Mutation
}

// HasOutcome reports whether the outcome was recorded
func (r *Resolution) HasOutcome(o Outcome) bool {
	for _, x := range r.Outcomes {
		if x == o {
			return true
		}
	}
	return false
}

// MatchedProducts lists the products the turn resolved to, best first.
// Fallback suggestions are not matches and are excluded.
func (r *Resolution) MatchedProducts() []store.CatalogItem {
	switch {
	case len(r.Compared) > 0:
		return r.Compared
	case r.Search != nil && r.Search.Found():
		return r.Search.Products()
	case r.Product != nil:
		return []store.CatalogItem{*r.Product}
	}
	return nil
}

func (r *Resolution) change(m session.Mutation) {
	r.changes = append(r.changes, m)
}

func (r *Resolution) addOutcome(o Outcome) {
	if !r.HasOutcome(o) {
		r.Outcomes = append(r.Outcomes, o)
	}
}

// Resolver carries out follow-up decisions. A turn's context changes are collected while
// resolving and committed in one session write, together with the turn's intent.
type Resolver struct {
	cascade  *search.Cascade
	catalog  catalog.Store
	sessions *session.Manager
	states   *state.Manager
	config   Config
	logger   *log.Logger
}

// NewResolver creates a new follow-up resolver
func NewResolver(
	cascade *search.Cascade,
	catalogStore catalog.Store,
	sessions *session.Manager,
	states *state.Manager,
	config Config,
	logger *log.Logger,
) *Resolver {
	return &Resolver{
		cascade:  cascade,
		catalog:  catalogStore,
		sessions: sessions,
		states:   states,
		config:   config,
		logger:   logger,
	}
}

// Resolve classifies the message against the context and executes the decision.
// turnIntent is recorded as the last intent; empty leaves it unchanged.
func (r *Resolver) Resolve(ctx context.Context, sessionID, message string, c *store.ConversationContext, turnIntent string) (*Resolution, error) {
	req := r.cascade.Prepare(message)
	cls := Decide(req.Normalized, req.Entity, c)
	r.logger.Printf("[FOLLOWUP] session=%s decision=%s bound=%t entity=%s", sessionID, cls.Decision, cls.Bound, req.Entity)

	var (
		res *Resolution
		err error
	)
	switch {
	case cls.Decision == DecisionGeneral:
		res = &Resolution{Decision: DecisionGeneral}
	case cls.Decision == DecisionNumericSelection:
		res, err = r.selectOption(ctx, sessionID, cls.Number, c)
	case cls.Decision == DecisionColorQuery && !cls.Bound:
		res, err = r.freshColorQuery(ctx, sessionID, req)
	case cls.Decision == DecisionColorQuery, cls.Decision == DecisionStockQuery:
		res, err = r.boundQuery(ctx, sessionID, cls.Decision, req, c)
	case cls.Decision == DecisionInstallment:
		res, err = r.installment(ctx, sessionID, req, c)
	default:
		res, err = r.newSearch(ctx, sessionID, req, c)
	}
	if err != nil {
		return nil, err
	}
	return r.commit(ctx, sessionID, res, turnIntent)
}

// Compare searches each side of a comparison and offers the best item per side as
// pending options. Falls back to a plain search when no side resolves.
func (r *Resolver) Compare(ctx context.Context, sessionID, message string, c *store.ConversationContext, turnIntent string) (*Resolution, error) {
	req := r.cascade.Prepare(message)
	sides := SplitComparison(req.Normalized)
	r.logger.Printf("[FOLLOWUP] session=%s compare sides=%q", sessionID, sides)

	res := &Resolution{Decision: DecisionNewSearch, Entity: req.Entity}
	seen := make(map[string]struct{})
	for _, side := range sides {
		result, err := r.cascade.Search(ctx, side)
		if err != nil {
			return nil, err
		}
		top, ok := result.Top()
		if !result.Found() || !ok {
			continue
		}
		if _, dup := seen[top.ID]; dup {
			continue
		}
		seen[top.ID] = struct{}{}
		res.Compared = append(res.Compared, top)
		res.Options = append(res.Options, top.Summary())
	}

	if len(res.Compared) == 0 {
		return r.Resolve(ctx, sessionID, message, c, turnIntent)
	}
	res.change(r.states.TransitionToPending(res.Options))
	return r.commit(ctx, sessionID, res, turnIntent)
}

func (r *Resolver) selectOption(ctx context.Context, sessionID string, n Number, c *store.ConversationContext) (*Resolution, error) {
	res := &Resolution{Decision: DecisionNumericSelection, Bound: true}

	idx, ok := Select(n, c.PendingOptions)
	if !ok {
		// re-prompt; the pending list stays untouched
		res.addOutcome(OutcomeAmbiguousSelection)
		res.Options = append([]store.ProductSummary(nil), c.PendingOptions...)
		r.logger.Printf("[FOLLOWUP] selection %q matched no single option", n.Raw)
		return res, nil
	}

	option := c.PendingOptions[idx]
	item, err := r.lookup(ctx, option.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		r.logger.Printf("[FOLLOWUP] selected option %s no longer in catalog", option.ID)
		return r.staleSearch(ctx, sessionID, option.Name, c)
	}

	res.change(r.states.TransitionToFocused(item.Summary()))
	res.Product = item
	res.Colors = item.ColorOptions()
	r.logger.Printf("[FOLLOWUP] selected option %d: %s", idx+1, item.Name)
	return res, nil
}

func (r *Resolver) freshColorQuery(ctx context.Context, sessionID string, req search.Request) (*Resolution, error) {
	result, err := r.cascade.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	res := &Resolution{
		Decision:        DecisionColorQuery,
		Entity:          req.Entity,
		Search:          &result,
		RequestedColors: extract.NamedColors(req.Normalized),
	}
	top, ok := result.Top()
	if !result.Found() || !ok {
		return r.noMatch(res, store.Slots{Brand: req.Entity.Brand}, nil), nil
	}

	res.change(r.states.TransitionToFocused(top.Summary()))
	res.change(session.MergeSlots(store.Slots{Brand: req.Entity.Brand}))
	res.Product = &top
	res.Colors = top.ColorOptions()
	return res, nil
}

func (r *Resolver) boundQuery(ctx context.Context, sessionID string, decision Decision, req search.Request, c *store.ConversationContext) (*Resolution, error) {
	item, err := r.lookup(ctx, c.CurrentProduct.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		r.logger.Printf("[FOLLOWUP] current product %s no longer in catalog", c.CurrentProduct.ID)
		return r.staleSearch(ctx, sessionID, c.CurrentProduct.Name+" "+req.Query, c)
	}
	return &Resolution{
		Decision:        decision,
		Bound:           true,
		Entity:          req.Entity,
		Product:         item,
		Colors:          item.ColorOptions(),
		RequestedColors: extract.NamedColors(req.Normalized),
	}, nil
}

func (r *Resolver) installment(ctx context.Context, sessionID string, req search.Request, c *store.ConversationContext) (*Resolution, error) {
	item, err := r.lookup(ctx, c.CurrentProduct.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return r.staleSearch(ctx, sessionID, c.CurrentProduct.Name+" "+req.Query, c)
	}
	terms := ParseInstallmentTerms(req.Normalized)
	res := &Resolution{
		Decision:    DecisionInstallment,
		Bound:       true,
		Entity:      req.Entity,
		Product:     item,
		Installment: &terms,
	}
	// installment talk commits to the product; later bare numbers are terms, not picks
	res.change(r.states.TransitionToFocused(item.Summary()))
	return res, nil
}

// newSearch runs the full cascade. A message without a product mention refines the
// conversation: it inherits the brand slot and searches with the accumulated budget
// and features.
func (r *Resolver) newSearch(ctx context.Context, sessionID string, req search.Request, c *store.ConversationContext) (*Resolution, error) {
	// slots contributed by this message alone
	patch := store.Slots{
		Brand:         req.Entity.Brand,
		BudgetMillion: req.Preferences.BudgetMillion,
		Features:      req.Preferences.Features,
	}

	understoodNothing := req.Entity.IsEmpty() && req.Preferences.IsEmpty()
	if !req.Entity.MentionsProduct() && c != nil {
		if c.Slots.Brand != "" {
			req.Entity.Brand = c.Slots.Brand
			if req.Entity.ProductType == "" {
				req.Entity.ProductType = store.ProductTypePhone
			}
			r.logger.Printf("[FOLLOWUP] refinement inherits brand %s", c.Slots.Brand)
		}
		if req.Preferences.BudgetMillion == 0 {
			req.Preferences.BudgetMillion = c.Slots.BudgetMillion
		}
		req.Preferences.Features = c.Slots.Merge(store.Slots{Features: req.Preferences.Features}).Features
	}

	result, err := r.cascade.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	res := &Resolution{Decision: DecisionNewSearch, Entity: req.Entity, Search: &result}

	top, ok := result.Top()
	if !result.Found() || !ok {
		if understoodNothing {
			res.addOutcome(OutcomeNoEntityExtracted)
		}
		return r.noMatch(res, patch, c), nil
	}

	summaries := result.Summaries(r.config.PendingLimit)
	res.change(r.states.TransitionToBrowsing(summaries))
	res.change(session.MergeSlots(patch))
	res.Product = &top
	if len(summaries) > 1 {
		res.Options = summaries
	}
	return res, nil
}

// noMatch records what was understood, then clears the anchor so the shopper is not
// stuck on a dead end
func (r *Resolver) noMatch(res *Resolution, patch store.Slots, c *store.ConversationContext) *Resolution {
	res.addOutcome(OutcomeNoCandidatesFound)
	if c != nil {
		res.Understood = c.Slots.Merge(patch)
	} else {
		res.Understood = store.Slots{}.Merge(patch)
	}
	res.change(r.states.Reset())
	return res
}

// staleSearch handles a reference the catalog no longer knows: it counts as no
// candidates and triggers a fresh search on the remembered name
func (r *Resolver) staleSearch(ctx context.Context, sessionID, query string, c *store.ConversationContext) (*Resolution, error) {
	res, err := r.newSearch(ctx, sessionID, r.cascade.Prepare(query), c)
	if err != nil {
		return nil, err
	}
	res.Outcomes = append([]Outcome{OutcomeStaleContextReference}, res.Outcomes...)
	return res, nil
}

func (r *Resolver) lookup(ctx context.Context, id string) (*store.CatalogItem, error) {
	item, err := r.catalog.FindByID(ctx, id)
	if err != nil {
		return nil, store.Unavailable("catalog", "find_by_id", err)
	}
	return item, nil
}

// commit writes the turn's changes and intent in one read-modify-write. A failed write
// leaves the stored context as it was before the turn.
func (r *Resolver) commit(ctx context.Context, sessionID string, res *Resolution, turnIntent string) (*Resolution, error) {
	changes := res.changes
	if res.Decision == DecisionInstallment {
		turnIntent = IntentInstallment
	}
	if turnIntent != "" {
		changes = append(changes, session.SetIntent(turnIntent))
	}
	snapshot, err := r.sessions.Apply(ctx, sessionID, changes...)
	if err != nil {
		return nil, err
	}
	res.Context = snapshot
	res.changes = nil
	return res, nil
}

// comparisonSplitWords separate the sides of a comparison
var comparisonSplitWords = []string{"vs", "va", "voi", "hay", "hoac", "or"}

// SplitComparison splits "so sanh iphone 15 va galaxy s24" into its sides
func SplitComparison(normalized string) []string {
	text := " " + normalized + " "
	for _, lead := range []string{" so sanh ", " compare ", " khac nhau ", " nen mua ", " giua "} {
		text = strings.ReplaceAll(text, lead, " ")
	}
	for _, w := range comparisonSplitWords {
		text = strings.ReplaceAll(text, " "+w+" ", " | ")
	}

	var sides []string
	for _, part := range strings.Split(text, "|") {
		if part = strings.TrimSpace(part); part != "" {
			sides = append(sides, part)
		}
	}
	return sides
}
