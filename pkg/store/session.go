package store

import (
	"sort"
	"time"
)

// Slots is the accumulated user intent of one conversation
type Slots struct {
	Brand         string   `json:"brand,omitempty"`
	BudgetMillion float64  `json:"budget_million,omitempty"`
	Features      []string `json:"features,omitempty"` // sorted set
}

// IsEmpty reports whether nothing has been accumulated yet
func (s Slots) IsEmpty() bool {
	return s.Brand == "" && s.BudgetMillion == 0 && len(s.Features) == 0
}

// HasFeature reports whether the feature is in the set
func (s Slots) HasFeature(feature string) bool {
	for _, f := range s.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// Merge folds a patch into the slots: brand and budget are overwritten when the
// patch carries them, features are unioned and never removed.
func (s Slots) Merge(patch Slots) Slots {
	merged := Slots{
		Brand:         s.Brand,
		BudgetMillion: s.BudgetMillion,
	}
	if patch.Brand != "" {
		merged.Brand = patch.Brand
	}
	if patch.BudgetMillion > 0 {
		merged.BudgetMillion = patch.BudgetMillion
	}

	set := make(map[string]struct{}, len(s.Features)+len(patch.Features))
	for _, f := range s.Features {
		set[f] = struct{}{}
	}
	for _, f := range patch.Features {
		if f != "" {
			set[f] = struct{}{}
		}
	}
	if len(set) > 0 {
		merged.Features = make([]string, 0, len(set))
		for f := range set {
			merged.Features = append(merged.Features, f)
		}
		sort.Strings(merged.Features)
	}
	return merged
}

// ConversationContext is the per-session state of the assistant.
//
// CurrentProduct is the weak reference to the last resolved item (THE WORKBENCH),
// PendingOptions is the disambiguation list awaiting a selection (THE WAITING ROOM).
type ConversationContext struct {
	SessionID      string           `json:"session_id"`
	CurrentProduct *ProductSummary  `json:"current_product,omitempty"`
	PendingOptions []ProductSummary `json:"pending_options,omitempty"`
	Slots          Slots            `json:"slots"`
	LastIntent     string           `json:"last_intent,omitempty"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// NewConversationContext creates the empty context of a fresh session
func NewConversationContext(sessionID string, now time.Time) *ConversationContext {
	return &ConversationContext{
		SessionID: sessionID,
		UpdatedAt: now,
	}
}

// HasCurrentProduct reports whether a product is anchored
func (c *ConversationContext) HasCurrentProduct() bool {
	return c != nil && c.CurrentProduct != nil && c.CurrentProduct.ID != ""
}

// HasPendingOptions reports whether a disambiguation list is awaiting a choice
func (c *ConversationContext) HasPendingOptions() bool {
	return c != nil && len(c.PendingOptions) > 0
}

// Clone returns a deep copy so callers never alias repository state
func (c *ConversationContext) Clone() *ConversationContext {
	if c == nil {
		return nil
	}
	out := *c
	if c.CurrentProduct != nil {
		p := *c.CurrentProduct
		out.CurrentProduct = &p
	}
	if c.PendingOptions != nil {
		out.PendingOptions = append([]ProductSummary(nil), c.PendingOptions...)
	}
	if c.Slots.Features != nil {
		out.Slots.Features = append([]string(nil), c.Slots.Features...)
	}
	return &out
}
