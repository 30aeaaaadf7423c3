// Package session is the only writer of conversation context. Every operation is a
// single read-modify-write against the repository; a turn batches its changes through Apply.
package session

import (
	"context"
	"log"
	"time"

	"phone-store-be/pkg/store"
)

// Repository persists one context document per session. Implementations own expiry.
type Repository interface {
	Get(ctx context.Context, sessionID string) (*store.ConversationContext, bool, error)
	Save(ctx context.Context, c *store.ConversationContext) error
	Delete(ctx context.Context, sessionID string) error
}

// Manager exposes the context operations; it holds no business logic
type Manager struct {
	repo   Repository
	logger *log.Logger
	now    func() time.Time
}

// NewManager creates a new session manager
func NewManager(repo Repository, logger *log.Logger) *Manager {
	return &Manager{repo: repo, logger: logger, now: time.Now}
}

// Get returns the session context, creating it on first use
func (m *Manager) Get(ctx context.Context, sessionID string) (*store.ConversationContext, error) {
	c, found, err := m.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, store.Unavailable("context", "get", err)
	}
	if found {
		return c.Clone(), nil
	}

	c = store.NewConversationContext(sessionID, m.now())
	if err := m.repo.Save(ctx, c); err != nil {
		return nil, store.Unavailable("context", "create", err)
	}
	m.logger.Printf("[SESSION] created %s", sessionID)
	return c.Clone(), nil
}

// Peek returns the context without creating it
func (m *Manager) Peek(ctx context.Context, sessionID string) (*store.ConversationContext, bool, error) {
	c, found, err := m.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, false, store.Unavailable("context", "get", err)
	}
	if !found {
		return nil, false, nil
	}
	return c.Clone(), true, nil
}

// Mutation is one change to a context document
type Mutation func(c *store.ConversationContext)

// MergeSlots folds partial slots into the accumulated ones
func MergeSlots(patch store.Slots) Mutation {
	return func(c *store.ConversationContext) {
		c.Slots = c.Slots.Merge(patch)
	}
}

// SetCurrent anchors the conversation on a product; nil clears the anchor
func SetCurrent(product *store.ProductSummary) Mutation {
	return func(c *store.ConversationContext) {
		if product == nil {
			c.CurrentProduct = nil
			return
		}
		p := *product
		c.CurrentProduct = &p
	}
}

// SetPending replaces the disambiguation list; an empty list clears it
func SetPending(options []store.ProductSummary) Mutation {
	return func(c *store.ConversationContext) {
		if len(options) == 0 {
			c.PendingOptions = nil
			return
		}
		c.PendingOptions = append([]store.ProductSummary(nil), options...)
	}
}

// SetIntent records the last classified intent
func SetIntent(intent string) Mutation {
	return func(c *store.ConversationContext) {
		c.LastIntent = intent
	}
}

// ClearState drops the anchor, the pending list and the slots. The last intent survives.
func ClearState() Mutation {
	return func(c *store.ConversationContext) {
		c.CurrentProduct = nil
		c.PendingOptions = nil
		c.Slots = store.Slots{}
	}
}

// Apply runs mutations in order against one read of the context and saves once, so a
// failed save leaves the stored document as it was
func (m *Manager) Apply(ctx context.Context, sessionID string, mutations ...Mutation) (*store.ConversationContext, error) {
	return m.update(ctx, sessionID, "apply", func(c *store.ConversationContext) {
		for _, mutate := range mutations {
			if mutate != nil {
				mutate(c)
			}
		}
	})
}

// Merge folds partial slots into the accumulated ones
func (m *Manager) Merge(ctx context.Context, sessionID string, patch store.Slots) (*store.ConversationContext, error) {
	return m.update(ctx, sessionID, "merge", MergeSlots(patch))
}

// SetCurrentProduct anchors the conversation on a product; nil clears the anchor
func (m *Manager) SetCurrentProduct(ctx context.Context, sessionID string, product *store.ProductSummary) (*store.ConversationContext, error) {
	return m.update(ctx, sessionID, "set_current_product", SetCurrent(product))
}

// SetPendingOptions replaces the disambiguation list; an empty list clears it
func (m *Manager) SetPendingOptions(ctx context.Context, sessionID string, options []store.ProductSummary) (*store.ConversationContext, error) {
	return m.update(ctx, sessionID, "set_pending_options", SetPending(options))
}

// SetLastIntent records the last classified intent
func (m *Manager) SetLastIntent(ctx context.Context, sessionID string, intent string) (*store.ConversationContext, error) {
	return m.update(ctx, sessionID, "set_last_intent", SetIntent(intent))
}

// Clear drops the anchor, the pending list and the slots. The last intent survives.
func (m *Manager) Clear(ctx context.Context, sessionID string) (*store.ConversationContext, error) {
	return m.update(ctx, sessionID, "clear", ClearState())
}

// Delete removes the session entirely
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	if err := m.repo.Delete(ctx, sessionID); err != nil {
		return store.Unavailable("context", "delete", err)
	}
	m.logger.Printf("[SESSION] deleted %s", sessionID)
	return nil
}

func (m *Manager) update(ctx context.Context, sessionID, op string, mutate Mutation) (*store.ConversationContext, error) {
	c, found, err := m.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, store.Unavailable("context", op, err)
	}
	if !found {
		c = store.NewConversationContext(sessionID, m.now())
	} else {
		c = c.Clone()
	}

	mutate(c)
	c.UpdatedAt = m.now()

	if err := m.repo.Save(ctx, c); err != nil {
		return nil, store.Unavailable("context", op, err)
	}
	return c.Clone(), nil
}
