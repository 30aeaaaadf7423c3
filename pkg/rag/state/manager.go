package state

import (
	"log"

	"phone-store-be/pkg/rag/session"
	"phone-store-be/pkg/store"
)

// Manager turns conversation anchor transitions into context mutations. The caller
// commits them together with the rest of the turn through session.Manager.Apply.
type Manager struct {
	logger *log.Logger
}

// NewManager creates a new state manager
func NewManager(logger *log.Logger) *Manager {
	return &Manager{logger: logger}
}

// TransitionToFocused anchors the session on one product and drops pending options
func (m *Manager) TransitionToFocused(product store.ProductSummary) session.Mutation {
	m.logger.Printf("[STATE] Transition to FOCUSED: %s", product.Name)
	return func(c *store.ConversationContext) {
		session.SetCurrent(&product)(c)
		session.SetPending(nil)(c)
	}
}

// TransitionToBrowsing anchors the session on the top candidate and keeps the rest as
// pending options awaiting a selection
func (m *Manager) TransitionToBrowsing(candidates []store.ProductSummary) session.Mutation {
	switch len(candidates) {
	case 0:
		return m.Reset()
	case 1:
		return m.TransitionToFocused(candidates[0])
	}
	top := candidates[0]
	m.logger.Printf("[STATE] Transition to BROWSING: %d candidates", len(candidates))
	return func(c *store.ConversationContext) {
		session.SetCurrent(&top)(c)
		session.SetPending(candidates)(c)
	}
}

// TransitionToPending keeps the anchor untouched and only offers options (compare turns)
func (m *Manager) TransitionToPending(options []store.ProductSummary) session.Mutation {
	m.logger.Printf("[STATE] Offering %d options", len(options))
	return session.SetPending(options)
}

// Reset clears the anchor after a dead-end search
func (m *Manager) Reset() session.Mutation {
	m.logger.Printf("[STATE] Reset after empty search")
	return session.ClearState()
}
