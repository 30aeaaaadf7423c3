package events

import "time"

// Event types published by the assistant
const (
	TypeTurnResolved   = "assistant.turn_resolved"
	TypeCatalogUpdated = "catalog.updated"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the subject suffix for this event (e.g., "assistant.turn_resolved").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic event carried on the bus
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// TurnResolved describes one resolved assistant turn for analytics
type TurnResolved struct {
	EventID    string
	SessionID  string
	Intent     string
	Decision   string
	Strategy   string
	Outcomes   []string
	ProductIDs []string
	Generated  bool
	OccurredAt time.Time
}

func (e TurnResolved) EventType() string {
	return TypeTurnResolved
}

func (e TurnResolved) Payload() map[string]interface{} {
	return map[string]interface{}{
		"event_id":    e.EventID,
		"session_id":  e.SessionID,
		"intent":      e.Intent,
		"decision":    e.Decision,
		"strategy":    e.Strategy,
		"outcomes":    e.Outcomes,
		"product_ids": e.ProductIDs,
		"generated":   e.Generated,
		"occurred_at": e.OccurredAt.Format(time.RFC3339),
	}
}

func (e TurnResolved) Timestamp() time.Time {
	return e.OccurredAt
}
