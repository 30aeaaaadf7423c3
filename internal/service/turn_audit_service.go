package service

import (
	"context"
	"sync"

	"phone-store-be/internal/dto"
	"phone-store-be/internal/pkg/logger"
	"phone-store-be/pkg/events"
)

// ITurnAuditService aggregates published turn events
type ITurnAuditService interface {
	Handle(ctx context.Context, event events.Event) error
	Stats() *dto.TurnStatsResponse
}

type turnAuditService struct {
	logger logger.ILogger

	mu         sync.Mutex
	total      int
	generated  int
	byIntent   map[string]int
	byDecision map[string]int
	byOutcome  map[string]int
	products   map[string]int
}

func NewTurnAuditService(log logger.ILogger) ITurnAuditService {
	return &turnAuditService{
		logger:     log,
		byIntent:   make(map[string]int),
		byDecision: make(map[string]int),
		byOutcome:  make(map[string]int),
		products:   make(map[string]int),
	}
}

func (s *turnAuditService) Handle(_ context.Context, event events.Event) error {
	if event.EventType() != events.TypeTurnResolved {
		return nil
	}
	p := event.Payload()

	s.mu.Lock()
	s.total++
	if g, _ := p["generated"].(bool); g {
		s.generated++
	}
	s.byIntent[str(p["intent"])]++
	s.byDecision[str(p["decision"])]++
	for _, o := range strs(p["outcomes"]) {
		s.byOutcome[o]++
	}
	for _, id := range strs(p["product_ids"]) {
		s.products[id]++
	}
	s.mu.Unlock()

	s.logger.Debug("AUDIT", "turn recorded", map[string]interface{}{
		"session_id": p["session_id"],
		"intent":     p["intent"],
		"decision":   p["decision"],
	})
	return nil
}

func (s *turnAuditService) Stats() *dto.TurnStatsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &dto.TurnStatsResponse{
		Turns:      s.total,
		Generated:  s.generated,
		ByIntent:   copyCounts(s.byIntent),
		ByDecision: copyCounts(s.byDecision),
		ByOutcome:  copyCounts(s.byOutcome),
		Products:   copyCounts(s.products),
	}
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

// strs reads a list that is either typed or decoded from JSON
func strs(v interface{}) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, x := range list {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
