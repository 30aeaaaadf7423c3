// Package history keeps the recent chat turns of each session for reply generation.
package history

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"phone-store-be/pkg/llm"
)

// Store keeps a bounded window of turns per session. Sessions expire with the
// conversation context.
type Store struct {
	mu    sync.Mutex
	cache *cache.Cache
	limit int
}

// NewStore creates a history store keeping at most limit messages per session
func NewStore(ttl time.Duration, limit int) *Store {
	return &Store{
		cache: cache.New(ttl, ttl*2),
		limit: limit,
	}
}

// Append records one exchange; empty replies are skipped
func (s *Store) Append(sessionID, userMessage, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := s.load(sessionID)
	messages = append(messages, llm.Message{Role: "user", Content: userMessage})
	if reply != "" {
		messages = append(messages, llm.Message{Role: "assistant", Content: reply})
	}
	if len(messages) > s.limit {
		messages = messages[len(messages)-s.limit:]
	}
	s.cache.SetDefault(sessionID, messages)
}

// Recent returns a copy of the stored messages, oldest first
func (s *Store) Recent(sessionID string) []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Message(nil), s.load(sessionID)...)
}

// Delete forgets a session
func (s *Store) Delete(sessionID string) {
	s.cache.Delete(sessionID)
}

func (s *Store) load(sessionID string) []llm.Message {
	if v, found := s.cache.Get(sessionID); found {
		return v.([]llm.Message)
	}
	return nil
}
