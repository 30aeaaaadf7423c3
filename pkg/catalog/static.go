package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"phone-store-be/pkg/store"
)

// StaticStore is an in-process catalog over a fixed item list. It backs the CLI and
// development runs without a database; Replace swaps the list atomically.
type StaticStore struct {
	matcher *Matcher

	mu    sync.RWMutex
	items []store.CatalogItem
}

// NewStaticStore builds a store over items
func NewStaticStore(items []store.CatalogItem, normalize func(string) string) *StaticStore {
	return &StaticStore{
		matcher: NewMatcher(normalize),
		items:   append([]store.CatalogItem(nil), items...),
	}
}

// LoadItems reads a JSON array of catalog items
func LoadItems(path string) ([]store.CatalogItem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var items []store.CatalogItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return items, nil
}

// Find evaluates the filter over the current items
func (s *StaticStore) Find(ctx context.Context, f Filter) ([]store.CatalogItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	items := s.items
	s.mu.RUnlock()
	return s.matcher.Apply(items, f)
}

// FindByID returns nil when the id is unknown
func (s *StaticStore) FindByID(ctx context.Context, id string) (*store.CatalogItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.items {
		if s.items[i].ID == id {
			item := s.items[i]
			return &item, nil
		}
	}
	return nil, nil
}

// Replace swaps the item list
func (s *StaticStore) Replace(items []store.CatalogItem) {
	s.mu.Lock()
	s.items = append([]store.CatalogItem(nil), items...)
	s.mu.Unlock()
}

// Len is the number of items
func (s *StaticStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
