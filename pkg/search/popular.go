package search

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"phone-store-be/pkg/store"
)

const popularKey = "popular"

// PopularCache keeps the fallback suggestion list for a short while.
// It is injected into the cascade; nothing about it is process-global.
type PopularCache struct {
	cache *cache.Cache
}

// NewPopularCache creates a cache whose entries expire after ttl
func NewPopularCache(ttl time.Duration) *PopularCache {
	return &PopularCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

// Get returns the cached list or loads and stores it. Load errors are not cached.
func (p *PopularCache) Get(ctx context.Context, load func(ctx context.Context) ([]store.CatalogItem, error)) ([]store.CatalogItem, error) {
	if x, found := p.cache.Get(popularKey); found {
		return cloneItems(x.([]store.CatalogItem)), nil
	}
	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	p.cache.Set(popularKey, cloneItems(items), cache.DefaultExpiration)
	return items, nil
}

// Invalidate drops the cached list, e.g. after a catalog refresh
func (p *PopularCache) Invalidate() {
	p.cache.Delete(popularKey)
}

func cloneItems(items []store.CatalogItem) []store.CatalogItem {
	return append([]store.CatalogItem(nil), items...)
}
