// Package cache stores search results in Redis so repeated queries skip the catalog.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"phone-store-be/pkg/search"
)

// ErrCacheMiss indicates a cache miss.
var ErrCacheMiss = errors.New("cache miss")

// ResultCache keeps search results keyed by normalized query. Keys carry a catalog
// generation so a refresh invalidates every entry at once.
type ResultCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewResultCache creates a result cache. A nil client disables caching.
func NewResultCache(client *redis.Client, prefix string, ttl time.Duration) *ResultCache {
	if prefix == "" {
		prefix = "phone-store:search:"
	}
	return &ResultCache{client: client, prefix: prefix, ttl: ttl}
}

// Enabled reports whether results are cached
func (c *ResultCache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *ResultCache) generationKey() string {
	return c.prefix + "generation"
}

func (c *ResultCache) key(ctx context.Context, normalized string) (string, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("redis get generation: %w", err)
	}
	sum := sha1.Sum([]byte(normalized))
	return fmt.Sprintf("%sg%d:%s", c.prefix, gen, hex.EncodeToString(sum[:])), nil
}

// Get returns the cached result for a normalized query
func (c *ResultCache) Get(ctx context.Context, normalized string) (search.Result, error) {
	if !c.Enabled() {
		return search.Result{}, ErrCacheMiss
	}
	key, err := c.key(ctx, normalized)
	if err != nil {
		return search.Result{}, err
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return search.Result{}, ErrCacheMiss
	}
	if err != nil {
		return search.Result{}, fmt.Errorf("redis get: %w", err)
	}

	var result search.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return search.Result{}, fmt.Errorf("decode cached result: %w", err)
	}
	return result, nil
}

// Set stores a result. Fallback results are not cached; they depend on popularity,
// not on the query.
func (c *ResultCache) Set(ctx context.Context, normalized string, result search.Result) error {
	if !c.Enabled() || !result.Success {
		return nil
	}
	key, err := c.key(ctx, normalized)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate drops every cached result by moving to a new generation. Old entries
// expire on their own.
func (c *ResultCache) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	if err := c.client.Incr(ctx, c.generationKey()).Err(); err != nil {
		return fmt.Errorf("redis incr generation: %w", err)
	}
	return nil
}
