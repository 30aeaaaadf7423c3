package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"phone-store-be/pkg/store"
)

// ContextRepository keeps one JSON document per session in Redis so several API
// instances share conversation state. Every write refreshes the TTL.
type ContextRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewContextRepository(client *redis.Client, prefix string, ttl time.Duration) *ContextRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ContextRepository{client: client, prefix: prefix, ttl: ttl}
}

func (r *ContextRepository) key(sessionID string) string {
	return r.prefix + "ctx:" + sessionID
}

func (r *ContextRepository) Save(ctx context.Context, c *store.ConversationContext) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode context %s: %w", c.SessionID, err)
	}
	return r.client.Set(ctx, r.key(c.SessionID), raw, r.ttl).Err()
}

func (r *ContextRepository) Get(ctx context.Context, sessionID string) (*store.ConversationContext, bool, error) {
	raw, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var c store.ConversationContext
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, false, fmt.Errorf("decode context %s: %w", sessionID, err)
	}
	return &c, true, nil
}

func (r *ContextRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.key(sessionID)).Err()
}
