package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"phone-store-be/pkg/store"
)

// ContextRepository keeps conversation contexts in process memory.
// Entries expire ttl after their last write.
type ContextRepository struct {
	cache *cache.Cache
}

func NewContextRepository(ttl time.Duration) *ContextRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	// purge expired entries every 10 minutes or every ttl, whichever is shorter
	purge := 10 * time.Minute
	if ttl < purge {
		purge = ttl
	}
	return &ContextRepository{
		cache: cache.New(ttl, purge),
	}
}

func (r *ContextRepository) Save(_ context.Context, c *store.ConversationContext) error {
	r.cache.Set(c.SessionID, c.Clone(), cache.DefaultExpiration)
	return nil
}

func (r *ContextRepository) Get(_ context.Context, sessionID string) (*store.ConversationContext, bool, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.ConversationContext).Clone(), true, nil
	}
	return nil, false, nil
}

func (r *ContextRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}

// Count is the number of live sessions
func (r *ContextRepository) Count() int {
	return r.cache.ItemCount()
}
