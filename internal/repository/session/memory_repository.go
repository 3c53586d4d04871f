package session

import (
	"context"
	"time"

	"file-concierge-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type MemoryRepository struct {
	cache *cache.Cache
}

// NewMemoryRepository builds an in-process session store. Sessions expire
// after ttl; expired entries are purged every ten minutes.
func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	return &MemoryRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *MemoryRepository) Save(ctx context.Context, session *store.Session) error {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, sessionID string) (*store.Session, bool, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true, nil
	}
	return nil, false, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}
