package session

import (
	"context"

	"file-concierge-be/pkg/store"
)

// Repository persists dialogue sessions between turns. Implementations
// must be safe for concurrent use; sessions expire after the configured TTL.
type Repository interface {
	Save(ctx context.Context, session *store.Session) error
	Get(ctx context.Context, sessionID string) (*store.Session, bool, error)
	Delete(ctx context.Context, sessionID string) error
}
