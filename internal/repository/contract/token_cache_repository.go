package contract

import (
	"context"

	"file-concierge-be/internal/entity"
)

type TokenCacheRepository interface {
	Upsert(ctx context.Context, cache *entity.TokenCache) error
	FindByAccountID(ctx context.Context, accountID string) (*entity.TokenCache, error)
	DeleteByAccountID(ctx context.Context, accountID string) error
}
