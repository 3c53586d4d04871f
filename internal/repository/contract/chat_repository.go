package contract

import (
	"context"

	"file-concierge-be/internal/entity"
	"file-concierge-be/internal/repository/specification"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	Ensure(ctx context.Context, chat *entity.Chat) error // Insert, no-op if the id already exists
	Delete(ctx context.Context, chatID string) error
	DeleteOldestBeyond(ctx context.Context, userEmail string, keep int) ([]string, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chat, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
