package contract

import (
	"context"
	"time"

	"file-concierge-be/internal/entity"
	"file-concierge-be/internal/repository/specification"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	DeleteByChatID(ctx context.Context, chatID string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
