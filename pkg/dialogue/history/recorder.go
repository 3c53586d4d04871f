package history

import (
	"context"
	"time"

	"file-concierge-be/internal/constant"
	"file-concierge-be/internal/entity"
	"file-concierge-be/internal/repository/unitofwork"
)

// Recorder persists chat messages and enforces the retention policy.
// It implements the engine's History collaborator.
type Recorder struct {
	uowFactory unitofwork.RepositoryFactory
}

// NewRecorder creates a new history recorder
func NewRecorder(uowFactory unitofwork.RepositoryFactory) *Recorder {
	return &Recorder{
		uowFactory: uowFactory,
	}
}

func (r *Recorder) AppendUser(ctx context.Context, email, chatID, text string) error {
	return r.append(ctx, email, chatID, constant.ChatMessageRoleUser, text)
}

func (r *Recorder) AppendModel(ctx context.Context, email, chatID, text string) error {
	return r.append(ctx, email, chatID, constant.ChatMessageRoleModel, text)
}

// append writes one message, creating the chat row first so a client-issued
// chat id that the server has not seen yet still lands somewhere.
func (r *Recorder) append(ctx context.Context, email, chatID, role, text string) error {
	uow := r.uowFactory.NewUnitOfWork(ctx)

	if err := uow.ChatRepository().Ensure(ctx, &entity.Chat{
		ChatID:    chatID,
		UserEmail: email,
	}); err != nil {
		return err
	}

	return uow.ChatMessageRepository().Create(ctx, &entity.ChatMessage{
		ChatID:    chatID,
		UserEmail: email,
		Role:      role,
		Content:   text,
	})
}

// PruneByAge purges messages older than maxAge across all users. Chats stay;
// an old chat with all messages purged still shows up in the chat list.
func (r *Recorder) PruneByAge(ctx context.Context, maxAge time.Duration) error {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	cutoff := time.Now().Add(-maxAge)
	return uow.ChatMessageRepository().DeleteOlderThan(ctx, cutoff)
}

// PruneByCount caps a user's chat list at keep, dropping the oldest threads
// and their messages together.
func (r *Recorder) PruneByCount(ctx context.Context, email string, keep int) error {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	dropped, err := uow.ChatRepository().DeleteOldestBeyond(ctx, email, keep)
	if err != nil {
		_ = uow.Rollback()
		return err
	}

	for _, chatID := range dropped {
		if err := uow.ChatMessageRepository().DeleteByChatID(ctx, chatID); err != nil {
			_ = uow.Rollback()
			return err
		}
	}

	return uow.Commit()
}
