package service

import (
	"context"
	"fmt"
	"time"

	"file-concierge-be/internal/constant"
	"file-concierge-be/internal/dto"
	"file-concierge-be/internal/repository/specification"
	"file-concierge-be/internal/repository/unitofwork"
)

type IHistoryService interface {
	ListChats(ctx context.Context, userEmail string) ([]dto.ChatSummaryDTO, error)
	ListMessages(ctx context.Context, userEmail, chatID string) ([]dto.MessageDTO, error)
}

type historyService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewHistoryService(uowFactory unitofwork.RepositoryFactory) IHistoryService {
	return &historyService{
		uowFactory: uowFactory,
	}
}

// ListChats returns the user's threads, newest first, after enforcing the
// per-user cap so the list never grows past the limit.
func (s *historyService) ListChats(ctx context.Context, userEmail string) ([]dto.ChatSummaryDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := s.enforceChatCap(ctx, uow, userEmail); err != nil {
		fmt.Printf("[WARN] Chat cap enforcement failed for %s: %v\n", userEmail, err)
	}

	chats, err := uow.ChatRepository().FindAll(ctx,
		specification.ByUserEmail{Email: userEmail},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.ChatSummaryDTO, len(chats))
	for i, c := range chats {
		summaries[i] = dto.ChatSummaryDTO{
			ChatID:    c.ChatID,
			CreatedAt: c.CreatedAt.Format(time.RFC3339),
		}
	}
	return summaries, nil
}

// enforceChatCap drops the oldest chats beyond the per-user limit together
// with their messages. A chat must never lose its row while its messages
// survive, so both deletes ride one transaction.
func (s *historyService) enforceChatCap(ctx context.Context, uow unitofwork.UnitOfWork, userEmail string) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	dropped, err := uow.ChatRepository().DeleteOldestBeyond(ctx, userEmail, constant.ChatHistoryLimit)
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

// ListMessages returns a thread's surviving messages in order. Ownership is
// enforced by scoping the query to the caller's email.
func (s *historyService) ListMessages(ctx context.Context, userEmail, chatID string) ([]dto.MessageDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chatID},
		specification.ByUserEmail{Email: userEmail},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	result := make([]dto.MessageDTO, len(messages))
	for i, m := range messages {
		result[i] = dto.MessageDTO{
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.CreatedAt.Format(time.RFC3339),
		}
	}
	return result, nil
}
