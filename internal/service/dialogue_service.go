package service

import (
	"context"
	"fmt"
	"time"

	"file-concierge-be/internal/constant"
	"file-concierge-be/internal/dto"
	"file-concierge-be/internal/entity"
	"file-concierge-be/internal/repository/session"
	"file-concierge-be/internal/repository/unitofwork"
	"file-concierge-be/pkg/dialogue"
	"file-concierge-be/pkg/events"
	pktNats "file-concierge-be/pkg/nats"
	"file-concierge-be/pkg/store"
)

type IDialogueService interface {
	HandleChat(ctx context.Context, sessionID string, req *dto.ChatRequest) (*dto.ChatResponse, error)
	NewChat(ctx context.Context, sessionID string) (*dto.NewChatResponse, error)
	SessionState(ctx context.Context, sessionID string) (*dto.SessionStateResponse, error)
	CheckLogin(ctx context.Context, sessionID string) (*dto.CheckLoginResponse, error)
}

type dialogueService struct {
	engine         *dialogue.Engine
	sessionRepo    session.Repository
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
}

func NewDialogueService(
	engine *dialogue.Engine,
	sessionRepo session.Repository,
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
) IDialogueService {
	return &dialogueService{
		engine:         engine,
		sessionRepo:    sessionRepo,
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

// HandleChat runs one dialogue turn. The session is loaded, mutated by the
// engine and saved back; the engine itself holds no cross-request state.
func (s *dialogueService) HandleChat(ctx context.Context, sessionID string, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	sess := s.loadSession(ctx, sessionID)
	accountID := sess.AccountID

	result := s.engine.HandleTurn(ctx, sess, dialogue.TurnInput{
		Message:         req.Message,
		Selection:       req.SelectionStage,
		SelectedIndices: req.SelectedIndices,
		ChatID:          req.ChatID,
	})

	if err := s.sessionRepo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if result.Intent == constant.IntentSessionExpired && accountID != "" && s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewSessionExpired(accountID)); err != nil {
			fmt.Printf("[WARN] Failed to publish SESSION_EXPIRED event: %v\n", err)
		}
	}

	resp := &dto.ChatResponse{
		Response: result.Response,
		Intent:   result.Intent,
		PauseGPT: result.PauseClassifier,
	}
	for _, f := range result.Files {
		resp.Files = append(resp.Files, dto.FileDTO{
			Name:   f.Name,
			WebURL: f.WebURL,
		})
	}
	return resp, nil
}

// NewChat opens a fresh thread and rewinds the dialogue to the start stage
func (s *dialogueService) NewChat(ctx context.Context, sessionID string) (*dto.NewChatResponse, error) {
	sess := s.loadSession(ctx, sessionID)
	if sess.Email == "" {
		return nil, fmt.Errorf("not logged in")
	}

	chatID := fmt.Sprintf("%d", time.Now().Unix())

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatRepository().Create(ctx, &entity.Chat{
		ChatID:    chatID,
		UserEmail: sess.Email,
	}); err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}

	sess.ResetDialogue(chatID)
	if err := s.sessionRepo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return &dto.NewChatResponse{ChatID: chatID}, nil
}

func (s *dialogueService) SessionState(ctx context.Context, sessionID string) (*dto.SessionStateResponse, error) {
	sess := s.loadSession(ctx, sessionID)
	return &dto.SessionStateResponse{
		Stage:  sess.Stage,
		ChatID: sess.ChatID,
		Email:  sess.Email,
	}, nil
}

// CheckLogin reports login status and, for a logged-in session, rewinds the
// dialogue to the start stage so a page reload never resumes a stale
// selection list.
func (s *dialogueService) CheckLogin(ctx context.Context, sessionID string) (*dto.CheckLoginResponse, error) {
	sess := s.loadSession(ctx, sessionID)

	if sess.Email != "" {
		chatID := sess.ChatID
		if chatID == "" {
			chatID = fmt.Sprintf("%d", time.Now().Unix())
		}
		sess.ResetDialogue(chatID)
		if err := s.sessionRepo.Save(ctx, sess); err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
	}

	return &dto.CheckLoginResponse{
		LoggedIn: sess.Email != "",
		Email:    sess.Email,
	}, nil
}

// loadSession never fails: an unknown or expired id simply yields an empty
// session, which the engine answers with a session-expired turn.
func (s *dialogueService) loadSession(ctx context.Context, sessionID string) *store.Session {
	if sess, found, err := s.sessionRepo.Get(ctx, sessionID); err == nil && found {
		return sess
	}
	return &store.Session{ID: sessionID, Stage: store.StageStart}
}
