package service

import (
	"context"
	"fmt"
	"time"

	"file-concierge-be/internal/repository/session"
	"file-concierge-be/pkg/events"
	"file-concierge-be/pkg/identity"
	pktNats "file-concierge-be/pkg/nats"
	"file-concierge-be/pkg/store"
)

type IAuthService interface {
	LoginURL(ctx context.Context, sessionID string) string
	HandleCallback(ctx context.Context, sessionID, code, state string) error
	Logout(ctx context.Context, sessionID string) error
}

type authService struct {
	identityClient *identity.Client
	sessionRepo    session.Repository
	eventPublisher *pktNats.Publisher
}

func NewAuthService(
	identityClient *identity.Client,
	sessionRepo session.Repository,
	eventPublisher *pktNats.Publisher,
) IAuthService {
	return &authService{
		identityClient: identityClient,
		sessionRepo:    sessionRepo,
		eventPublisher: eventPublisher,
	}
}

// LoginURL builds the directory redirect. The session id doubles as the
// CSRF state; the callback checks it against the cookie-bound session.
func (s *authService) LoginURL(ctx context.Context, sessionID string) string {
	return s.identityClient.AuthCodeURL(sessionID)
}

// HandleCallback redeems the code and binds the resolved principal to the
// session, opening an initial chat thread so the UI can talk immediately.
func (s *authService) HandleCallback(ctx context.Context, sessionID, code, state string) error {
	if state != sessionID {
		return fmt.Errorf("state mismatch")
	}

	id, err := s.identityClient.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	sess := &store.Session{
		ID:        sessionID,
		AccountID: id.AccountID,
		Email:     id.Email,
		Token:     id.Token.AccessToken,
		ChatID:    fmt.Sprintf("%d", time.Now().Unix()),
		Stage:     store.StageStart,
	}
	if err := s.sessionRepo.Save(ctx, sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewUserLoggedIn(id.AccountID, id.Email)); err != nil {
			fmt.Printf("[WARN] Failed to publish USER_LOGIN event: %v\n", err)
		}
	}

	return nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	sess, found, err := s.sessionRepo.Get(ctx, sessionID)
	if err == nil && found && sess.AccountID != "" {
		if err := s.identityClient.Logout(ctx, sess.AccountID); err != nil {
			fmt.Printf("[WARN] Failed to drop token cache for %s: %v\n", sess.AccountID, err)
		}
	}
	return s.sessionRepo.Delete(ctx, sessionID)
}
