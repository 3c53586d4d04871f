package token

import (
	"context"
	"errors"
	"log"

	"file-concierge-be/pkg/store"
)

// ErrSessionExpired signals that the upstream token could not be refreshed
// and the session has been cleared. The user must re-authenticate.
var ErrSessionExpired = errors.New("session expired")

// Refresher obtains a fresh access token for a cached account without user
// interaction.
type Refresher interface {
	RefreshSilent(ctx context.Context, accountID string) (string, error)
}

// Guard is the single point where an expired or invalid token is detected.
// Every privileged operation goes through EnsureToken first.
type Guard struct {
	refresher Refresher
	logger    *log.Logger
}

func NewGuard(refresher Refresher, logger *log.Logger) *Guard {
	return &Guard{refresher: refresher, logger: logger}
}

// EnsureToken performs a single silent refresh for the session's account.
// On success the session token is updated and returned. On any failure the
// entire session is cleared and ErrSessionExpired is returned; no retries.
func (g *Guard) EnsureToken(ctx context.Context, session *store.Session) (string, error) {
	if session.AccountID == "" {
		session.Clear()
		return "", ErrSessionExpired
	}

	accessToken, err := g.refresher.RefreshSilent(ctx, session.AccountID)
	if err != nil {
		g.logger.Printf("[GUARD] Silent refresh failed for account %s: %v", session.AccountID, err)
		session.Clear()
		return "", ErrSessionExpired
	}

	session.Token = accessToken
	return accessToken, nil
}
