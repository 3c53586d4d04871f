package token

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"file-concierge-be/pkg/store"
)

type fakeRefresher struct {
	token string
	err   error
	calls int
}

func (f *fakeRefresher) RefreshSilent(ctx context.Context, accountID string) (string, error) {
	f.calls++
	return f.token, f.err
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestEnsureTokenSuccess(t *testing.T) {
	refresher := &fakeRefresher{token: "fresh-token"}
	guard := NewGuard(refresher, testLogger())

	session := &store.Session{ID: "sid", AccountID: "acct", Email: "user@example.com", Token: "stale"}
	got, err := guard.EnsureToken(context.Background(), session)
	if err != nil {
		t.Fatalf("EnsureToken returned error: %v", err)
	}
	if got != "fresh-token" {
		t.Errorf("token = %q, want %q", got, "fresh-token")
	}
	if session.Token != "fresh-token" {
		t.Errorf("session token not updated, got %q", session.Token)
	}
	if refresher.calls != 1 {
		t.Errorf("refresh calls = %d, want exactly 1", refresher.calls)
	}
}

func TestEnsureTokenRefreshFailureClearsSession(t *testing.T) {
	refresher := &fakeRefresher{err: errors.New("refresh denied")}
	guard := NewGuard(refresher, testLogger())

	session := &store.Session{
		ID:         "sid",
		AccountID:  "acct",
		Email:      "user@example.com",
		Token:      "stale",
		ChatID:     "123",
		Stage:      store.StageAwaitingQuery,
		FoundFiles: []store.FileCandidate{{ID: "f1"}},
	}

	_, err := guard.EnsureToken(context.Background(), session)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
	if session.Email != "" || session.Token != "" || session.ChatID != "" || session.FoundFiles != nil {
		t.Errorf("session not cleared: %+v", session)
	}
}

func TestEnsureTokenNoAccount(t *testing.T) {
	refresher := &fakeRefresher{token: "unused"}
	guard := NewGuard(refresher, testLogger())

	session := &store.Session{ID: "sid", Email: "user@example.com"}
	_, err := guard.EnsureToken(context.Background(), session)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
	if refresher.calls != 0 {
		t.Errorf("refresher called for empty account id")
	}
}
