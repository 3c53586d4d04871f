package service

import (
	"context"
	"testing"

	"file-concierge-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

type fakeSessionRepo struct {
	sessions map[string]*store.Session
	saves    int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*store.Session)}
}

func (f *fakeSessionRepo) Save(ctx context.Context, session *store.Session) error {
	f.saves++
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionRepo) Get(ctx context.Context, sessionID string) (*store.Session, bool, error) {
	sess, ok := f.sessions[sessionID]
	return sess, ok, nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, sessionID string) error {
	delete(f.sessions, sessionID)
	return nil
}

func selectingSession(id string) *store.Session {
	return &store.Session{
		ID:        id,
		AccountID: "acc-1",
		Email:     "user@contoso.com",
		ChatID:    "1700000000",
		Stage:     store.StageAwaitingSelection,
		FoundFiles: []store.FileCandidate{
			{ID: "f1", Name: "report.docx"},
			{ID: "f2", Name: "report-final.docx"},
		},
	}
}

// A sidebar refresh reads session state mid-selection; the pending candidate
// list must survive it.
func TestSessionStateLeavesSelectionIntact(t *testing.T) {
	repo := newFakeSessionRepo()
	repo.sessions["s1"] = selectingSession("s1")
	svc := NewDialogueService(nil, repo, nil, nil)

	res, err := svc.SessionState(context.Background(), "s1")

	assert.NoError(t, err)
	assert.Equal(t, store.StageAwaitingSelection, res.Stage)
	assert.Equal(t, "user@contoso.com", res.Email)

	sess := repo.sessions["s1"]
	assert.Equal(t, store.StageAwaitingSelection, sess.Stage)
	assert.Len(t, sess.FoundFiles, 2)
	assert.Zero(t, repo.saves)
}

func TestCheckLoginRewindsDialogue(t *testing.T) {
	repo := newFakeSessionRepo()
	repo.sessions["s1"] = selectingSession("s1")
	svc := NewDialogueService(nil, repo, nil, nil)

	res, err := svc.CheckLogin(context.Background(), "s1")

	assert.NoError(t, err)
	assert.True(t, res.LoggedIn)
	assert.Equal(t, "user@contoso.com", res.Email)

	sess := repo.sessions["s1"]
	assert.Equal(t, store.StageStart, sess.Stage)
	assert.Empty(t, sess.FoundFiles)
	assert.Equal(t, "1700000000", sess.ChatID, "existing chat id is kept")
}

func TestCheckLoginMintsChatIDWhenAbsent(t *testing.T) {
	repo := newFakeSessionRepo()
	sess := selectingSession("s1")
	sess.ChatID = ""
	repo.sessions["s1"] = sess
	svc := NewDialogueService(nil, repo, nil, nil)

	_, err := svc.CheckLogin(context.Background(), "s1")

	assert.NoError(t, err)
	assert.NotEmpty(t, repo.sessions["s1"].ChatID)
}

func TestCheckLoginAnonymousSessionNotSaved(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewDialogueService(nil, repo, nil, nil)

	res, err := svc.CheckLogin(context.Background(), "unknown")

	assert.NoError(t, err)
	assert.False(t, res.LoggedIn)
	assert.Zero(t, repo.saves)
}
