package dialogue

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"file-concierge-be/internal/constant"
	"file-concierge-be/pkg/dialogue/access"
	"file-concierge-be/pkg/dialogue/intent"
	"file-concierge-be/pkg/dialogue/state"
	"file-concierge-be/pkg/dialogue/token"
	"file-concierge-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

// --- Collaborator fakes ---

type fakeRefresher struct {
	token string
	err   error
}

func (f *fakeRefresher) RefreshSilent(ctx context.Context, accountID string) (string, error) {
	return f.token, f.err
}

type fakeChecker struct {
	allowed map[string]bool
	calls   int
}

func (f *fakeChecker) CheckAccess(ctx context.Context, token, fileID, userEmail, siteID string) (bool, error) {
	f.calls++
	return f.allowed[fileID], nil
}

type fakeSearcher struct {
	results []store.FileCandidate
	err     error
	queries []string
}

func (f *fakeSearcher) Search(ctx context.Context, accessToken, query string) ([]store.FileCandidate, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

type fakeNotifier struct {
	single []store.FileCandidate
	multi  [][]store.FileCandidate
}

func (f *fakeNotifier) NotifyOne(ctx context.Context, accessToken, email string, file store.FileCandidate) error {
	f.single = append(f.single, file)
	return nil
}

func (f *fakeNotifier) NotifyMany(ctx context.Context, accessToken, email string, files []store.FileCandidate) error {
	f.multi = append(f.multi, files)
	return nil
}

type fakeClassifier struct {
	classification intent.Classification
	answer         string
	answerErr      error
}

func (f *fakeClassifier) Classify(ctx context.Context, message string) intent.Classification {
	return f.classification
}

func (f *fakeClassifier) AnswerGeneral(ctx context.Context, message string) (string, error) {
	return f.answer, f.answerErr
}

type appended struct {
	role string
	text string
}

type fakeHistory struct {
	entries []appended
}

func (f *fakeHistory) AppendUser(ctx context.Context, email, chatID, text string) error {
	f.entries = append(f.entries, appended{role: "user", text: text})
	return nil
}

func (f *fakeHistory) AppendModel(ctx context.Context, email, chatID, text string) error {
	f.entries = append(f.entries, appended{role: "model", text: text})
	return nil
}

func (f *fakeHistory) PruneByAge(ctx context.Context, maxAge time.Duration) error { return nil }

func (f *fakeHistory) PruneByCount(ctx context.Context, email string, keep int) error { return nil }

// --- Test harness ---

type harness struct {
	engine     *Engine
	refresher  *fakeRefresher
	checker    *fakeChecker
	searcher   *fakeSearcher
	notifier   *fakeNotifier
	classifier *fakeClassifier
	history    *fakeHistory
}

func newHarness() *harness {
	logger := log.New(io.Discard, "", 0)
	h := &harness{
		refresher:  &fakeRefresher{token: "tok"},
		checker:    &fakeChecker{allowed: map[string]bool{}},
		searcher:   &fakeSearcher{},
		notifier:   &fakeNotifier{},
		classifier: &fakeClassifier{},
		history:    &fakeHistory{},
	}
	h.engine = NewEngine(
		token.NewGuard(h.refresher, logger),
		access.NewGate(h.checker, logger),
		state.NewManager(logger),
		h.classifier,
		h.searcher,
		h.notifier,
		h.history,
		logger,
	)
	return h
}

func activeSession(stage string) *store.Session {
	return &store.Session{
		ID:        "sid",
		AccountID: "acct",
		Email:     "user@example.com",
		ChatID:    "1700000000",
		Stage:     stage,
	}
}

func candidates(names ...string) []store.FileCandidate {
	files := make([]store.FileCandidate, len(names))
	for i, n := range names {
		files[i] = store.FileCandidate{
			ID:     "id-" + n,
			Name:   n,
			WebURL: "https://files.example.com/" + n,
		}
	}
	return files
}

// --- Scenarios ---

func TestGreetingTransition(t *testing.T) {
	h := newHarness()
	session := activeSession(store.StageStart)

	result := h.engine.HandleTurn(context.Background(), session, TurnInput{Message: "hi"})

	assert.Equal(t, constant.IntentGreeting, result.Intent)
	assert.Equal(t, constant.MsgGreeting, result.Response)
	assert.Equal(t, store.StageAwaitingQuery, session.Stage)
}

func TestTokenRefreshFailureClearsSession(t *testing.T) {
	h := newHarness()
	h.refresher.err = errors.New("refresh denied")
	session := activeSession(store.StageAwaitingQuery)

	result := h.engine.HandleTurn(context.Background(), session, TurnInput{Message: "hello"})

	assert.Equal(t, constant.IntentSessionExpired, result.Intent)
	assert.Empty(t, session.Email)
	assert.Empty(t, session.Token)
	assert.Empty(t, h.history.entries, "nothing persisted after session expiry")
}

func TestMissingEmailRejected(t *testing.T) {
	h := newHarness()
	session := &store.Session{ID: "sid", AccountID: "acct", ChatID: "123", Stage: store.StageAwaitingQuery}

	result := h.engine.HandleTurn(context.Background(), session, TurnInput{Message: "hello"})

	assert.Equal(t, constant.IntentError, result.Intent)
	assert.Equal(t, constant.MsgMissingChat, result.Response)
}

func TestGeneralQueryAnswered(t *testing.T) {
	h := newHarness()
	h.classifier.classification = intent.Classification{Intent: intent.IntentGeneralResponse}
	h.classifier.answer = "We are open 9 to 5."
	session := activeSession(store.StageAwaitingQuery)

	result := h.engine.HandleTurn(context.Background(), session, TurnInput{Message: "when are you open?"})

	assert.Equal(t, constant.IntentGeneralResponse, result.Intent)
	assert.Equal(t, "We are open 9 to 5.", result.Response)
	assert.Equal(t, store.StageAwaitingQuery, session.Stage)
}

func TestUnrecognizedIntentAsksForClarification(t *testing.T) {
	h := newHarness()
	h.classifier.classification = intent.Classification{Intent: intent.IntentUnknown}
	session := activeSession(store.StageAwaitingQuery)

	result := h.engine.HandleTurn(context.Background(), session, TurnInput{Message: "???"})

	assert.Equal(t, constant.IntentError, result.Intent)
	assert.Equal(t, constant.MsgClarify, result.Response)
	assert.Equal(t, store.StageAwaitingQuery, session.Stage)
}

func TestSearchNoResults(t *testing.T) {
	h := newHarness()
	h.classifier.classification = intent.Classification{Intent: intent.IntentFileSearch, Data: "budget.xlsx"}
	session := activeSession(store.StageAwaitingQuery)

	result := h.engine.HandleTurn(context.Background(), session, TurnInput{Message: "find budget.xlsx"})

	assert.Equal(t, constant.IntentFileSearch, result.Intent)
	assert.Equal(t, constant.MsgNoFilesFound, result.Response)
	assert.Equal(t, store.StageAwaitingQuery, session.Stage)
	assert.Empty(t, session.FoundFiles)
}

func TestSearchAmbiguousEntersSelection(t *testing.T) {
	h := newHarness()
	h.classifier.classification = intent.Classification{Intent: intent.IntentFileSearch, Data: "budget.xlsx"}
	h.searcher.results = candidates("budget-2023.xlsx", "budget-2024.xlsx", "budget-draft.xlsx")
	session := activeSession(store.StageAwaitingQuery)

	result := h.engine.HandleTurn(context.Background(), session, TurnInput{Message: "find budget.xlsx"})

	assert.Equal(t, constant.IntentFileSearch, result.Intent)
	assert.True(t, result.PauseClassifier)
	assert.Len(t, result.Files, 3)
	assert.Equal(t, store.StageAwaitingSelection, session.Stage)
	assert.Equal(t, "budget.xlsx", session.LastQuery)
}

func TestSearchCapsAtFiveCandidates(t *testing.T) {
	h := newHarness()
	h.classifier.classification = intent.Classification{Intent: intent.IntentFileSearch, Data: "report"}
	h.searcher.results = candidates("r1", "r2", "r3", "r4", "r5", "r6", "r7")
	session := activeSession(store.StageAwaitingQuery)

	result := h.engine.HandleTurn(context.Background(), session, TurnInput{Message: "find reports"})

	assert.Len(t, result.Files, 5)
	assert.Len(t, session.FoundFiles, 5)
}

func TestExactMatchBypassesSelection(t *testing.T) {
	h := newHarness()
	h.classifier.classification = intent.Classification{Intent: intent.IntentFileSearch, Data: "Budget.XLSX"}
	h.searcher.results = candidates("other.xlsx", "budget.xlsx", "budget-draft.xlsx")
	h.checker.allowed["id-budget.xlsx"] = true
	session := activeSession(store.StageAwaitingQuery)

	result := h.engine.HandleTurn(context.Background(), session, TurnInput{Message: "get Budget.XLSX"})

	assert.Equal(t, constant.IntentFileSearch, result.Intent)
	assert.False(t, result.PauseClassifier)
	assert.Contains(t, result.Response, "https://files.example.com/budget.xlsx")
	assert.Equal(t, store.StageAwaitingQuery, session.Stage)
	assert.Len(t, h.notifier.single, 1)
	assert.Equal(t, 1, h.checker.calls, "only the exact match is checked")
}

func TestExactMatchAccessDenied(t *testing.T) {
	h := newHarness()
	h.classifier.classification = intent.Classification{Intent: intent.IntentFileSearch, Data: "budget.xlsx"}
	h.searcher.results = candidates("budget.xlsx")
	session := activeSession(store.StageAwaitingQuery)

	result := h.engine.HandleTurn(context.Background(), session, TurnInput{Message: "get budget.xlsx"})

	assert.Equal(t, constant.MsgNoAccessSingle, result.Response)
	assert.Empty(t, h.notifier.single)
	assert.Equal(t, store.StageAwaitingQuery, session.Stage)
}

func TestSelectionOutOfRangeDropped(t *testing.T) {
	h := newHarness()
	session := activeSession(store.StageAwaitingSelection)
	session.FoundFiles = candidates("a", "b", "c")
	h.checker.allowed["id-a"] = true

	result := h.engine.HandleTurn(context.Background(), session, TurnInput{Message: "1,5"})

	assert.Equal(t, constant.IntentFileSearch, result.Intent)
	assert.Contains(t, result.Response, "https://files.example.com/a")
	assert.NotContains(t, result.Response, "https://files.example.com/b")
	assert.Equal(t, 1, h.checker.calls)
	assert.Equal(t, store.StageAwaitingQuery, session.Stage)
}

func TestStructuredSelectionOverridesStage(t *testing.T) {
	h := newHarness()
	// Stale stage bookkeeping: the UI still submits a structured selection.
	session := activeSession(store.StageAwaitingQuery)
	session.FoundFiles = candidates("a", "b")
	h.checker.allowed["id-b"] = true

	result := h.engine.HandleTurn(context.Background(), session, TurnInput{
		Selection:       true,
		SelectedIndices: []int{2},
	})

	assert.Equal(t, constant.IntentFileSearch, result.Intent)
	assert.Contains(t, result.Response, "https://files.example.com/b")
	assert.Len(t, h.notifier.multi, 1)
}

func TestCancelPerformsNoAccessChecks(t *testing.T) {
	h := newHarness()
	session := activeSession(store.StageAwaitingSelection)
	session.FoundFiles = candidates("a", "b")

	result := h.engine.HandleTurn(context.Background(), session, TurnInput{Message: "cancel"})

	assert.Equal(t, constant.IntentGeneralResponse, result.Intent)
	assert.Equal(t, constant.MsgSelectionCancelled, result.Response)
	assert.Equal(t, store.StageAwaitingQuery, session.Stage)
	assert.Zero(t, h.checker.calls)
	assert.Empty(t, h.notifier.multi)
}

func TestExpiredSelectionListResetsStage(t *testing.T) {
	h := newHarness()
	session := activeSession(store.StageAwaitingSelection)
	session.FoundFiles = nil

	for _, input := range []TurnInput{
		{Message: "1,2"},
		{Selection: true, SelectedIndices: []int{1}},
	} {
		session.Stage = store.StageAwaitingSelection
		result := h.engine.HandleTurn(context.Background(), session, input)

		assert.Equal(t, constant.IntentError, result.Intent)
		assert.Equal(t, constant.MsgListExpired, result.Response)
		assert.Equal(t, store.StageAwaitingQuery, session.Stage)
	}
	assert.Zero(t, h.checker.calls)
}

func TestInvalidSelectionKeepsStageForRetry(t *testing.T) {
	h := newHarness()
	session := activeSession(store.StageAwaitingSelection)
	session.FoundFiles = candidates("a", "b")

	result := h.engine.HandleTurn(context.Background(), session, TurnInput{Message: "0,9"})

	assert.Equal(t, constant.IntentError, result.Intent)
	assert.Equal(t, constant.MsgInvalidSelection, result.Response)
	assert.Equal(t, store.StageAwaitingSelection, session.Stage, "stage unchanged so the user can retry")
}

func TestSelectionNoAccessToAny(t *testing.T) {
	h := newHarness()
	session := activeSession(store.StageAwaitingSelection)
	session.FoundFiles = candidates("a", "b")

	result := h.engine.HandleTurn(context.Background(), session, TurnInput{Message: "1,2"})

	assert.Equal(t, constant.IntentFileSearch, result.Intent)
	assert.Equal(t, constant.MsgNoAccessAny, result.Response)
	assert.Equal(t, store.StageAwaitingQuery, session.Stage)
	assert.Empty(t, h.notifier.multi)
}

func TestRepeatedSelectionIsNotDeduplicated(t *testing.T) {
	h := newHarness()
	session := activeSession(store.StageAwaitingSelection)
	files := candidates("a")
	session.FoundFiles = files
	h.checker.allowed["id-a"] = true

	for i := 0; i < 2; i++ {
		session.Stage = store.StageAwaitingSelection
		session.FoundFiles = files
		h.engine.HandleTurn(context.Background(), session, TurnInput{Message: "1"})
	}

	assert.Equal(t, 2, h.checker.calls, "access checked once per turn")
	assert.Len(t, h.notifier.multi, 2, "one notification per turn, no cross-turn dedup")
}

func TestChatIDFromRequestWins(t *testing.T) {
	h := newHarness()
	session := activeSession(store.StageStart)

	h.engine.HandleTurn(context.Background(), session, TurnInput{Message: "hi", ChatID: "override-42"})

	assert.Equal(t, "override-42", session.ChatID)
}

func TestResponsesArePersistedToHistory(t *testing.T) {
	h := newHarness()
	session := activeSession(store.StageStart)

	h.engine.HandleTurn(context.Background(), session, TurnInput{Message: "hi"})

	if assert.Len(t, h.history.entries, 2) {
		assert.Equal(t, "user", h.history.entries[0].role)
		assert.Equal(t, "hi", h.history.entries[0].text)
		assert.Equal(t, "model", h.history.entries[1].role)
		assert.Equal(t, constant.MsgGreeting, h.history.entries[1].text)
	}
}
