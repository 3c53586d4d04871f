package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"file-concierge-be/internal/constant"
	"file-concierge-be/pkg/dialogue/access"
	"file-concierge-be/pkg/dialogue/intent"
	"file-concierge-be/pkg/dialogue/selection"
	"file-concierge-be/pkg/dialogue/state"
	"file-concierge-be/pkg/dialogue/token"
	"file-concierge-be/pkg/store"
)

// Searcher queries the remote file store for candidate files
type Searcher interface {
	Search(ctx context.Context, accessToken, query string) ([]store.FileCandidate, error)
}

// Notifier delivers file links by email. Fire-and-forget: failures are
// logged, never surfaced to the user.
type Notifier interface {
	NotifyOne(ctx context.Context, accessToken, email string, file store.FileCandidate) error
	NotifyMany(ctx context.Context, accessToken, email string, files []store.FileCandidate) error
}

// Classifier extracts intent from free text and answers general queries
type Classifier interface {
	Classify(ctx context.Context, message string) intent.Classification
	AnswerGeneral(ctx context.Context, message string) (string, error)
}

// History persists and prunes chat messages
type History interface {
	AppendUser(ctx context.Context, email, chatID, text string) error
	AppendModel(ctx context.Context, email, chatID, text string) error
	PruneByAge(ctx context.Context, maxAge time.Duration) error
	PruneByCount(ctx context.Context, email string, keep int) error
}

// TurnInput is one inbound chat message plus its routing hints
type TurnInput struct {
	Message         string
	Selection       bool  // caller flags this turn as a selection submission
	SelectedIndices []int // structured 1-based indices, when Selection is set
	ChatID          string
}

// TurnResult is the engine's answer for one turn
type TurnResult struct {
	Response        string
	Intent          string
	PauseClassifier bool // UI must suppress NLP until selection or cancel
	Files           []store.FileCandidate
}

// Engine is the per-request dialogue orchestrator. It owns the stage
// machine and drives the guard, gate, classifier, searcher and notifier
// collaborators. The session record is passed in explicitly; all mutation
// happens here and is persisted by the caller after the turn.
type Engine struct {
	guard      *token.Guard
	gate       *access.Gate
	stages     *state.Manager
	classifier Classifier
	searcher   Searcher
	notifier   Notifier
	history    History
	logger     *log.Logger

	retention time.Duration
	keepChats int
}

func NewEngine(
	guard *token.Guard,
	gate *access.Gate,
	stages *state.Manager,
	classifier Classifier,
	searcher Searcher,
	notifier Notifier,
	history History,
	logger *log.Logger,
) *Engine {
	return &Engine{
		guard:      guard,
		gate:       gate,
		stages:     stages,
		classifier: classifier,
		searcher:   searcher,
		notifier:   notifier,
		history:    history,
		logger:     logger,
		retention:  constant.ChatRetentionDays * 24 * time.Hour,
		keepChats:  constant.ChatHistoryLimit,
	}
}

// HandleTurn runs the entry protocol and stage dispatch for one message.
// Every path returns a normal TurnResult; nothing raises past this boundary.
func (e *Engine) HandleTurn(ctx context.Context, session *store.Session, input TurnInput) *TurnResult {
	// Housekeeping first. Idempotent, failures must not block the turn.
	if err := e.history.PruneByAge(ctx, e.retention); err != nil {
		e.logger.Printf("[TURN] Message pruning failed: %v", err)
	}
	if session.Email != "" {
		if err := e.history.PruneByCount(ctx, session.Email, e.keepChats); err != nil {
			e.logger.Printf("[TURN] Chat pruning failed: %v", err)
		}
	}

	// The caller-supplied chat id wins and is persisted back to the session.
	if input.ChatID != "" {
		session.ChatID = input.ChatID
	}

	accessToken, err := e.guard.EnsureToken(ctx, session)
	if errors.Is(err, token.ErrSessionExpired) {
		return &TurnResult{Response: constant.MsgSessionExpired, Intent: constant.IntentSessionExpired}
	}

	if session.Email == "" || session.ChatID == "" {
		return &TurnResult{Response: constant.MsgMissingChat, Intent: constant.IntentError}
	}

	message := strings.TrimSpace(input.Message)
	if message != "" {
		if err := e.history.AppendUser(ctx, session.Email, session.ChatID, message); err != nil {
			e.logger.Printf("[TURN] Failed to persist user message: %v", err)
		}
	}

	// Selection short-circuit: a structured selection submission, or a
	// selection-shaped free-text answer while a candidate list is pending,
	// routes to the selection flow even if stage bookkeeping is stale.
	if input.Selection && len(input.SelectedIndices) > 0 {
		return e.handleSelection(ctx, session, accessToken, func(n int) selection.Resolution {
			return selection.ResolveIndices(input.SelectedIndices, n)
		})
	}
	if session.Stage == store.StageAwaitingSelection &&
		(selection.IsNumberList(message) || strings.EqualFold(message, "cancel")) {
		return e.handleSelection(ctx, session, accessToken, func(n int) selection.Resolution {
			return selection.ResolveText(message, n)
		})
	}

	switch session.Stage {
	case store.StageStart, "":
		e.stages.TransitionToQuery(session)
		return e.respond(ctx, session, constant.MsgGreeting, constant.IntentGreeting)

	case store.StageAwaitingQuery:
		return e.handleQuery(ctx, session, accessToken, message)

	default:
		// AWAITING_SELECTION with unparseable, non-cancel text. Defined
		// terminal fallback, not a crash.
		return e.respond(ctx, session, constant.MsgGenericError, constant.IntentError)
	}
}

func (e *Engine) handleQuery(ctx context.Context, session *store.Session, accessToken, message string) *TurnResult {
	classification := e.classifier.Classify(ctx, message)
	query := strings.TrimSpace(classification.Data)

	switch {
	case classification.Intent == intent.IntentGeneralResponse:
		reply, err := e.classifier.AnswerGeneral(ctx, message)
		if err != nil {
			e.logger.Printf("[TURN] General answer failed: %v", err)
			return e.respond(ctx, session, constant.MsgGenericError, constant.IntentError)
		}
		return e.respond(ctx, session, reply, constant.IntentGeneralResponse)

	case classification.Intent == intent.IntentFileSearch && query != "":
		return e.runSearch(ctx, session, accessToken, query)

	default:
		return e.respond(ctx, session, constant.MsgClarify, constant.IntentError)
	}
}

// runSearch implements the search protocol: top 5 results become the new
// candidate list; a case-insensitive exact name match short-circuits to a
// single access check, otherwise the user is asked to pick.
func (e *Engine) runSearch(ctx context.Context, session *store.Session, accessToken, query string) *TurnResult {
	files, err := e.searcher.Search(ctx, accessToken, query)
	if err != nil {
		e.logger.Printf("[TURN] Search failed for query %q: %v", query, err)
		return e.respond(ctx, session, constant.MsgGenericError, constant.IntentError)
	}
	if len(files) > store.MaxCandidates {
		files = files[:store.MaxCandidates]
	}

	session.LastQuery = query
	session.FoundFiles = files

	if len(files) == 0 {
		return e.respond(ctx, session, constant.MsgNoFilesFound, constant.IntentFileSearch)
	}

	for _, f := range files {
		if strings.EqualFold(f.Name, query) {
			return e.deliverExactMatch(ctx, session, accessToken, f)
		}
	}

	e.stages.TransitionToSelection(session, files)
	result := e.respond(ctx, session, constant.MsgSelectPrompt, constant.IntentFileSearch)
	result.PauseClassifier = true
	result.Files = files
	return result
}

func (e *Engine) deliverExactMatch(ctx context.Context, session *store.Session, accessToken string, file store.FileCandidate) *TurnResult {
	e.stages.TransitionToQuery(session)

	if !e.gate.Check(ctx, accessToken, session.Email, file) {
		return e.respond(ctx, session, constant.MsgNoAccessSingle, constant.IntentFileSearch)
	}

	if err := e.notifier.NotifyOne(ctx, accessToken, session.Email, file); err != nil {
		e.logger.Printf("[TURN] Notification failed for file %s: %v", file.ID, err)
	}

	msg := fmt.Sprintf("✅ You have access! Here’s your file link: %s\n📧 Sent to your email: %s\n\n💬 Do you need anything else?",
		file.WebURL, session.Email)
	return e.respond(ctx, session, msg, constant.IntentFileSearch)
}

// handleSelection resolves a selection episode. The episode always ends in
// AWAITING_QUERY except for an invalid input, which leaves the stage alone
// so the user can retry.
func (e *Engine) handleSelection(ctx context.Context, session *store.Session, accessToken string, resolve func(n int) selection.Resolution) *TurnResult {
	files := session.FoundFiles
	if len(files) == 0 {
		e.stages.ExpireSelection(session)
		return e.respond(ctx, session, constant.MsgListExpired, constant.IntentError)
	}

	resolution := resolve(len(files))
	switch resolution.Kind {
	case selection.KindCancel:
		e.stages.TransitionToQuery(session)
		return e.respond(ctx, session, constant.MsgSelectionCancelled, constant.IntentGeneralResponse)

	case selection.KindIndices:
		selected := make([]store.FileCandidate, 0, len(resolution.Indices))
		for _, i := range resolution.Indices {
			selected = append(selected, files[i])
		}

		accessible := e.gate.Filter(ctx, accessToken, session.Email, selected)
		e.stages.TransitionToQuery(session)

		if len(accessible) == 0 {
			return e.respond(ctx, session, constant.MsgNoAccessAny, constant.IntentFileSearch)
		}

		if err := e.notifier.NotifyMany(ctx, accessToken, session.Email, accessible); err != nil {
			e.logger.Printf("[TURN] Multi-file notification failed: %v", err)
		}

		lines := make([]string, len(accessible))
		for i, f := range accessible {
			lines[i] = fmt.Sprintf("🔗 %s: %s", f.Name, f.WebURL)
		}
		msg := fmt.Sprintf("✅ You have access to the following files:\n%s\n\n📧 Sent to your email: %s\n\n💬 Need anything else?",
			strings.Join(lines, "\n"), session.Email)
		return e.respond(ctx, session, msg, constant.IntentFileSearch)

	default:
		return e.respond(ctx, session, constant.MsgInvalidSelection, constant.IntentError)
	}
}

// respond persists the AI-authored message and wraps it in a TurnResult.
// Every branch that speaks to the user goes through here.
func (e *Engine) respond(ctx context.Context, session *store.Session, message, intentTag string) *TurnResult {
	if err := e.history.AppendModel(ctx, session.Email, session.ChatID, message); err != nil {
		e.logger.Printf("[TURN] Failed to persist model message: %v", err)
	}
	return &TurnResult{Response: message, Intent: intentTag}
}
