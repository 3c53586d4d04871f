package state

import (
	"log"

	"file-concierge-be/pkg/store"
)

// Manager handles session stage transitions
type Manager struct {
	logger *log.Logger
}

// NewManager creates a new stage manager
func NewManager(logger *log.Logger) *Manager {
	return &Manager{logger: logger}
}

// TransitionToQuery returns the session to free-form query mode. The
// candidate list stays as-is; a new search overwrites it.
func (m *Manager) TransitionToQuery(session *store.Session) {
	session.Stage = store.StageAwaitingQuery
	m.logger.Printf("[STAGE] Transitioned to AWAITING_QUERY")
}

// TransitionToSelection parks the candidates and waits for an ordinal answer
func (m *Manager) TransitionToSelection(session *store.Session, candidates []store.FileCandidate) {
	session.FoundFiles = candidates
	session.Stage = store.StageAwaitingSelection
	m.logger.Printf("[STAGE] Transitioned to AWAITING_SELECTION: %d candidates", len(candidates))
}

// ExpireSelection drops a stale candidate list and resets to query mode
func (m *Manager) ExpireSelection(session *store.Session) {
	session.FoundFiles = nil
	session.Stage = store.StageAwaitingQuery
	m.logger.Printf("[STAGE] Selection expired, back to AWAITING_QUERY")
}
