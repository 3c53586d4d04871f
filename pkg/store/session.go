package store

// FileCandidate is a single search hit from the remote file store.
// Users refer to a candidate only by its position in the current list;
// there is no stable cross-turn identifier.
type FileCandidate struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	WebURL       string `json:"webUrl"`
	ParentSiteID string `json:"parentSiteId,omitempty"`
}

// Session represents the active user session state for one browser context
type Session struct {
	ID        string `json:"id"` // opaque session key carried in the JWT
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Token     string `json:"token"` // short-lived bearer token for the file store
	ChatID    string `json:"chat_id"`
	Stage     string `json:"stage"` // "start" | "awaiting_query" | "awaiting_selection"

	// THE WAITING ROOM (candidates found but not yet selected)
	FoundFiles []FileCandidate `json:"found_files"`

	// Metadata for last interaction
	LastQuery string `json:"last_query"`
}

const (
	StageStart             = "start"
	StageAwaitingQuery     = "awaiting_query"
	StageAwaitingSelection = "awaiting_selection"

	// MaxCandidates caps foundFiles at the top search results
	MaxCandidates = 5
)

// Clear wipes every field except the session key. Used when the upstream
// token is unrecoverable and the user must log in again.
func (s *Session) Clear() {
	s.AccountID = ""
	s.Email = ""
	s.Token = ""
	s.ChatID = ""
	s.Stage = ""
	s.FoundFiles = nil
	s.LastQuery = ""
}

// ResetDialogue returns the session to the top of a fresh conversation.
func (s *Session) ResetDialogue(chatID string) {
	s.ChatID = chatID
	s.Stage = StageStart
	s.FoundFiles = nil
	s.LastQuery = ""
}
