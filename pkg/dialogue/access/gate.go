package access

import (
	"context"
	"log"

	"file-concierge-be/pkg/store"
)

// Checker asks the remote file store whether a user can open a file.
type Checker interface {
	CheckAccess(ctx context.Context, token, fileID, userEmail, siteID string) (bool, error)
}

// Gate filters candidate files down to the ones the user can actually open.
type Gate struct {
	checker Checker
	logger  *log.Logger
}

func NewGate(checker Checker, logger *log.Logger) *Gate {
	return &Gate{checker: checker, logger: logger}
}

// Check verifies access to a single candidate. A checker error counts as no
// access; upstream failures degrade to a denial, never a crash.
func (g *Gate) Check(ctx context.Context, token, userEmail string, file store.FileCandidate) bool {
	ok, err := g.checker.CheckAccess(ctx, token, file.ID, userEmail, file.ParentSiteID)
	if err != nil {
		g.logger.Printf("[ACCESS] Check failed for file %s: %v", file.ID, err)
		return false
	}
	return ok
}

// Filter returns the subset of files the user can open, preserving order.
func (g *Gate) Filter(ctx context.Context, token, userEmail string, files []store.FileCandidate) []store.FileCandidate {
	accessible := make([]store.FileCandidate, 0, len(files))
	for _, f := range files {
		if g.Check(ctx, token, userEmail, f) {
			accessible = append(accessible, f)
		}
	}
	return accessible
}
