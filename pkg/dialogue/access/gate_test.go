package access

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"file-concierge-be/pkg/store"
)

type fakeChecker struct {
	allowed map[string]bool
	err     map[string]error
	calls   int
}

func (f *fakeChecker) CheckAccess(ctx context.Context, token, fileID, userEmail, siteID string) (bool, error) {
	f.calls++
	if err, ok := f.err[fileID]; ok {
		return false, err
	}
	return f.allowed[fileID], nil
}

func TestFilterKeepsAccessibleInOrder(t *testing.T) {
	checker := &fakeChecker{allowed: map[string]bool{"a": true, "c": true}}
	gate := NewGate(checker, log.New(io.Discard, "", 0))

	files := []store.FileCandidate{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	got := gate.Filter(context.Background(), "tok", "user@example.com", files)

	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("Filter = %+v, want [a c]", got)
	}
	if checker.calls != 3 {
		t.Errorf("checker calls = %d, want 3", checker.calls)
	}
}

func TestFilterTreatsCheckerErrorAsDenied(t *testing.T) {
	checker := &fakeChecker{
		allowed: map[string]bool{"a": true},
		err:     map[string]error{"b": errors.New("upstream unavailable")},
	}
	gate := NewGate(checker, log.New(io.Discard, "", 0))

	files := []store.FileCandidate{{ID: "a"}, {ID: "b"}}
	got := gate.Filter(context.Background(), "tok", "user@example.com", files)

	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("Filter = %+v, want [a]", got)
	}
}

func TestFilterEmptyInput(t *testing.T) {
	gate := NewGate(&fakeChecker{}, log.New(io.Discard, "", 0))
	got := gate.Filter(context.Background(), "tok", "user@example.com", nil)
	if len(got) != 0 {
		t.Errorf("Filter = %+v, want empty", got)
	}
}
