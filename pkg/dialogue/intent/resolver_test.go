package intent

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"file-concierge-be/pkg/llm"
)

type fakeProvider struct {
	response string
	err      error
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return f.response, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.response, f.err
}

func TestParseClassification(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		wantIntent string
		wantData   string
		wantErr    bool
	}{
		{
			name:       "plain json",
			response:   `{"intent": "file_search", "data": "budget.xlsx"}`,
			wantIntent: "file_search",
			wantData:   "budget.xlsx",
		},
		{
			name:       "fenced json",
			response:   "```json\n{\"intent\": \"general_response\", \"data\": \"\"}\n```",
			wantIntent: "general_response",
		},
		{
			name:       "json with surrounding prose",
			response:   "Here is the result: {\"intent\": \"file_search\", \"data\": \"q3 report\"} Hope that helps.",
			wantIntent: "file_search",
			wantData:   "q3 report",
		},
		{
			name:     "no json at all",
			response: "I could not classify that.",
			wantErr:  true,
		},
		{
			name:     "unrecognized intent",
			response: `{"intent": "banana", "data": ""}`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseClassification(tt.response)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Intent != tt.wantIntent {
				t.Errorf("Intent = %q, want %q", got.Intent, tt.wantIntent)
			}
			if got.Data != tt.wantData {
				t.Errorf("Data = %q, want %q", got.Data, tt.wantData)
			}
		})
	}
}

func TestClassifyFallsBackToUnknown(t *testing.T) {
	logger := log.New(io.Discard, "", 0)

	provider := &fakeProvider{err: errors.New("upstream down")}
	resolver := NewResolver(provider, logger)
	got := resolver.Classify(context.Background(), "find the budget")
	if got.Intent != IntentUnknown {
		t.Errorf("Intent = %q, want %q on provider error", got.Intent, IntentUnknown)
	}

	provider = &fakeProvider{response: "not json"}
	resolver = NewResolver(provider, logger)
	got = resolver.Classify(context.Background(), "find the budget")
	if got.Intent != IntentUnknown {
		t.Errorf("Intent = %q, want %q on parse failure", got.Intent, IntentUnknown)
	}
}
