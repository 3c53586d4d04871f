package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"file-concierge-be/pkg/llm"
)

// Intent tags produced by classification
const (
	IntentGeneralResponse = "general_response"
	IntentFileSearch      = "file_search"
	IntentUnknown         = "unknown"
)

// Classification is the structured result of classifying one user message
type Classification struct {
	Intent string `json:"intent"` // general_response | file_search | unknown
	Data   string `json:"data"`   // extracted search query for file_search
}

// Resolver performs LLM-based intent classification and general answering.
// This is a pure LLM concern - no session state, no database access.
type Resolver struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewResolver(llmProvider llm.LLMProvider, logger *log.Logger) *Resolver {
	return &Resolver{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Classify analyzes the user message and extracts {intent, data}.
// Classification failures degrade to IntentUnknown rather than an error so
// the dialogue engine can answer with a clarification request.
func (r *Resolver) Classify(ctx context.Context, message string) Classification {
	prompt := buildClassifyPrompt(message)

	// Temperature 0 for deterministic output
	response, err := r.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		r.logger.Printf("[INTENT] Classification call failed: %v", err)
		return Classification{Intent: IntentUnknown}
	}

	classification, err := parseClassification(response)
	if err != nil {
		r.logger.Printf("[INTENT] Classification parse failed, raw=%q: %v", response, err)
		return Classification{Intent: IntentUnknown}
	}

	r.logger.Printf("[INTENT] Classified: %s (query=%q)", classification.Intent, classification.Data)
	return classification
}

// AnswerGeneral produces a conversational answer for a non-search message.
// Replies are length-capped; this is a concierge, not a chat companion.
func (r *Resolver) AnswerGeneral(ctx context.Context, message string) (string, error) {
	history := []llm.Message{
		{Role: "system", Content: "You are a helpful assistant for a company file portal. Answer briefly and stay on topic."},
		{Role: "user", Content: message},
	}
	return r.llmProvider.Chat(ctx, history, llm.WithMaxTokens(300))
}

func buildClassifyPrompt(message string) string {
	var prompt strings.Builder

	prompt.WriteString("Classify the user message below for a file concierge bot.\n\n")
	prompt.WriteString("Respond with ONLY a JSON object, no prose:\n")
	prompt.WriteString(`{"intent": "file_search" | "general_response", "data": "<search query or empty>"}` + "\n\n")
	prompt.WriteString("Rules:\n")
	prompt.WriteString("- intent=file_search when the user wants to find, open, or get a link to a file; data is the file name or search phrase.\n")
	prompt.WriteString("- intent=general_response for anything else; data is empty.\n\n")
	prompt.WriteString("User message: " + message + "\n")

	return prompt.String()
}

// parseClassification extracts the JSON object from the model output,
// tolerating markdown code fences and surrounding prose.
func parseClassification(response string) (Classification, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return Classification{}, fmt.Errorf("no JSON object in response")
	}

	var classification Classification
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &classification); err != nil {
		return Classification{}, err
	}

	switch classification.Intent {
	case IntentFileSearch, IntentGeneralResponse:
		return classification, nil
	default:
		return Classification{}, fmt.Errorf("unrecognized intent %q", classification.Intent)
	}
}
