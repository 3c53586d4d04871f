package llm

import (
	"context"
)

// Message is one turn of a model conversation in provider-neutral form
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option tunes a single call. The classifier pins temperature to zero for
// deterministic intent JSON; conversational answers cap the reply length.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int // 0 means provider default
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// LLMProvider is the contract the intent resolver talks to. The model itself
// is fixed per provider at construction, from config.
type LLMProvider interface {
	// Chat sends a conversation to the model and returns the reply
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt (convenience wrapper over Chat)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
