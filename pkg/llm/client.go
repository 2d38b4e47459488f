package llm

import (
	"context"
	"errors"
)

// ErrGeneration is returned when a completion call fails or produces no usable
// text. Provider clients wrap their failures with this sentinel so callers can
// classify generation errors without knowing the provider.
var ErrGeneration = errors.New("generation failed")

// CompletionRequest is a provider-agnostic chat completion request.
type CompletionRequest struct {
	// Messages is the ordered conversation to complete.
	Messages []Message

	// MaxTokens bounds the completion length. Zero means provider default.
	MaxTokens int

	// Temperature controls sampling randomness.
	Temperature float64

	// Stop lists sequences at which generation halts.
	Stop []string

	// N is the number of completions to sample. Clients return only the
	// first; zero is treated as one.
	N int
}

// Client is the contract for a chat completion backend. Implementations must
// be safe for concurrent use.
type Client interface {
	// Complete issues one completion call and returns the generated text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Close releases any resources held by the client.
	Close() error
}
