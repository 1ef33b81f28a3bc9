// Package llm provides LLM provider abstractions.
//
// LLM Provider interface - the abstract interface for LLM providers.
// Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Provider-specific error handling

package llm

import (
	"context"
)

// Provider defines the abstract interface for text-generation providers.
// Implementations hide provider-specific details while exposing a
// consistent single-prompt completion interface.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the current model being used.
	Model() string

	// Complete sends a single-prompt completion request.
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

// CompletionRequest describes one completion call.
type CompletionRequest struct {
	Prompt      string
	MaxTokens   uint32
	Temperature float32
}

// Completion is the result of a completion call.
type Completion struct {
	Content string
	Usage   *TokenUsage
}
