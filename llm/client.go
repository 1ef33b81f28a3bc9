// LLM Client with Retry Logic.
//
// Information Hiding:
// - Retry strategy implementation hidden
// - Backoff algorithm hidden
// - Token budget tiers hidden

package llm

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig controls the bounded retry policy for completion calls.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryConfig returns the standard retry policy:
// 3 attempts, 1s base delay, doubling between attempts.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
	}
}

// GenerationError reports that a provider exhausted all retry attempts.
// It carries the last underlying error for diagnostics.
type GenerationError struct {
	Provider string
	Attempts int
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed on %s after %d attempts: %v", e.Provider, e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Client wraps a Provider with bounded retry and exponential backoff.
type Client struct {
	provider Provider
	retry    RetryConfig
}

// NewClient creates a client with the default retry policy.
func NewClient(provider Provider) *Client {
	return &Client{provider: provider, retry: DefaultRetryConfig()}
}

// NewClientWithRetry creates a client with an explicit retry policy.
func NewClientWithRetry(provider Provider, retry RetryConfig) *Client {
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}
	return &Client{provider: provider, retry: retry}
}

// Provider returns the underlying provider.
func (c *Client) Provider() Provider {
	return c.provider
}

// Complete sends a completion request, retrying transient failures with
// exponential backoff. When all attempts fail the returned error is a
// *GenerationError wrapping the last failure.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	var lastErr error

	for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			backoff := c.retry.BaseDelay * (1 << (attempt - 1))
			select {
			case <-ctx.Done():
				return Completion{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		completion, err := c.provider.Complete(ctx, req)
		if err == nil {
			return completion, nil
		}
		lastErr = err
	}

	return Completion{}, &GenerationError{
		Provider: c.provider.Name(),
		Attempts: c.retry.MaxAttempts,
		Err:      lastErr,
	}
}

// TokenBudget computes the completion token cap for a given combined
// prompt+context length. Long inputs get tighter caps so the total
// request stays within model limits.
func TokenBudget(inputChars int, defaultTokens uint32) uint32 {
	switch {
	case inputChars > 6000:
		return minTokens(800, defaultTokens)
	case inputChars > 3000:
		return minTokens(1200, defaultTokens)
	default:
		return defaultTokens
	}
}

func minTokens(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
