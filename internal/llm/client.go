// Package llm abstracts the generation backend behind a minimal client
// interface so the router and pipeline can be exercised against fakes.
package llm

import (
	"context"
	"errors"
)

// ErrCompletionFailed wraps any upstream failure: transport errors,
// timeouts, and empty responses. Callers map it onto their own failure
// semantics (clarify for the router, GenerationFailed for tools).
var ErrCompletionFailed = errors.New("llm completion failed")

// Client is the minimal interface for calling the generation backend.
type Client interface {
	// Complete sends a system and user prompt, returning raw text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// CompleteJSON is Complete with a structured-output hint: the
	// backend is asked for a JSON object and the reply is reduced to
	// the first top-level JSON object found.
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
