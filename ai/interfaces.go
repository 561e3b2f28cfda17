package ai

import "context"

// Generator produces text completions from prompts.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate sends the prompt to the underlying model and returns the
	// generated text. Returns an error if the backend is unreachable or
	// the model fails to respond within the context deadline.
	Generate(ctx context.Context, prompt string) (string, error)
}
