package gateway

import "context"

// GenerationParams controls a single model invocation.
type GenerationParams struct {
	// Temperature controls randomness. Zero is near-deterministic.
	Temperature float64
	// MaxOutputTokens limits response length. Zero uses the model default.
	MaxOutputTokens int
}

// Gateway is the single abstraction over the generative model. One call in,
// raw text out, or a classified *ModelError. Implementations make exactly one
// attempt per Invoke; retry policy belongs to the caller.
type Gateway interface {
	Invoke(ctx context.Context, prompt string, params GenerationParams) (string, error)
}
