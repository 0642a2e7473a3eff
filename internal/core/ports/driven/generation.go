package driven

import "context"

// GenerationService produces text completions from prompts.
//
// Failures are classified by the adapter: transport errors and
// 5xx-equivalent responses are retried with bounded backoff and surface
// as domain.ErrGenerationService when exhausted; 4xx-equivalent responses
// (malformed prompt, token budget exceeded) are permanent for the request
// and surface as domain.ErrGenerationPermanent without retrying.
type GenerationService interface {
	// Generate produces a completion for the prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
