package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations wrap an external model service (OpenAI-compatible APIs,
// local inference servers). They must be order-preserving: the i-th output
// vector corresponds to the i-th input text. On failure they return an
// error wrapping domain.ErrEmbeddingService after bounded retries. They
// never substitute zero vectors, which would corrupt similarity rankings
// undetectably.
type EmbeddingService interface {
	// Embed generates a vector embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, one vector per
	// input, order preserved.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 384, 1536).
	// Fixed by configuration; every vector in the store shares it.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
