package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Failures are classified through the domain sentinels:
// domain.ErrEmbeddingUnavailable for transient causes (unreachable, rate
// limited) and domain.ErrEmbeddingInvalidInput for rejected input.
// Callers retry the former at the call site, never inside the engines.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 1536).
	Dimensions() int

	// Ping validates the capability is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
