package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The shipped implementation is a deterministic feature-hashing embedder,
// so identical text always produces a bit-identical vector.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName returns the name under which vectors are stored.
	ModelName() string
}

// EmbeddingProvider resolves an embedding service for a model and dimension.
// It lets callers query an embedding space other than the default one.
type EmbeddingProvider interface {
	// ForModel returns a service producing dim-wide vectors under model.
	// Unknown models yield domain.ErrUnsupportedType.
	ForModel(model string, dim int) (EmbeddingService, error)
}
