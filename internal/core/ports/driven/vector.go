package driven

import (
	"context"

	"github.com/custodia-labs/membox/internal/core/domain"
)

// VectorStore persists embeddings keyed by (chunk, model).
type VectorStore interface {
	// Upsert inserts or replaces each embedding.
	Upsert(ctx context.Context, embeddings []domain.Embedding) error

	// FetchAll returns every stored vector for model as a dense matrix.
	// An empty space yields an empty matrix, not an error.
	FetchAll(ctx context.Context, model string) (*domain.EmbeddingMatrix, error)

	// Count returns the number of stored vectors for model.
	Count(ctx context.Context, model string) (int, error)
}
