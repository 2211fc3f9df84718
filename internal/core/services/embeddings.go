package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driven"
	"github.com/custodia-labs/membox/internal/logger"
	"github.com/custodia-labs/membox/internal/vector"
)

// embedBatchSize bounds how many chunks are embedded per upsert.
const embedBatchSize = 256

// embeddingSpace couples an embedder with the vectors stored under its model.
type embeddingSpace struct {
	docStore driven.DocumentStore
	vectors  driven.VectorStore
	embedder driven.EmbeddingService
}

func (e embeddingSpace) model() string {
	return e.embedder.ModelName()
}

// ensure embeds and stores chunks that have no vector for the model.
// An empty documentID covers every document. Existing vectors are never recomputed.
func (e embeddingSpace) ensure(ctx context.Context, documentID string) (int, error) {
	missing, err := e.docStore.ChunksMissingEmbedding(ctx, documentID, e.model())
	if err != nil {
		return 0, fmt.Errorf("listing chunks without embeddings: %w", err)
	}
	if len(missing) == 0 {
		return 0, nil
	}

	logger.Debug("Embedding %d chunks with %s", len(missing), e.model())

	added := 0
	for start := 0; start < len(missing); start += embedBatchSize {
		end := min(start+embedBatchSize, len(missing))
		batch := missing[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}

		vecs, err := e.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return added, fmt.Errorf("embedding chunks: %w", err)
		}

		embeddings := make([]domain.Embedding, len(batch))
		for i, c := range batch {
			embeddings[i] = domain.Embedding{
				ChunkID: c.ID,
				Model:   e.model(),
				Dim:     e.embedder.Dimensions(),
				Vector:  vecs[i],
			}
		}

		if err := e.vectors.Upsert(ctx, embeddings); err != nil {
			return added, fmt.Errorf("storing embeddings: %w", err)
		}
		added += len(batch)
	}

	return added, nil
}

// ready makes sure the space holds at least one vector.
// An empty space is bootstrapped from every chunk when allowed.
func (e embeddingSpace) ready(ctx context.Context, bootstrap bool) error {
	n, err := e.vectors.Count(ctx, e.model())
	if err != nil {
		return fmt.Errorf("counting embeddings: %w", err)
	}
	if n > 0 {
		return nil
	}
	if !bootstrap {
		return fmt.Errorf("%w %q (bootstrap to embed existing chunks)", domain.ErrEmptyEmbeddingSpace, e.model())
	}

	logger.Info("Bootstrapping embedding space %s", e.model())
	added, err := e.ensure(ctx, "")
	if err != nil {
		return err
	}
	logger.Debug("Bootstrap embedded %d chunks", added)
	return nil
}

// nearest embeds text and returns the k most similar stored chunks.
func (e embeddingSpace) nearest(ctx context.Context, text string, k int) ([]vector.Scored, error) {
	query, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	matrix, err := e.vectors.FetchAll(ctx, e.model())
	if err != nil {
		return nil, fmt.Errorf("fetching embeddings: %w", err)
	}
	if matrix.Len() == 0 {
		return []vector.Scored{}, nil
	}
	if k <= 0 {
		k = matrix.Len()
	}

	logger.Debug("Scoring %d vectors (dim %d), k=%d", matrix.Len(), matrix.Dim, k)
	return vector.TopK(query, matrix.IDs, matrix.Data, matrix.Dim, k), nil
}
