package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driven"
	"github.com/custodia-labs/membox/internal/vector"
)

// vectorStore implements driven.VectorStore over the embeddings table.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Upsert inserts or replaces each embedding in one transaction.
func (s *vectorStore) Upsert(ctx context.Context, embeddings []domain.Embedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO embeddings (chunk_id, model, dim, vector, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(chunk_id, model) DO UPDATE SET
			dim = excluded.dim,
			vector = excluded.vector,
			created_at = excluded.created_at
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	ts := now()
	for _, e := range embeddings {
		if e.Model == "" || e.Dim <= 0 {
			return fmt.Errorf("%w: embedding for %s has no model or dimension", domain.ErrInvalidInput, e.ChunkID)
		}
		if _, err := stmt.ExecContext(ctx, e.ChunkID, e.Model, e.Dim, vector.Encode(e.Vector), ts); err != nil {
			return fmt.Errorf("saving embedding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// FetchAll loads every vector for model in insertion order.
// The matrix width is the first row's dimension; other rows are padded or truncated.
func (s *vectorStore) FetchAll(ctx context.Context, model string) (*domain.EmbeddingMatrix, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT chunk_id, dim, vector FROM embeddings WHERE model = ? ORDER BY rowid`, model)
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	m := &domain.EmbeddingMatrix{IDs: []string{}, Data: []float32{}}
	for rows.Next() {
		var (
			id   string
			dim  int
			blob []byte
		)
		if err := rows.Scan(&id, &dim, &blob); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}
		if m.Dim == 0 {
			m.Dim = dim
		}
		m.IDs = append(m.IDs, id)
		m.Data = append(m.Data, vector.Decode(blob, m.Dim)...)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embeddings: %w", err)
	}
	return m, nil
}

// Count returns the number of stored vectors for model.
func (s *vectorStore) Count(ctx context.Context, model string) (int, error) {
	var n int
	err := s.store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM embeddings WHERE model = ?`, model).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting embeddings: %w", err)
	}
	return n, nil
}
