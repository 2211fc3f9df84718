package driving

import (
	"context"

	"github.com/custodia-labs/membox/internal/core/domain"
)

// IndexService ingests documents and keeps their chunks current.
type IndexService interface {
	// IndexDocument indexes a single file, skipping work when its
	// fingerprint is unchanged unless opts.Force is set.
	IndexDocument(ctx context.Context, path string, opts domain.IndexOptions) (*domain.IndexResult, error)

	// IndexPath indexes a file, or every file in a directory matching opts.Glob.
	// Per-document failures are collected in the result, not returned.
	IndexPath(ctx context.Context, path string, opts domain.IndexOptions) (*domain.BatchResult, error)

	// Reindex behaves like IndexPath, or re-indexes every known document
	// when path is empty.
	Reindex(ctx context.Context, path string, opts domain.IndexOptions) (*domain.BatchResult, error)
}
