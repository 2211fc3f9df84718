package driven

import (
	"context"

	"github.com/custodia-labs/membox/internal/core/domain"
)

// TextSearcher provides ranked full-text lookup over chunk content.
// Backed by SQLite FTS5 with BM25 ranking.
type TextSearcher interface {
	// Search returns hits ordered by rank ascending (best first).
	// Only Limit, DocumentID, PathPrefix and SnippetTokens are honoured.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]TextHit, error)
}

// TextHit represents a full-text match.
type TextHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Rank is the raw rank statistic (BM25); lower is better.
	Rank float64

	// Snippet is a highlighted excerpt around the match.
	Snippet string
}
