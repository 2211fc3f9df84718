package driving

import (
	"context"

	"github.com/custodia-labs/membox/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search ranks chunks for query using opts.Mode (lexical by default).
	Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResponse, error)
}

// RelatedService finds chunks similar to a text, chunk or page.
type RelatedService interface {
	// Related embeds the query source and returns its nearest chunks.
	Related(ctx context.Context, query domain.RelatedQuery) (*domain.RelatedResponse, error)

	// EnsureEmbeddings embeds chunks lacking a vector for the active model.
	// An empty documentID covers every document. Returns how many were added.
	EnsureEmbeddings(ctx context.Context, documentID string) (int, error)
}
