package driven

import "github.com/custodia-labs/membox/internal/core/domain"

// Chunker merges ordered pages into retrieval units.
// Implementations must be pure: identical input yields identical output.
type Chunker interface {
	// Name returns the chunker name.
	Name() string

	// Chunk merges pages into spans under the minChars policy.
	Chunk(pages []domain.Page, minChars int) []domain.Span
}
