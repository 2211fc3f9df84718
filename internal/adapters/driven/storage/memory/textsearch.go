package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driven"
)

// Ensure TextSearcher implements the interface.
var _ driven.TextSearcher = (*TextSearcher)(nil)

// TextSearcher is a naive in-memory driven.TextSearcher over a DocumentStore.
// Every query term must occur in a chunk. Rank is 1/(1+hits), so more
// occurrences rank lower (better), as with BM25.
type TextSearcher struct {
	docs *DocumentStore
}

// NewTextSearcher creates a searcher reading from docs.
func NewTextSearcher(docs *DocumentStore) *TextSearcher {
	return &TextSearcher{docs: docs}
}

// Search returns matching chunks best first.
func (s *TextSearcher) Search(_ context.Context, query string, opts domain.SearchOptions) ([]driven.TextHit, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, domain.ErrMalformedQuery
	}
	opts = opts.WithDefaults()
	prefix := strings.TrimRight(opts.PathPrefix, "/")

	s.docs.mu.RLock()
	defer s.docs.mu.RUnlock()

	hits := []driven.TextHit{}
	for docID, chunks := range s.docs.chunks {
		if opts.DocumentID != "" && docID != opts.DocumentID {
			continue
		}
		if prefix != "" && !strings.HasPrefix(s.docs.documents[docID].Locator, prefix) {
			continue
		}
		for _, c := range chunks {
			if n := countTerms(c.Content, terms); n > 0 {
				hits = append(hits, driven.TextHit{
					ChunkID: c.ID,
					Rank:    1 / float64(1+n),
					Snippet: snippet(c.Content, terms, opts.SnippetTokens),
				})
			}
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Rank != hits[j].Rank {
			return hits[i].Rank < hits[j].Rank
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})
	if len(hits) > opts.Limit {
		hits = hits[:opts.Limit]
	}
	return hits, nil
}

// countTerms returns total occurrences, or zero if any term is absent.
func countTerms(content string, terms []string) int {
	lower := strings.ToLower(content)
	total := 0
	for _, term := range terms {
		n := strings.Count(lower, term)
		if n == 0 {
			return 0
		}
		total += n
	}
	return total
}

// snippet brackets matching words within the first window of words.
func snippet(content string, terms []string, window int) string {
	words := strings.Fields(content)
	if len(words) > window {
		words = words[:window]
	}
	for i, w := range words {
		lw := strings.ToLower(w)
		for _, term := range terms {
			if strings.Contains(lw, term) {
				words[i] = "[" + w + "]"
				break
			}
		}
	}
	return strings.Join(words, " ")
}
