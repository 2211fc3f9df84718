package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driven"
)

// Snippet window bounds accepted by FTS5.
const (
	minSnippetTokens = 1
	maxSnippetTokens = 64
)

// textSearcher implements driven.TextSearcher over the chunks_fts table.
type textSearcher struct {
	store *Store
}

var _ driven.TextSearcher = (*textSearcher)(nil)

// Search runs a BM25-ranked MATCH and returns hits best first.
func (s *textSearcher) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]driven.TextHit, error) {
	match := MatchExpression(query)
	if match == "" {
		return nil, domain.ErrMalformedQuery
	}
	opts = opts.WithDefaults()

	tokens := min(max(opts.SnippetTokens, minSnippetTokens), maxSnippetTokens)

	sqlText := `
		SELECT chunks_fts.chunk_id, bm25(chunks_fts),
		       snippet(chunks_fts, 0, '[', ']', ' … ', ?)
		FROM chunks_fts
		JOIN documents d ON d.id = chunks_fts.document_id
		WHERE chunks_fts MATCH ?`
	args := []any{tokens, match}

	if opts.DocumentID != "" {
		sqlText += ` AND d.id = ?`
		args = append(args, opts.DocumentID)
	}
	if prefix := strings.TrimRight(opts.PathPrefix, "/"); prefix != "" {
		// Case-sensitive literal prefix, matching strings.HasPrefix.
		sqlText += ` AND substr(d.locator, 1, length(?)) = ?`
		args = append(args, prefix, prefix)
	}
	sqlText += ` ORDER BY bm25(chunks_fts), chunks_fts.chunk_id LIMIT ?`
	args = append(args, opts.Limit)

	rows, err := s.store.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("full-text query: %w", err)
	}
	defer rows.Close()

	hits := []driven.TextHit{}
	for rows.Next() {
		var h driven.TextHit
		if err := rows.Scan(&h.ChunkID, &h.Rank, &h.Snippet); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hits: %w", err)
	}
	return hits, nil
}

// MatchExpression turns free text into an FTS5 query that ANDs every
// whitespace-separated term as a quoted string. Punctuation inside a term is
// left to the tokenizer, so user input can never form invalid syntax.
func MatchExpression(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	terms := make([]string, len(fields))
	for i, f := range fields {
		terms[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}
