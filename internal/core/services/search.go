package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driven"
	"github.com/custodia-labs/membox/internal/core/ports/driving"
	"github.com/custodia-labs/membox/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// rrfK is the reciprocal rank fusion constant.
const rrfK = 60

// SearchService answers lexical, semantic and hybrid queries.
type SearchService struct {
	docStore driven.DocumentStore
	searcher driven.TextSearcher
	space    *embeddingSpace
}

// NewSearchService creates a new search service.
// The vectors and embedder parameters are optional (can be nil); without
// them only lexical search is available.
func NewSearchService(
	docStore driven.DocumentStore,
	searcher driven.TextSearcher,
	vectors driven.VectorStore,
	embedder driven.EmbeddingService,
) *SearchService {
	s := &SearchService{
		docStore: docStore,
		searcher: searcher,
	}
	if vectors != nil && embedder != nil {
		s.space = &embeddingSpace{
			docStore: docStore,
			vectors:  vectors,
			embedder: embedder,
		}
	}
	return s
}

// Search ranks chunks for query.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) (*domain.SearchResponse, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrMalformedQuery)
	}

	opts = opts.WithDefaults()
	if !opts.Mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown search mode %q", domain.ErrInvalidInput, opts.Mode)
	}

	if opts.DocumentID != "" {
		doc, err := resolveDocument(ctx, s.docStore, opts.DocumentID)
		if err != nil {
			return nil, err
		}
		opts.DocumentID = doc.ID
	}
	if opts.PathPrefix != "" {
		opts.PathPrefix = expandHome(opts.PathPrefix)
	}

	logger.Info("Search mode: %s", opts.Mode.Description())
	logger.Debug("Limit: %d, document: %q, prefix: %q", opts.Limit, opts.DocumentID, opts.PathPrefix)

	var (
		chunks []scoredChunk
		err    error
	)

	switch opts.Mode {
	case domain.SearchModeSemantic:
		chunks, err = s.semanticSearch(ctx, query, opts)
	case domain.SearchModeHybrid:
		chunks, err = s.hybridSearch(ctx, query, opts)
	default:
		chunks, err = s.lexicalSearch(ctx, query, opts)
	}
	if err != nil {
		logger.Warn("Search failed: %v", err)
		return nil, fmt.Errorf("search: %w", err)
	}

	logger.Debug("Raw results: %d chunks", len(chunks))
	if len(chunks) > opts.Limit {
		chunks = chunks[:opts.Limit]
	}

	hits, err := newHydrator(s.docStore).hits(ctx, chunks, opts.MaxChars)
	if err != nil {
		return nil, err
	}

	logger.Debug("Returning %d hits", len(hits))
	return &domain.SearchResponse{
		Query: query,
		Mode:  opts.Mode,
		Hits:  hits,
	}, nil
}

// lexicalSearch ranks with the full-text engine. Order follows the raw rank.
func (s *SearchService) lexicalSearch(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]scoredChunk, error) {
	if s.searcher == nil {
		return nil, fmt.Errorf("%w: full-text search is not configured", domain.ErrInvalidInput)
	}

	hits, err := s.searcher.Search(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("Lexical search: %d results", len(hits))

	chunks := make([]scoredChunk, len(hits))
	for i, h := range hits {
		chunks[i] = scoredChunk{
			chunkID: h.ChunkID,
			score:   domain.LexicalScore(h.Rank),
			snippet: h.Snippet,
		}
	}
	return chunks, nil
}

// semanticSearch ranks every stored vector by cosine similarity.
// Chunks lacking a vector are embedded first: the filtered document when
// DocumentID is set, otherwise every chunk once the space is non-empty.
// Filters are applied after scoring, so the whole space is ranked when set.
func (s *SearchService) semanticSearch(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]scoredChunk, error) {
	if s.space == nil {
		return nil, fmt.Errorf("%w: semantic search is not configured", domain.ErrInvalidInput)
	}
	if opts.DocumentID != "" {
		added, err := s.space.ensure(ctx, opts.DocumentID)
		if err != nil {
			return nil, err
		}
		logger.Debug("Ensured %d embeddings for document %s", added, opts.DocumentID)
	}
	if err := s.space.ready(ctx, opts.Bootstrap); err != nil {
		return nil, err
	}
	if opts.DocumentID == "" {
		// Chunks indexed after the space was first populated.
		added, err := s.space.ensure(ctx, "")
		if err != nil {
			return nil, err
		}
		logger.Debug("Ensured %d embeddings", added)
	}

	filtered := opts.DocumentID != "" || opts.PathPrefix != ""
	k := opts.Limit
	if filtered {
		k = 0
	}

	scored, err := s.space.nearest(ctx, query, k)
	if err != nil {
		return nil, err
	}
	logger.Debug("Semantic search: %d results", len(scored))

	chunks := make([]scoredChunk, 0, min(len(scored), opts.Limit))
	for _, sc := range scored {
		if len(chunks) == opts.Limit {
			break
		}
		if filtered {
			ok, err := s.matchesFilters(ctx, sc.ID, opts)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		chunks = append(chunks, scoredChunk{chunkID: sc.ID, score: sc.Score})
	}
	return chunks, nil
}

// matchesFilters applies the document and path prefix filters to a chunk.
func (s *SearchService) matchesFilters(ctx context.Context, chunkID string, opts domain.SearchOptions) (bool, error) {
	chunk, err := s.docStore.GetChunk(ctx, chunkID)
	if err != nil {
		return false, err
	}
	if opts.DocumentID != "" && chunk.DocumentID != opts.DocumentID {
		return false, nil
	}
	if opts.PathPrefix == "" {
		return true, nil
	}
	doc, err := s.docStore.GetDocument(ctx, chunk.DocumentID)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(doc.Locator, strings.TrimRight(opts.PathPrefix, "/")), nil
}

// hybridSearch runs lexical and semantic searches in parallel and fuses them.
// If one side fails the other's results are used alone.
func (s *SearchService) hybridSearch(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]scoredChunk, error) {
	logger.Debug("Hybrid search: running lexical and semantic searches in parallel")

	wide := opts
	wide.Limit = min(opts.Limit*2, domain.MaxTopK)

	var lexical, semantic []scoredChunk
	var lexicalErr, semanticErr error

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		lexical, lexicalErr = s.lexicalSearch(ctx, query, wide)
	}()

	go func() {
		defer wg.Done()
		semantic, semanticErr = s.semanticSearch(ctx, query, wide)
	}()

	wg.Wait()

	if lexicalErr != nil && semanticErr != nil {
		logger.Warn("Hybrid search: both lexical and semantic searches failed")
		return nil, fmt.Errorf("hybrid search: lexical=%w, semantic=%w", lexicalErr, semanticErr)
	}

	if lexicalErr != nil {
		logger.Warn("Hybrid search: lexical search failed, using semantic results only: %v", lexicalErr)
		return semantic, nil
	}

	if semanticErr != nil {
		logger.Warn("Hybrid search: semantic search failed, using lexical results only: %v", semanticErr)
		return lexical, nil
	}

	logger.Debug("Hybrid search: merging %d lexical + %d semantic results with RRF",
		len(lexical), len(semantic))
	merged := reciprocalRankFusion(lexical, semantic, rrfK)
	logger.Debug("Hybrid search: merged to %d results", len(merged))

	return merged, nil
}

// reciprocalRankFusion merges two ranked lists. k damps the weight of top
// ranks. Snippets are taken from whichever list carries one; equal scores
// fall back to chunk ID so output is deterministic.
func reciprocalRankFusion(list1, list2 []scoredChunk, k int) []scoredChunk {
	scores := make(map[string]float64)
	snippets := make(map[string]string)

	for _, list := range [][]scoredChunk{list1, list2} {
		for rank, chunk := range list {
			scores[chunk.chunkID] += 1.0 / float64(k+rank+1)
			if chunk.snippet != "" && snippets[chunk.chunkID] == "" {
				snippets[chunk.chunkID] = chunk.snippet
			}
		}
	}

	results := make([]scoredChunk, 0, len(scores))
	for id, score := range scores {
		results = append(results, scoredChunk{
			chunkID: id,
			score:   score,
			snippet: snippets[id],
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].chunkID < results[j].chunkID
	})

	return results
}
