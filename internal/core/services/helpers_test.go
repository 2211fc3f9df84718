package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/membox/internal/adapters/driven/embedding/hashed"
	"github.com/custodia-labs/membox/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driven"
	"github.com/custodia-labs/membox/internal/postprocessors/chunker"
)

// --- Mock implementations ---

// textExtractor implements driven.PageExtractor by splitting files on form feeds.
// Files whose base name is in fail report ErrExtractionFailed.
type textExtractor struct {
	mu    sync.Mutex
	fail  map[string]bool
	calls int
}

func newTextExtractor() *textExtractor {
	return &textExtractor{fail: make(map[string]bool)}
}

func (e *textExtractor) failOn(name string, fail bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fail[name] = fail
}

func (e *textExtractor) Extract(_ context.Context, path, _ string) ([]domain.Page, error) {
	e.mu.Lock()
	e.calls++
	fail := e.fail[filepath.Base(path)]
	e.mu.Unlock()

	if fail {
		return nil, fmt.Errorf("%w: stub: no text", domain.ErrExtractionFailed)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return domain.SplitPages(string(data)), nil
}

// stubTitles implements driven.TitleSource with a fixed title.
type stubTitles struct {
	title string
}

func (s stubTitles) Title(context.Context, string, string) string {
	return s.title
}

// countingEmbedder wraps the hashed embedder and counts embedded texts.
type countingEmbedder struct {
	*hashed.EmbeddingService

	mu       sync.Mutex
	embedded int
}

func newCountingEmbedder(dim int) *countingEmbedder {
	return &countingEmbedder{
		EmbeddingService: hashed.NewEmbeddingService(hashed.Config{Dimensions: dim}),
	}
}

func (e *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.embedded += len(texts)
	e.mu.Unlock()
	return e.EmbeddingService.EmbedBatch(ctx, texts)
}

func (e *countingEmbedder) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.embedded
}

// mockProvider implements driven.EmbeddingProvider for testing.
type mockProvider struct {
	requested []string
}

func (p *mockProvider) ForModel(model string, dim int) (driven.EmbeddingService, error) {
	p.requested = append(p.requested, fmt.Sprintf("%s/%d", model, dim))
	if model == "unknown" {
		return nil, fmt.Errorf("%w: embedding model %q", domain.ErrUnsupportedType, model)
	}
	return hashed.NewEmbeddingService(hashed.Config{Model: model, Dimensions: dim}), nil
}

// failingSearcher implements driven.TextSearcher and always fails.
type failingSearcher struct{}

func (failingSearcher) Search(context.Context, string, domain.SearchOptions) ([]driven.TextHit, error) {
	return nil, errors.New("fts unavailable")
}

// --- Fixtures ---

type fixture struct {
	dir       string
	vectors   *memory.VectorStore
	docs      *memory.DocumentStore
	extractor *textExtractor
	embedder  *countingEmbedder
	indexer   *IndexService
	search    *SearchService
	related   *RelatedService
	documents *DocumentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	vectors := memory.NewVectorStore()
	docs := memory.NewDocumentStore(vectors)
	extractor := newTextExtractor()
	embedder := newCountingEmbedder(hashed.DefaultDimensions)

	return &fixture{
		dir:       t.TempDir(),
		vectors:   vectors,
		docs:      docs,
		extractor: extractor,
		embedder:  embedder,
		indexer:   NewIndexService(docs, extractor, chunker.New(), nil),
		search:    NewSearchService(docs, memory.NewTextSearcher(docs), vectors, embedder),
		related:   NewRelatedService(docs, vectors, embedder, &mockProvider{}),
		documents: NewDocumentService(docs),
	}
}

// write creates or replaces a file under the fixture directory.
func (f *fixture) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// ingest writes and indexes a file with one chunk per page.
func (f *fixture) ingest(t *testing.T, name, content string) *domain.IndexResult {
	t.Helper()
	res, err := f.indexer.IndexDocument(context.Background(), f.write(t, name, content), domain.IndexOptions{})
	require.NoError(t, err)
	return res
}

func (f *fixture) chunks(t *testing.T, documentID string) []domain.Chunk {
	t.Helper()
	chunks, err := f.docs.GetChunks(context.Background(), documentID)
	require.NoError(t, err)
	return chunks
}

func (f *fixture) vectorCount(t *testing.T) int {
	t.Helper()
	n, err := f.vectors.Count(context.Background(), hashed.DefaultModel)
	require.NoError(t, err)
	return n
}

func chunkIDs(chunks []domain.Chunk) []string {
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ID
	}
	return ids
}

func hitChunkIDs(hits []domain.SearchHit) []string {
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ChunkID
	}
	return ids
}

func canonical(t *testing.T, path string) string {
	t.Helper()
	p, err := CanonicalPath(path)
	require.NoError(t, err)
	return p
}
