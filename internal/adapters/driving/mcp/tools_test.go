package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/membox/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	if ports.Search == nil {
		ports.Search = &mockSearchService{}
	}
	server, err := NewServer(ports, "test")
	require.NoError(t, err)
	return server
}

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search hits", func(t *testing.T) {
		mockSearch := &mockSearchService{
			hits: []domain.SearchHit{{
				Locator:     "/docs/paper.pdf",
				Title:       "Test Doc",
				DocumentID:  "doc-1",
				ChunkID:     "chunk-1",
				PageStart:   3,
				PageEnd:     4,
				Score:       0.95,
				Snippet:     "matched [text]",
				TextPreview: "This is the content",
			}},
		}
		server := newTestServer(t, &Ports{Search: mockSearch})

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "text", TopK: 5, Mode: "hybrid"})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, "hybrid", output.Mode)
		require.Len(t, output.Hits, 1)
		assert.Equal(t, "doc-1", output.Hits[0].DocumentID)
		assert.Equal(t, "matched [text]", output.Hits[0].Snippet)
		assert.Equal(t, 5, mockSearch.opts.Limit)
		assert.Equal(t, domain.SearchModeHybrid, mockSearch.opts.Mode)
	})

	t.Run("passes filters through", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		server := newTestServer(t, &Ports{Search: mockSearch})

		_, output, err := server.handleSearch(ctx, nil, SearchInput{
			Query: "q", Doc: "doc-9", PathPrefix: "/docs", SnippetTokens: 6, MaxChars: 40, Bootstrap: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "lexical", output.Mode)
		assert.NotNil(t, output.Hits)
		assert.Equal(t, 0, output.Count)
		assert.Equal(t, "doc-9", mockSearch.opts.DocumentID)
		assert.Equal(t, "/docs", mockSearch.opts.PathPrefix)
		assert.Equal(t, 6, mockSearch.opts.SnippetTokens)
		assert.Equal(t, 40, mockSearch.opts.MaxChars)
		assert.True(t, mockSearch.opts.Bootstrap)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		server := newTestServer(t, &Ports{Search: &mockSearchService{err: domain.ErrMalformedQuery}})

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: " "})

		assert.ErrorIs(t, err, domain.ErrMalformedQuery)
	})
}

func TestServer_handleRelated(t *testing.T) {
	ctx := context.Background()

	t.Run("maps the query and response", func(t *testing.T) {
		mockRelated := &mockRelatedService{resp: &domain.RelatedResponse{
			Source:      "seed text",
			SeedChunkID: "chunk-1",
			Model:       "hashed-bow",
			Hits:        []domain.SearchHit{{ChunkID: "chunk-2", Score: 0.8}},
		}}
		server := newTestServer(t, &Ports{Related: mockRelated})

		_, output, err := server.handleRelated(ctx, nil, RelatedInput{
			Doc: "doc-1", Page: 4, TopK: 3, Model: "hashed-bow", Dim: 768, Bootstrap: true, Show: 50,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.RelatedQuery{
			DocumentID: "doc-1", Page: 4, Limit: 3, Model: "hashed-bow", Dim: 768, Bootstrap: true, Show: 50,
		}, mockRelated.query)
		assert.Equal(t, "chunk-1", output.SeedChunkID)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, "chunk-2", output.Hits[0].ChunkID)
	})

	t.Run("returns empty space error", func(t *testing.T) {
		server := newTestServer(t, &Ports{Related: &mockRelatedService{err: domain.ErrEmptyEmbeddingSpace}})

		_, _, err := server.handleRelated(ctx, nil, RelatedInput{Query: "x"})

		assert.ErrorIs(t, err, domain.ErrEmptyEmbeddingSpace)
	})
}

func TestServer_handleIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("uses defaults", func(t *testing.T) {
		mockIndex := &mockIndexService{}
		server := newTestServer(t, &Ports{Index: mockIndex})

		_, output, err := server.handleIngest(ctx, nil, IngestInput{Path: "/docs"})

		require.NoError(t, err)
		assert.Equal(t, "path", mockIndex.method)
		assert.Equal(t, domain.IndexOptions{MinChars: domain.DefaultMinChars, Glob: domain.DefaultGlob}, mockIndex.opts)
		assert.Equal(t, 1, output.Indexed)
	})

	t.Run("honours explicit zero min_chars and force", func(t *testing.T) {
		mockIndex := &mockIndexService{}
		server := newTestServer(t, &Ports{Index: mockIndex})
		zero, force := 0, true

		_, _, err := server.handleIngest(ctx, nil, IngestInput{Path: "/docs", Glob: "*.md", MinChars: &zero, Force: &force})

		require.NoError(t, err)
		assert.Equal(t, domain.IndexOptions{Force: true, MinChars: 0, Glob: "*.md"}, mockIndex.opts)
	})

	t.Run("requires a path", func(t *testing.T) {
		server := newTestServer(t, &Ports{Index: &mockIndexService{}})

		_, _, err := server.handleIngest(ctx, nil, IngestInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("returns index errors", func(t *testing.T) {
		server := newTestServer(t, &Ports{Index: &mockIndexService{err: errors.New("disk full")}})

		_, _, err := server.handleIngest(ctx, nil, IngestInput{Path: "/docs"})

		assert.EqualError(t, err, "disk full")
	})
}

func TestServer_handleReindex(t *testing.T) {
	mockIndex := &mockIndexService{}
	server := newTestServer(t, &Ports{Index: mockIndex})

	_, output, err := server.handleReindex(context.Background(), nil, IngestInput{})

	require.NoError(t, err)
	assert.Equal(t, "reindex", mockIndex.method)
	assert.Empty(t, mockIndex.path)
	assert.True(t, mockIndex.opts.Force, "reindex forces by default")
	assert.Equal(t, 1, output.Total)
}
