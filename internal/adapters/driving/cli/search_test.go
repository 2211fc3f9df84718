package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/membox/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_Long(t *testing.T) {
	assert.Contains(t, searchCmd.Long, "BM25")
	assert.Contains(t, searchCmd.Long, "semantic")
	assert.Contains(t, searchCmd.Long, "hybrid")
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearchCmd_HasTopKFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("topk")
	require.NotNil(t, flag, "topk flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSearchCmd_ExecutesWithQuery(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "search", "attention")

	require.NoError(t, err)
	assert.Equal(t, "attention", ts.search.query)
	assert.Equal(t, domain.SearchModeLexical, ts.search.opts.Mode)
	assert.Equal(t, domain.DefaultTopK, ts.search.opts.Limit)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[1] Attention Is All You Need (0.7500)")
	assert.Contains(t, out, "/docs/paper.pdf  pp.2-3")
	assert.Contains(t, out, "multi-head [attention] layers")
	assert.Contains(t, out, "chunk chunk-1")
}

func TestSearchCmd_PassesFlags(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "search", "-n", "25", "--doc", "doc-1", "--path-prefix", "/docs",
		"--snippet-tokens", "8", "--max-chars", "50", "--mode", "hybrid", "--bootstrap", "attention")

	require.NoError(t, err)
	assert.Equal(t, domain.SearchOptions{
		Limit:         25,
		DocumentID:    "doc-1",
		PathPrefix:    "/docs",
		SnippetTokens: 8,
		MaxChars:      50,
		Mode:          domain.SearchModeHybrid,
		Bootstrap:     true,
	}, ts.search.opts)
}

func TestSearchCmd_DefaultsFromSettings(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	appSettings.Search.TopK = 3
	appSettings.Search.MaxChars = 120

	_, err := execute(t, "search", "attention")
	require.NoError(t, err)
	assert.Equal(t, 3, ts.search.opts.Limit)
	assert.Equal(t, 120, ts.search.opts.MaxChars)

	_, err = execute(t, "search", "--topk", "7", "attention")
	require.NoError(t, err)
	assert.Equal(t, 7, ts.search.opts.Limit)
}

func TestSearchCmd_TopKOutOfRange(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	for _, n := range []string{"0", "101"} {
		_, err := execute(t, "search", "-n", n, "attention")
		assert.ErrorIs(t, err, domain.ErrInvalidInput, n)
	}
	assert.Empty(t, ts.search.query)
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "search", "--json", "attention")

	require.NoError(t, err)
	assert.Contains(t, out, `"query": "attention"`)
	assert.Contains(t, out, `"chunk_id": "chunk-1"`)
	assert.Contains(t, out, `"page_start": 2`)
	assert.Contains(t, out, `"text_preview"`)
}

func TestSearchCmd_ServiceNotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	searchService = nil

	_, err := execute(t, "search", "test")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search service not configured")
}

func TestSearchCmd_ServiceError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.err = errors.Join(domain.ErrEmptyEmbeddingSpace, errors.New("hashed-bow"))

	_, err := execute(t, "search", "--mode", "semantic", "test")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
	assert.ErrorIs(t, err, domain.ErrEmptyEmbeddingSpace)
}

func TestOutputHits_Empty(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	outputHits(rootCmd, nil)

	assert.Contains(t, buf.String(), "No results found.")
}

func TestOutputHits_WithoutTitleOrSnippet(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	outputHits(rootCmd, []domain.SearchHit{{
		DocumentID: "doc-123", ChunkID: "c-1", PageStart: 4, PageEnd: 4,
		Score: 0.25, TextPreview: "plain\npreview",
	}})

	assert.Contains(t, buf.String(), "[1] doc-123 (0.2500)")
	assert.Contains(t, buf.String(), "p.4")
	assert.Contains(t, buf.String(), "plain preview")
}
