package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/membox/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query         string `json:"query" jsonschema:"the search query"`
	TopK          int    `json:"topk,omitempty" jsonschema:"maximum number of hits, 1-100 (default 10)"`
	Doc           string `json:"doc,omitempty" jsonschema:"restrict to a document ID or path"`
	PathPrefix    string `json:"path_prefix,omitempty" jsonschema:"restrict to documents under this path"`
	SnippetTokens int    `json:"snippet_tokens,omitempty" jsonschema:"snippet window in tokens (default 24)"`
	MaxChars      int    `json:"max_chars,omitempty" jsonschema:"preview length in characters (default 400)"`
	Mode          string `json:"mode,omitempty" jsonschema:"lexical (default), semantic or hybrid"`
	Bootstrap     bool   `json:"bootstrap,omitempty" jsonschema:"embed every chunk when no embeddings exist (semantic modes)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Query string             `json:"query"`
	Mode  string             `json:"mode"`
	Hits  []domain.SearchHit `json:"hits"`
	Count int                `json:"count"`
}

// RelatedInput is the input schema for the related tool.
// Exactly one of query, chunk_id, or doc with page is expected.
type RelatedInput struct {
	Query     string `json:"query,omitempty" jsonschema:"free text to compare against"`
	ChunkID   string `json:"chunk_id,omitempty" jsonschema:"use an existing chunk as the query"`
	Doc       string `json:"doc,omitempty" jsonschema:"document ID or path, used with page"`
	Page      int    `json:"page,omitempty" jsonschema:"page number within doc"`
	TopK      int    `json:"topk,omitempty" jsonschema:"number of neighbours (default 10)"`
	Model     string `json:"model,omitempty" jsonschema:"embedding model (default hashed-bow)"`
	Dim       int    `json:"dim,omitempty" jsonschema:"embedding dimensions (default 768)"`
	Bootstrap bool   `json:"bootstrap,omitempty" jsonschema:"embed every chunk when no embeddings exist"`
	Show      int    `json:"show,omitempty" jsonschema:"characters of each hit to return (default 200)"`
}

// RelatedOutput is the output schema for the related tool.
type RelatedOutput struct {
	Source      string             `json:"source"`
	SeedChunkID string             `json:"seed_chunk_id,omitempty"`
	Model       string             `json:"model"`
	Hits        []domain.SearchHit `json:"hits"`
	Count       int                `json:"count"`
}

// IngestInput is the input schema for the ingest and reindex tools.
type IngestInput struct {
	Path     string `json:"path,omitempty" jsonschema:"file or directory; reindex with no path covers every document"`
	Glob     string `json:"glob,omitempty" jsonschema:"file pattern for directories (default *.pdf)"`
	Force    *bool  `json:"force,omitempty" jsonschema:"rebuild unchanged documents (ingest default false, reindex default true)"`
	MinChars *int   `json:"min_chars,omitempty" jsonschema:"minimum characters per chunk, 0 for one chunk per page (default 200)"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search indexed document chunks (lexical BM25 by default)",
	}, s.handleSearch)
	s.tools = append(s.tools, "search")

	if s.ports.Related != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "related",
			Description: "Find chunks semantically similar to a text, chunk or document page",
		}, s.handleRelated)
		s.tools = append(s.tools, "related")
	}

	if s.ports.Index != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest",
			Description: "Index a file or every matching file in a directory",
		}, s.handleIngest)
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "reindex",
			Description: "Rebuild chunks for a path, or for every known document when path is empty",
		}, s.handleReindex)
		s.tools = append(s.tools, "ingest", "reindex")
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{
		Limit:         input.TopK,
		DocumentID:    input.Doc,
		PathPrefix:    input.PathPrefix,
		SnippetTokens: input.SnippetTokens,
		MaxChars:      input.MaxChars,
		Mode:          domain.SearchMode(input.Mode),
		Bootstrap:     input.Bootstrap,
	}

	resp, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, SearchOutput{
		Query: resp.Query,
		Mode:  string(resp.Mode),
		Hits:  nonNilHits(resp.Hits),
		Count: len(resp.Hits),
	}, nil
}

// handleRelated handles the related tool invocation.
func (s *Server) handleRelated(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RelatedInput,
) (*mcp.CallToolResult, RelatedOutput, error) {
	resp, err := s.ports.Related.Related(ctx, domain.RelatedQuery{
		Text:       input.Query,
		ChunkID:    input.ChunkID,
		DocumentID: input.Doc,
		Page:       input.Page,
		Limit:      input.TopK,
		Model:      input.Model,
		Dim:        input.Dim,
		Bootstrap:  input.Bootstrap,
		Show:       input.Show,
	})
	if err != nil {
		return nil, RelatedOutput{}, err
	}

	return nil, RelatedOutput{
		Source:      resp.Source,
		SeedChunkID: resp.SeedChunkID,
		Model:       resp.Model,
		Hits:        nonNilHits(resp.Hits),
		Count:       len(resp.Hits),
	}, nil
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, domain.BatchResult, error) {
	if input.Path == "" {
		return nil, domain.BatchResult{}, errMissingPath
	}

	result, err := s.ports.Index.IndexPath(ctx, input.Path, input.options(false))
	if err != nil {
		return nil, domain.BatchResult{}, err
	}
	return nil, *result, nil
}

// handleReindex handles the reindex tool invocation.
func (s *Server) handleReindex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, domain.BatchResult, error) {
	result, err := s.ports.Index.Reindex(ctx, input.Path, input.options(true))
	if err != nil {
		return nil, domain.BatchResult{}, err
	}
	return nil, *result, nil
}

func (in IngestInput) options(force bool) domain.IndexOptions {
	opts := domain.IndexOptions{
		Force:    force,
		MinChars: domain.DefaultMinChars,
		Glob:     in.Glob,
	}
	if in.Force != nil {
		opts.Force = *in.Force
	}
	if in.MinChars != nil {
		opts.MinChars = *in.MinChars
	}
	return opts.WithDefaults()
}

func nonNilHits(hits []domain.SearchHit) []domain.SearchHit {
	if hits == nil {
		return []domain.SearchHit{}
	}
	return hits
}
