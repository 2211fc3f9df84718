package http

import (
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/custodia-labs/membox/internal/core/domain"
)

// ingestRequest is the body of POST /ingest and POST /reindex.
type ingestRequest struct {
	Path     string `json:"path"`
	Glob     string `json:"glob"`
	Force    *bool  `json:"force"`
	MinChars *int   `json:"min_chars"`
}

func (r ingestRequest) options(force bool) domain.IndexOptions {
	opts := domain.IndexOptions{
		Force:    force,
		MinChars: domain.DefaultMinChars,
		Glob:     r.Glob,
	}
	if r.Force != nil {
		opts.Force = *r.Force
	}
	if r.MinChars != nil {
		opts.MinChars = *r.MinChars
	}
	return opts.WithDefaults()
}

// searchRequest is the body of POST /search.
type searchRequest struct {
	Query         string `json:"query"`
	TopK          *int   `json:"topk"`
	Doc           string `json:"doc"`
	PathPrefix    string `json:"path_prefix"`
	SnippetTokens int    `json:"snippet_tokens"`
	MaxChars      int    `json:"max_chars"`
	Mode          string `json:"mode"`
	Bootstrap     bool   `json:"bootstrap"`
}

// relatedRequest is the body of POST /related.
type relatedRequest struct {
	Query     string `json:"query"`
	ChunkID   string `json:"chunk_id"`
	Doc       string `json:"doc"`
	Page      int    `json:"page"`
	TopK      *int   `json:"topk"`
	Model     string `json:"model"`
	Dim       int    `json:"dim"`
	Bootstrap bool   `json:"bootstrap"`
	Show      int    `json:"show"`
}

// bind decodes a JSON body into v. An empty body leaves v untouched.
func bind(c fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.Bind().JSON(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %w", domain.ErrInvalidInput, err)
	}
	return nil
}

// topK validates an optional topk field.
func topK(v *int) (int, error) {
	if v == nil {
		return domain.DefaultTopK, nil
	}
	if *v < 1 || *v > domain.MaxTopK {
		return 0, fmt.Errorf("%w: topk must be within 1..%d", domain.ErrInvalidInput, domain.MaxTopK)
	}
	return *v, nil
}

func (s *Server) ingest(c fiber.Ctx) error {
	var req ingestRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Path == "" {
		return fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	opts := req.options(false)

	// A single file reports its own failure status instead of a batch entry.
	if info, err := os.Stat(req.Path); err == nil && info.Mode().IsRegular() {
		result, err := s.ports.Index.IndexDocument(c.Context(), req.Path, opts)
		if err != nil {
			return err
		}
		batch := domain.NewBatchResult()
		batch.Add(*result)
		return c.JSON(batch)
	}

	batch, err := s.ports.Index.IndexPath(c.Context(), req.Path, opts)
	if err != nil {
		return err
	}
	return c.JSON(batch)
}

func (s *Server) reindex(c fiber.Ctx) error {
	var req ingestRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	batch, err := s.ports.Index.Reindex(c.Context(), req.Path, req.options(true))
	if err != nil {
		return err
	}
	return c.JSON(batch)
}

func (s *Server) search(c fiber.Ctx) error {
	var req searchRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	limit, err := topK(req.TopK)
	if err != nil {
		return err
	}

	resp, err := s.ports.Search.Search(c.Context(), req.Query, domain.SearchOptions{
		Limit:         limit,
		DocumentID:    req.Doc,
		PathPrefix:    req.PathPrefix,
		SnippetTokens: req.SnippetTokens,
		MaxChars:      req.MaxChars,
		Mode:          domain.SearchMode(req.Mode),
		Bootstrap:     req.Bootstrap,
	})
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (s *Server) related(c fiber.Ctx) error {
	var req relatedRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	limit, err := topK(req.TopK)
	if err != nil {
		return err
	}

	resp, err := s.ports.Related.Related(c.Context(), domain.RelatedQuery{
		Text:       req.Query,
		ChunkID:    req.ChunkID,
		DocumentID: req.Doc,
		Page:       req.Page,
		Limit:      limit,
		Model:      req.Model,
		Dim:        req.Dim,
		Bootstrap:  req.Bootstrap,
		Show:       req.Show,
	})
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// documentJSON is the wire form of a document.
type documentJSON struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Path      string `json:"path"`
	MIMEType  string `json:"mime_type"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toDocumentJSON(d domain.Document) documentJSON {
	return documentJSON{
		ID:        d.ID,
		Title:     d.Title,
		Path:      d.Locator,
		MIMEType:  d.MIMEType,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
		UpdatedAt: d.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *Server) listDocuments(c fiber.Ctx) error {
	docs, err := s.ports.Document.List(c.Context())
	if err != nil {
		return err
	}

	out := make([]documentJSON, len(docs))
	for i := range docs {
		out[i] = toDocumentJSON(docs[i])
	}
	return c.JSON(fiber.Map{"documents": out, "count": len(out)})
}

func (s *Server) getDocument(c fiber.Ctx) error {
	details, err := s.ports.Document.GetDetails(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(details)
}
