package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driven"
	"github.com/custodia-labs/membox/internal/core/ports/driving"
	"github.com/custodia-labs/membox/internal/logger"
)

// Ensure RelatedService implements the interface.
var _ driving.RelatedService = (*RelatedService)(nil)

// RelatedService finds chunks near a text, chunk or page in embedding space.
type RelatedService struct {
	docStore driven.DocumentStore
	vectors  driven.VectorStore
	embedder driven.EmbeddingService
	provider driven.EmbeddingProvider
}

// NewRelatedService creates a new related service.
// The provider is optional; without it queries are limited to the default embedder's space.
func NewRelatedService(
	docStore driven.DocumentStore,
	vectors driven.VectorStore,
	embedder driven.EmbeddingService,
	provider driven.EmbeddingProvider,
) *RelatedService {
	return &RelatedService{
		docStore: docStore,
		vectors:  vectors,
		embedder: embedder,
		provider: provider,
	}
}

// source is the resolved query: text to embed and, for chunk or page
// sources, the seed chunk.
type source struct {
	text  string
	chunk *domain.Chunk
}

// Related embeds the query source and returns its nearest chunks.
func (s *RelatedService) Related(ctx context.Context, q domain.RelatedQuery) (*domain.RelatedResponse, error) {
	logger.Section("Related Lookup")

	if q.Limit <= 0 {
		q.Limit = domain.DefaultTopK
	}
	if q.Limit > domain.MaxTopK {
		q.Limit = domain.MaxTopK
	}
	if q.Show <= 0 {
		q.Show = domain.DefaultShowChars
	}

	src, err := s.resolveSource(ctx, q)
	if err != nil {
		return nil, err
	}

	space, err := s.spaceFor(q.Model, q.Dim)
	if err != nil {
		return nil, err
	}
	logger.Debug("Embedding space: %s (dim %d)", space.model(), space.embedder.Dimensions())

	if src.chunk != nil {
		added, err := space.ensure(ctx, src.chunk.DocumentID)
		if err != nil {
			return nil, err
		}
		logger.Debug("Ensured %d embeddings for document %s", added, src.chunk.DocumentID)
	}

	if err := space.ready(ctx, q.Bootstrap); err != nil {
		return nil, err
	}

	scored, err := space.nearest(ctx, src.text, q.Limit+1)
	if err != nil {
		return nil, err
	}

	chunks := make([]scoredChunk, 0, q.Limit)
	for _, sc := range scored {
		if src.chunk != nil && sc.ID == src.chunk.ID {
			continue
		}
		if len(chunks) == q.Limit {
			break
		}
		chunks = append(chunks, scoredChunk{chunkID: sc.ID, score: sc.Score})
	}

	hits, err := newHydrator(s.docStore).hits(ctx, chunks, q.Show)
	if err != nil {
		return nil, err
	}

	resp := &domain.RelatedResponse{
		Source: truncateRunes(src.text, q.Show),
		Model:  space.model(),
		Hits:   hits,
	}
	if src.chunk != nil {
		resp.SeedChunkID = src.chunk.ID
	}
	logger.Debug("Returning %d neighbours", len(hits))
	return resp, nil
}

// EnsureEmbeddings embeds chunks lacking a vector for the default model.
func (s *RelatedService) EnsureEmbeddings(ctx context.Context, documentID string) (int, error) {
	space, err := s.spaceFor("", 0)
	if err != nil {
		return 0, err
	}
	if documentID != "" {
		doc, err := resolveDocument(ctx, s.docStore, documentID)
		if err != nil {
			return 0, err
		}
		documentID = doc.ID
	}
	return space.ensure(ctx, documentID)
}

// resolveSource turns exactly one of text, chunk or (document, page) into query text.
func (s *RelatedService) resolveSource(ctx context.Context, q domain.RelatedQuery) (*source, error) {
	switch {
	case q.ChunkID != "":
		chunk, err := s.docStore.GetChunk(ctx, q.ChunkID)
		if err != nil {
			return nil, fmt.Errorf("chunk %q: %w", q.ChunkID, err)
		}
		logger.Debug("Source: chunk %s", chunk.ID)
		return &source{text: chunk.Content, chunk: chunk}, nil

	case q.DocumentID != "":
		if q.Page <= 0 {
			return nil, fmt.Errorf("%w: page must be positive with a document source", domain.ErrInvalidInput)
		}
		doc, err := resolveDocument(ctx, s.docStore, q.DocumentID)
		if err != nil {
			return nil, err
		}
		chunk, err := s.docStore.ChunkForPage(ctx, doc.ID, q.Page)
		if err != nil {
			return nil, fmt.Errorf("page %d of %s: %w", q.Page, doc.Locator, err)
		}
		logger.Debug("Source: page %d of %s -> chunk %s (pages %d-%d)",
			q.Page, doc.Locator, chunk.ID, chunk.PageStart, chunk.PageEnd)
		return &source{text: chunk.Content, chunk: chunk}, nil

	default:
		text := strings.TrimSpace(q.Text)
		if text == "" {
			return nil, fmt.Errorf("%w: one of text, chunk or document and page is required", domain.ErrMalformedQuery)
		}
		logger.Debug("Source: text %q", text)
		return &source{text: text}, nil
	}
}

// spaceFor selects the embedding space. Zero values, or values matching the
// default embedder, use it directly.
func (s *RelatedService) spaceFor(model string, dim int) (*embeddingSpace, error) {
	if s.vectors == nil || s.embedder == nil {
		return nil, fmt.Errorf("%w: semantic search is not configured", domain.ErrInvalidInput)
	}

	embedder := s.embedder
	sameModel := model == "" || model == s.embedder.ModelName()
	sameDim := dim == 0 || dim == s.embedder.Dimensions()
	if !sameModel || !sameDim {
		if s.provider == nil {
			return nil, fmt.Errorf("%w: embedding model %q", domain.ErrUnsupportedType, model)
		}
		if model == "" {
			model = s.embedder.ModelName()
		}
		var err error
		embedder, err = s.provider.ForModel(model, dim)
		if err != nil {
			return nil, err
		}
	}

	return &embeddingSpace{
		docStore: s.docStore,
		vectors:  s.vectors,
		embedder: embedder,
	}, nil
}
