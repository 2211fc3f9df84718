package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driven"
	"github.com/custodia-labs/membox/internal/core/ports/driving"
	"github.com/custodia-labs/membox/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// contentSeparator joins chunk texts when rebuilding a document's content.
const contentSeparator = "\n\n"

// DocumentService exposes ingested documents.
type DocumentService struct {
	docStore driven.DocumentStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore) *DocumentService {
	return &DocumentService{
		docStore: docStore,
	}
}

// List returns all documents, oldest first.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return docs, nil
}

// Get retrieves a document by ID or locator.
func (s *DocumentService) Get(ctx context.Context, ref string) (*domain.Document, error) {
	return resolveDocument(ctx, s.docStore, ref)
}

// GetContent returns the concatenated content of all chunks.
func (s *DocumentService) GetContent(ctx context.Context, documentID string) (string, error) {
	doc, err := resolveDocument(ctx, s.docStore, documentID)
	if err != nil {
		return "", err
	}

	chunks, err := s.docStore.GetChunks(ctx, doc.ID)
	if err != nil {
		return "", err
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Position < chunks[j].Position
	})

	var builder strings.Builder
	for i, chunk := range chunks {
		if i > 0 {
			builder.WriteString(contentSeparator)
		}
		builder.WriteString(chunk.Content)
	}

	return builder.String(), nil
}

// GetDetails returns metadata for display.
func (s *DocumentService) GetDetails(ctx context.Context, documentID string) (*driving.DocumentDetails, error) {
	doc, err := resolveDocument(ctx, s.docStore, documentID)
	if err != nil {
		return nil, err
	}

	chunks, err := s.docStore.GetChunks(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	pageCount := 0
	for _, c := range chunks {
		pageCount = max(pageCount, c.PageEnd)
	}

	return &driving.DocumentDetails{
		ID:          doc.ID,
		Title:       doc.Title,
		Locator:     doc.Locator,
		MIMEType:    doc.MIMEType,
		Fingerprint: doc.Fingerprint,
		ChunkCount:  len(chunks),
		PageCount:   pageCount,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

// Delete removes a document with its chunks and embeddings.
func (s *DocumentService) Delete(ctx context.Context, ref string) error {
	doc, err := resolveDocument(ctx, s.docStore, ref)
	if err != nil {
		return err
	}
	if err := s.docStore.DeleteDocument(ctx, doc.ID); err != nil {
		return fmt.Errorf("deleting %s: %w", doc.Locator, err)
	}
	logger.Info("Deleted %s", doc.Locator)
	return nil
}
