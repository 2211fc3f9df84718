package mcp

import (
	"context"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	hits  []domain.SearchHit
	err   error
	query string
	opts  domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) (*domain.SearchResponse, error) {
	m.query, m.opts = query, opts
	if m.err != nil {
		return nil, m.err
	}
	mode := opts.Mode
	if mode == "" {
		mode = domain.SearchModeLexical
	}
	return &domain.SearchResponse{Query: query, Mode: mode, Hits: m.hits}, nil
}

// mockRelatedService is a mock implementation of driving.RelatedService.
type mockRelatedService struct {
	resp  *domain.RelatedResponse
	err   error
	query domain.RelatedQuery
}

func (m *mockRelatedService) Related(_ context.Context, q domain.RelatedQuery) (*domain.RelatedResponse, error) {
	m.query = q
	return m.resp, m.err
}

func (m *mockRelatedService) EnsureEmbeddings(context.Context, string) (int, error) {
	return 0, m.err
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	err    error
	method string
	path   string
	opts   domain.IndexOptions
}

func (m *mockIndexService) IndexDocument(_ context.Context, path string, opts domain.IndexOptions) (*domain.IndexResult, error) {
	m.method, m.path, m.opts = "document", path, opts
	return &domain.IndexResult{Locator: path, Status: domain.IndexStatusIndexed}, m.err
}

func (m *mockIndexService) IndexPath(_ context.Context, path string, opts domain.IndexOptions) (*domain.BatchResult, error) {
	m.method, m.path, m.opts = "path", path, opts
	return m.batch()
}

func (m *mockIndexService) Reindex(_ context.Context, path string, opts domain.IndexOptions) (*domain.BatchResult, error) {
	m.method, m.path, m.opts = "reindex", path, opts
	return m.batch()
}

func (m *mockIndexService) batch() (*domain.BatchResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	b := domain.NewBatchResult()
	b.Add(domain.IndexResult{DocumentID: "doc-1", Locator: m.path, Status: domain.IndexStatusIndexed, Chunks: 4})
	return b, nil
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	content   string
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &m.documents[0], nil
}

func (m *mockDocumentService) GetContent(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockDocumentService) GetDetails(_ context.Context, _ string) (*driving.DocumentDetails, error) {
	return nil, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}
