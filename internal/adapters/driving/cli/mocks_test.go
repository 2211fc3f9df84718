package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driving"
)

// mockIndexService implements driving.IndexService for testing.
type mockIndexService struct {
	path string
	opts domain.IndexOptions
	err  error
	out  *domain.BatchResult
}

func (m *mockIndexService) IndexDocument(_ context.Context, path string, opts domain.IndexOptions) (*domain.IndexResult, error) {
	m.path, m.opts = path, opts
	if m.err != nil {
		return nil, m.err
	}
	return &domain.IndexResult{DocumentID: "doc-1", Locator: path, Status: domain.IndexStatusIndexed, Chunks: 2}, nil
}

func (m *mockIndexService) IndexPath(_ context.Context, path string, opts domain.IndexOptions) (*domain.BatchResult, error) {
	m.path, m.opts = path, opts
	if m.err != nil {
		return nil, m.err
	}
	if m.out != nil {
		return m.out, nil
	}
	b := domain.NewBatchResult()
	b.Add(domain.IndexResult{DocumentID: "doc-1", Locator: path, Status: domain.IndexStatusIndexed, Chunks: 2})
	return b, nil
}

func (m *mockIndexService) Reindex(ctx context.Context, path string, opts domain.IndexOptions) (*domain.BatchResult, error) {
	return m.IndexPath(ctx, path, opts)
}

// mockSearchService implements driving.SearchService for testing.
type mockSearchService struct {
	query string
	opts  domain.SearchOptions
	err   error
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) (*domain.SearchResponse, error) {
	m.query, m.opts = query, opts
	if m.err != nil {
		return nil, m.err
	}
	return &domain.SearchResponse{
		Query: query,
		Mode:  opts.Mode,
		Hits: []domain.SearchHit{{
			Locator:     "/docs/paper.pdf",
			Title:       "Attention Is All You Need",
			DocumentID:  "doc-1",
			ChunkID:     "chunk-1",
			PageStart:   2,
			PageEnd:     3,
			Score:       0.75,
			Snippet:     "multi-head [attention] layers",
			TextPreview: "multi-head attention layers",
		}},
	}, nil
}

// mockRelatedService implements driving.RelatedService for testing.
type mockRelatedService struct {
	query domain.RelatedQuery
	err   error
}

func (m *mockRelatedService) Related(_ context.Context, q domain.RelatedQuery) (*domain.RelatedResponse, error) {
	m.query = q
	if m.err != nil {
		return nil, m.err
	}
	resp := &domain.RelatedResponse{Source: q.Text, Model: "hashed-bow", Hits: []domain.SearchHit{{
		Locator: "/docs/other.pdf", DocumentID: "doc-2", ChunkID: "chunk-9", PageStart: 1, PageEnd: 1, Score: 0.5,
		TextPreview: "neighbour text",
	}}}
	if q.ChunkID != "" {
		resp.SeedChunkID = q.ChunkID
	}
	return resp, nil
}

func (m *mockRelatedService) EnsureEmbeddings(context.Context, string) (int, error) {
	return 0, m.err
}

// mockDocumentService implements driving.DocumentService for testing.
type mockDocumentService struct {
	docs    []domain.Document
	err     error
	deleted []string
}

func (m *mockDocumentService) List(context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockDocumentService) Get(_ context.Context, ref string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.docs {
		if m.docs[i].ID == ref || m.docs[i].Locator == ref {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) GetContent(ctx context.Context, id string) (string, error) {
	if _, err := m.Get(ctx, id); err != nil {
		return "", err
	}
	return "page one\n\npage two", nil
}

func (m *mockDocumentService) GetDetails(ctx context.Context, id string) (*driving.DocumentDetails, error) {
	doc, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &driving.DocumentDetails{
		ID: doc.ID, Title: doc.Title, Locator: doc.Locator, MIMEType: doc.MIMEType,
		Fingerprint: doc.Fingerprint, ChunkCount: 2, PageCount: 7,
		CreatedAt: doc.CreatedAt, UpdatedAt: doc.UpdatedAt,
	}, nil
}

func (m *mockDocumentService) Delete(ctx context.Context, ref string) error {
	if _, err := m.Get(ctx, ref); err != nil {
		return err
	}
	m.deleted = append(m.deleted, ref)
	return nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.AppSettings
	set      map[string]string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if key == "bogus" {
		return errors.Join(domain.ErrInvalidInput, errors.New("unknown key"))
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"search.topk", "server.port"}
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	index    *mockIndexService
	search   *mockSearchService
	related  *mockRelatedService
	docs     *mockDocumentService
	settings *mockSettingsService
}

// setupTestServices installs mocks and returns a func restoring the previous state.
func setupTestServices() (*testServices, func()) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ts := &testServices{
		index:   &mockIndexService{},
		search:  &mockSearchService{},
		related: &mockRelatedService{},
		docs: &mockDocumentService{docs: []domain.Document{{
			ID: "doc-1", Locator: "/docs/paper.pdf", Title: "Attention Is All You Need",
			MIMEType: "application/pdf", Fingerprint: "abc123", CreatedAt: created, UpdatedAt: created,
		}}},
		settings: &mockSettingsService{settings: domain.DefaultAppSettings(), set: map[string]string{}},
	}

	oldIndex, oldSearch, oldRelated := indexService, searchService, relatedService
	oldDocs, oldSettings, oldConfig, oldWiring := documentService, settingsService, appSettings, wiring

	SetServices(&Services{
		Index:     ts.index,
		Search:    ts.search,
		Related:   ts.related,
		Documents: ts.docs,
		Settings:  ts.settings,
		Config:    domain.DefaultAppSettings(),
	})
	wiring = nil

	return ts, func() {
		indexService, searchService, relatedService = oldIndex, oldSearch, oldRelated
		documentService, settingsService, appSettings, wiring = oldDocs, oldSettings, oldConfig, oldWiring
	}
}

// execute runs rootCmd with args after resetting every flag to its default.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
