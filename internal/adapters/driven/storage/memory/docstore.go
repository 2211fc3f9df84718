package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// Deleting or replacing a document also drops vectors in the linked VectorStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk
	vectors   *VectorStore
}

// NewDocumentStore creates a new in-memory document store.
// vectors may be nil when embeddings are not needed.
func NewDocumentStore(vectors *VectorStore) *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
		vectors:   vectors,
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putDocument(doc)
}

func (s *DocumentStore) putDocument(doc *domain.Document) error {
	for id, existing := range s.documents {
		if id != doc.ID && existing.Locator == doc.Locator {
			return domain.ErrInvalidInput
		}
	}
	if existing, ok := s.documents[doc.ID]; ok {
		stored := *doc
		stored.CreatedAt = existing.CreatedAt
		s.documents[doc.ID] = stored
		return nil
	}
	s.documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetDocumentByLocator retrieves a document by canonical locator.
func (s *DocumentStore) GetDocumentByLocator(_ context.Context, locator string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.documents {
		if doc.Locator == locator {
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListDocuments returns all documents, oldest first.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		result = append(result, doc)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].Locator < result[j].Locator
	})
	return result, nil
}

// DeleteDocument removes a document, its chunks and their vectors.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	s.dropChunks(id)
	delete(s.documents, id)
	return nil
}

// ReplaceDocument saves the document and swaps its chunk set.
func (s *DocumentStore) ReplaceDocument(_ context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	for _, c := range chunks {
		if c.DocumentID != doc.ID {
			return domain.ErrInvalidInput
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.putDocument(doc); err != nil {
		return err
	}
	s.dropChunks(doc.ID)
	s.chunks[doc.ID] = append([]domain.Chunk(nil), chunks...)
	return nil
}

func (s *DocumentStore) dropChunks(documentID string) {
	if s.vectors != nil {
		ids := make([]string, 0, len(s.chunks[documentID]))
		for _, c := range s.chunks[documentID] {
			ids = append(ids, c.ID)
		}
		s.vectors.deleteChunks(ids)
	}
	delete(s.chunks, documentID)
}

// GetChunks retrieves all chunks for a document ordered by position.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Chunk{}, s.chunks[documentID]...), nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *DocumentStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, chunks := range s.chunks {
		for _, chunk := range chunks {
			if chunk.ID == id {
				return &chunk, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// ChunkForPage returns the chunk covering page, or the nearest one.
func (s *DocumentStore) ChunkForPage(_ context.Context, documentID string, page int) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *domain.Chunk
	for i := range s.chunks[documentID] {
		c := s.chunks[documentID][i]
		if best == nil || c.PageDistance(page) < best.PageDistance(page) {
			best = &c
		}
	}
	if best == nil {
		return nil, domain.ErrNotFound
	}
	return best, nil
}

// ChunksMissingEmbedding returns chunks with no vector stored for model.
func (s *DocumentStore) ChunksMissingEmbedding(_ context.Context, documentID, model string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docIDs := []string{documentID}
	if documentID == "" {
		docIDs = docIDs[:0]
		for id := range s.chunks {
			docIDs = append(docIDs, id)
		}
		sort.Strings(docIDs)
	}

	missing := []domain.Chunk{}
	for _, id := range docIDs {
		for _, c := range s.chunks[id] {
			if s.vectors == nil || !s.vectors.has(c.ID, model) {
				missing = append(missing, c)
			}
		}
	}
	return missing, nil
}

// CountChunks returns the number of chunks for a document.
func (s *DocumentStore) CountChunks(_ context.Context, documentID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks[documentID]), nil
}
