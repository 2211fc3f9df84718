package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driven"
	"github.com/custodia-labs/membox/internal/vector"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

type vectorKey struct {
	chunkID string
	model   string
}

// VectorStore is an in-memory implementation of driven.VectorStore.
// Rows keep first-insertion order, like rowid order in SQLite.
type VectorStore struct {
	mu      sync.RWMutex
	order   []vectorKey
	vectors map[vectorKey]domain.Embedding
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{vectors: make(map[vectorKey]domain.Embedding)}
}

// Upsert inserts or replaces each embedding.
func (s *VectorStore) Upsert(_ context.Context, embeddings []domain.Embedding) error {
	for _, e := range embeddings {
		if e.Model == "" || e.Dim <= 0 {
			return domain.ErrInvalidInput
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range embeddings {
		key := vectorKey{chunkID: e.ChunkID, model: e.Model}
		if _, ok := s.vectors[key]; !ok {
			s.order = append(s.order, key)
		}
		e.Vector = append([]float32(nil), e.Vector...)
		s.vectors[key] = e
	}
	return nil
}

// FetchAll returns every vector for model fitted to the first row's dimension.
func (s *VectorStore) FetchAll(_ context.Context, model string) (*domain.EmbeddingMatrix, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := &domain.EmbeddingMatrix{IDs: []string{}, Data: []float32{}}
	for _, key := range s.order {
		if key.model != model {
			continue
		}
		e := s.vectors[key]
		if m.Dim == 0 {
			m.Dim = e.Dim
		}
		m.IDs = append(m.IDs, key.chunkID)
		m.Data = append(m.Data, vector.Fit(e.Vector, m.Dim)...)
	}
	return m, nil
}

// Count returns the number of stored vectors for model.
func (s *VectorStore) Count(_ context.Context, model string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for key := range s.vectors {
		if key.model == model {
			n++
		}
	}
	return n, nil
}

func (s *VectorStore) has(chunkID, model string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.vectors[vectorKey{chunkID: chunkID, model: model}]
	return ok
}

func (s *VectorStore) deleteChunks(chunkIDs []string) {
	if len(chunkIDs) == 0 {
		return
	}
	drop := make(map[string]bool, len(chunkIDs))
	for _, id := range chunkIDs {
		drop[id] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.order[:0]
	for _, key := range s.order {
		if drop[key.chunkID] {
			delete(s.vectors, key)
			continue
		}
		kept = append(kept, key)
	}
	s.order = kept
}
