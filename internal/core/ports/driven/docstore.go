package driven

import (
	"context"

	"github.com/custodia-labs/membox/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite for metadata storage.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentByLocator retrieves a document by canonical locator.
	GetDocumentByLocator(ctx context.Context, locator string) (*domain.Document, error)

	// ListDocuments returns all documents ordered by creation time.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document with its chunks and embeddings.
	DeleteDocument(ctx context.Context, id string) error

	// ReplaceDocument saves the document and swaps its whole chunk set
	// atomically: old chunks (and their embeddings) are deleted and the new
	// ones inserted in a single transaction.
	ReplaceDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error

	// GetChunks retrieves all chunks for a document ordered by position.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// ChunkForPage returns the chunk whose page range contains page,
	// or the nearest one by page distance when none does.
	ChunkForPage(ctx context.Context, documentID string, page int) (*domain.Chunk, error)

	// ChunksMissingEmbedding returns chunks with no vector for model.
	// An empty documentID means every document.
	ChunksMissingEmbedding(ctx context.Context, documentID, model string) ([]domain.Chunk, error)

	// CountChunks returns the number of chunks for a document.
	CountChunks(ctx context.Context, documentID string) (int, error)
}
