package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/membox/internal/core/domain"
)

// DocumentService exposes ingested documents.
type DocumentService interface {
	// List returns all documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID or by locator.
	Get(ctx context.Context, ref string) (*domain.Document, error)

	// GetContent returns the concatenated content of all chunks.
	GetContent(ctx context.Context, documentID string) (string, error)

	// GetDetails returns metadata for display.
	GetDetails(ctx context.Context, documentID string) (*DocumentDetails, error)

	// Delete removes a document by ID or locator along with its chunks.
	Delete(ctx context.Context, ref string) error
}

// DocumentDetails provides a standardised view of document metadata.
type DocumentDetails struct {
	// ID is the unique document identifier.
	ID string `json:"id"`

	// Title is the document title.
	Title string `json:"title"`

	// Locator is the canonical path.
	Locator string `json:"path"`

	// MIMEType is the detected media type.
	MIMEType string `json:"mime_type"`

	// Fingerprint is the content hash.
	Fingerprint string `json:"fingerprint"`

	// ChunkCount is the number of chunks.
	ChunkCount int `json:"chunk_count"`

	// PageCount is the last page covered by any chunk.
	PageCount int `json:"page_count"`

	// CreatedAt is when the document was first indexed.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the document was last rebuilt.
	UpdatedAt time.Time `json:"updated_at"`
}
