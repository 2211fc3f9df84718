package domain

import (
	"time"
	"unicode/utf8"
)

// Document represents an ingested source file.
// There is exactly one Document per canonical locator.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Locator is the canonical absolute path of the source file.
	Locator string

	// Fingerprint is the hex SHA-256 of the raw file bytes.
	// A changed fingerprint means every chunk must be rebuilt.
	Fingerprint string

	// Title is the human-readable title.
	Title string

	// MIMEType is the media type used to pick an extractor.
	MIMEType string

	// CreatedAt is when the document was first indexed.
	CreatedAt time.Time

	// UpdatedAt is when the document was last rebuilt.
	UpdatedAt time.Time
}

// Chunk is a retrieval unit: contiguous text covering an inclusive page range.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Position is the ordinal position within the document, starting at 0.
	Position int

	// PageStart is the first page covered by this chunk.
	PageStart int

	// PageEnd is the last page covered by this chunk.
	PageEnd int

	// Content is the text content of this chunk.
	Content string

	// CharCount is the number of characters in Content.
	CharCount int
}

// NewChunk builds a chunk from a span, deriving CharCount from the text.
func NewChunk(id, documentID string, position int, span Span) Chunk {
	return Chunk{
		ID:         id,
		DocumentID: documentID,
		Position:   position,
		PageStart:  span.PageStart,
		PageEnd:    span.PageEnd,
		Content:    span.Text,
		CharCount:  utf8.RuneCountInString(span.Text),
	}
}

// Covers reports whether the chunk's page range contains page.
func (c Chunk) Covers(page int) bool {
	return c.PageStart <= page && c.PageEnd >= page
}

// PageDistance is how far page lies from the chunk's range.
// It is zero when the chunk covers the page.
func (c Chunk) PageDistance(page int) int {
	if c.Covers(page) {
		return 0
	}
	return min(abs(c.PageStart-page), abs(c.PageEnd-page))
}

// Page is one page of extracted text. Numbers start at 1.
type Page struct {
	Number int
	Text   string
}

// Span is a chunker output: merged text for an inclusive page range.
type Span struct {
	PageStart int
	PageEnd   int
	Text      string
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
