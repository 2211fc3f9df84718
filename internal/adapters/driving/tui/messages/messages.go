// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/membox/internal/core/domain"
	"github.com/custodia-labs/membox/internal/core/ports/driving"
)

// SearchCompleted carries a search response back to the model.
type SearchCompleted struct {
	Response *domain.SearchResponse
	Err      error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the query input and hit list.
	ViewSearch ViewType = iota
	// ViewDocContent shows the extracted text of a document.
	ViewDocContent
	// ViewDocDetails shows document metadata.
	ViewDocDetails
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewDocContent:
		return "doc_content"
	case ViewDocDetails:
		return "doc_details"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// HitOpened asks the app to show the document behind a hit.
type HitOpened struct {
	Hit domain.SearchHit
}

// DetailsRequested asks the app to show metadata for a hit's document.
type DetailsRequested struct {
	DocumentID string
}

// DocumentContentLoaded carries the content of a document.
type DocumentContentLoaded struct {
	DocumentID string
	Content    string
	Err        error
}

// DocumentDetailsLoaded carries the metadata of a document.
type DocumentDetailsLoaded struct {
	DocumentID string
	Details    *driving.DocumentDetails
	Err        error
}
