package mcp

import (
	"github.com/custodia-labs/membox/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides search capabilities.
	Search driving.SearchService

	// Related finds semantically similar chunks. Optional.
	Related driving.RelatedService

	// Index ingests and reindexes files. Optional.
	Index driving.IndexService

	// Document exposes indexed documents as resources. Optional.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
