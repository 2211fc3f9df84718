// Package mcp provides an MCP (Model Context Protocol) server adapter for membox.
// It lets AI assistants search, relate and ingest local documents.
package mcp

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/membox/internal/core/domain"
)

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

var errMissingPath = fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
