// Package domain defines the core business entities for membox.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested source file identified by its locator
//   - Chunk: A retrieval unit spanning one or more pages of a document
//   - Embedding: A vector derived from a chunk under a named model
//   - Page: One page of extracted text
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
