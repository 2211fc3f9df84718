// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements three stores over a
// single database file:
//
//   - DocumentStore: documents and their chunks
//   - TextSearcher: FTS5 full-text search with BM25 ranking and snippets
//   - VectorStore: embeddings keyed by (chunk, model)
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// The chunks_fts table is kept in step with chunks by triggers, so every write
// path that touches chunks also updates the full-text index.
//
// # Data Location
//
// By default, the database is stored at ~/.membox/data/membox.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. The pool holds a single
// connection, so writes are serialised and readers never see a half-replaced
// document.
package sqlite
