// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - DocumentStore: Document and chunk persistence (SQLite)
//   - TextSearcher: Ranked full-text lookup over chunk content (FTS5 BM25)
//   - VectorStore: Embedding persistence keyed by (chunk, model)
//   - EmbeddingService: Text to vector (feature hashing)
//   - PageExtractor: Document bytes to ordered page texts
//   - Extractor: One extraction backend, combined into a PageExtractor chain
//   - Chunker: Merges pages into retrieval units
//   - ConfigStore: Application configuration (TOML)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, extractor, or postprocessor package
package driven
