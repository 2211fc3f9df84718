// Package services implements the driving ports: indexing, lexical and
// semantic search, related-chunk retrieval, document management and
// settings. Services depend only on driven ports, so every storage and
// embedding backend can be swapped for the in-memory ones in tests.
package services
