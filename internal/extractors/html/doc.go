// Package html extracts readable text from HTML documents.
// Scripts, styles and markup are stripped and entities decoded so the
// remaining text is clean for full-text and semantic search.
package html
