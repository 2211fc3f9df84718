// Package migrations holds the schema for the SQLite index.
package migrations

import "embed"

// FS holds the numbered up/down scripts applied by the store on open.
//
//go:embed *.sql
var FS embed.FS
