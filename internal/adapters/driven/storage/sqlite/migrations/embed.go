// Package migrations holds the schema migration files for the document
// store, applied in lexical order at startup.
package migrations

import "embed"

// FS is the embedded set of *.up.sql migration files.
//
//go:embed *.sql
var FS embed.FS
