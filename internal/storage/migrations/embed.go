package migrations

import "embed"

// FS contains the embedded SQLite migrations for the iodine catalog.
//
//go:embed *.sql
var FS embed.FS
