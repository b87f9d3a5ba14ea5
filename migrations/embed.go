// Package migrations embeds the SQL migrations of the postgres storage backend.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
