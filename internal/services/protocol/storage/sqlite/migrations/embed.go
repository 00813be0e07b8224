// Package migrations embeds the protocol SQLite schema.
package migrations

import "embed"

// FS holds the protocol schema migrations.
//
//go:embed *.sql
var FS embed.FS
