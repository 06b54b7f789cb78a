// Package migrations embeds the postgres schema migrations.
package migrations

import "embed"

// FS -.
//
//go:embed *.sql
var FS embed.FS
