// Package migrations embeds the SQL migrations of the contacts database.
package migrations

import "embed"

// FS holds the migration files at its root, as expected by golang-migrate's iofs source.
//
//go:embed *.sql
var FS embed.FS
