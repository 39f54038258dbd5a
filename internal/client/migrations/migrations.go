// Package migrations embeds the goose SQL migrations for the holder's
// local SQLite journal.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
