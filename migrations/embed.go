// Package migrations embeds the SQL migration files for the goose
// programmatic API used by the migrate command and server bootstrap.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
