// Package migrations embeds the SQL migrations of every supported dialect.
package migrations

import "embed"

//go:embed sqlite3/*.sql postgres/*.sql
var FS embed.FS

// Dir returns the directory of [FS] holding the migrations for a goose dialect.
func Dir(dialect string) string { return dialect }
