// Package migrations holds the SQL schema applied at startup by the database
// migration runner. Files are applied in lexical order and recorded in
// schema_migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
