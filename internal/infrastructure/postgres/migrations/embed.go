// Package migrations embebe los scripts SQL del esquema PostgreSQL.
package migrations

import "embed"

// FS contiene los archivos NNN_nombre.up.sql.
//
//go:embed *.sql
var FS embed.FS
