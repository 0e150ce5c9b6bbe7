// Package migrations embeds the SQL schema migrations so the binary can
// bootstrap its database without any files on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
