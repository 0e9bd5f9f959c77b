// Package migrations embeds the mesh store's SQL migrations for goose.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
