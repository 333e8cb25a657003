// Package migrations embeds the schema of the CLI's local session store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
