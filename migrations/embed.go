package migrations

import "embed"

// Files holds the forward-only schema migrations for the label store.
//
//go:embed *.sql
var Files embed.FS
