// Package migrations contains embedded SQL migrations for the SQLite store.
package migrations

import "embed"

//go:embed trips/*.sql
var TripsFS embed.FS
