// Package sqlite embeds the migrations for the local itinerary store.
package sqlite

import "embed"

// FS holds the SQLite migration files.
//
//go:embed *.sql
var FS embed.FS
