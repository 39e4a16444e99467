// Package appfs exposes the files embedded in the binaries: email & prompt templates,
// problem pools, the curated catalog and the database migrations.
package appfs

import "embed"

//go:embed all:assets migrations
var FS embed.FS

// Migration directories, per database engine.
const (
	PostgresMigrations = "migrations/postgres"
	SQLiteMigrations   = "migrations/sqlite"
)
