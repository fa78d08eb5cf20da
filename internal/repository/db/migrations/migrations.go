package migrations

import "embed"

// SQLite holds goose migrations for the sqlite driver.
//
//go:embed sqlite3/*.sql
var SQLite embed.FS

// Postgres holds goose migrations for the pgx driver.
//
//go:embed postgres/*.sql
var Postgres embed.FS
