package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// migrationFS holds the goose SQL migrations that set up the database schema.
// They run on startup to bring the schema to the latest version.
//
//go:embed migrations/*.sql
var migrationFS embed.FS

// runMigrations applies all pending migrations and returns the resulting
// schema version.
func runMigrations(ctx context.Context, db *sql.DB) (int64, error) {
	fsys, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("failed to create migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return 0, fmt.Errorf("goose up: %w", err)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
