package metadata

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/smartnotes/internal/client/migrations"
	"github.com/dmitrijs2005/smartnotes/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// gooseUpContext is a test seam.
var gooseUpContext = goose.UpContext

// Open opens the sqlite file at path, creating its directory when needed,
// and brings its schema up to date.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate session store: %w", err)
	}
	return nil
}
