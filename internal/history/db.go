// Package history records completed folder syncs in a local sqlite
// database so past runs can be inspected with `driveback history`.
package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the run-history database.
type DB struct {
	db *sql.DB
}

// Open opens (and migrates) the history database at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	instance := &DB{db: db}
	if err := instance.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return instance, nil
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) Migrate(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, schemaSQL)
	return err
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sync_runs (
	id TEXT PRIMARY KEY,
	job TEXT NOT NULL,
	folder TEXT NOT NULL,
	started INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	downloaded INTEGER NOT NULL,
	deleted INTEGER NOT NULL,
	skipped INTEGER NOT NULL,
	errors INTEGER NOT NULL,
	dry_run INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_sync_runs_job ON sync_runs(job, started);
`
