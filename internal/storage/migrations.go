package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// CurrentSchemaVersion is the schema version a fully migrated database
// reports.
const CurrentSchemaVersion = "1.0.0"

// Migration pairs forward and reverse DDL for one schema version
type Migration struct {
	Version string
	Up      string
	Down    string
}

// AllMigrations lists every migration in ascending version order
var AllMigrations = []Migration{
	{
		Version: "1.0.0",
		Up:      migrationV1Up,
		Down:    migrationV1Down,
	},
}

const migrationV1Up = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Processing results
CREATE TABLE IF NOT EXISTS results (
    id TEXT PRIMARY KEY,
    filename TEXT,
    format TEXT,
    size_bytes INTEGER,
    original_length INTEGER,
    total_chunks INTEGER NOT NULL,
    total_tokens INTEGER NOT NULL,
    total_characters INTEGER NOT NULL,
    processing_time REAL NOT NULL,
    metadata TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_results_created ON results(created_at);
CREATE INDEX IF NOT EXISTS idx_results_filename ON results(filename);

-- Chunks belonging to a result
CREATE TABLE IF NOT EXISTS chunks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    result_id TEXT NOT NULL,
    chunk_index INTEGER NOT NULL,
    content TEXT NOT NULL,
    token_count INTEGER NOT NULL,
    start_position INTEGER NOT NULL,
    end_position INTEGER NOT NULL,
    metadata TEXT,
    FOREIGN KEY (result_id) REFERENCES results(id) ON DELETE CASCADE,
    UNIQUE(result_id, chunk_index)
);

CREATE INDEX IF NOT EXISTS idx_chunks_result ON chunks(result_id);
`

const migrationV1Down = `
DROP TABLE IF EXISTS chunks;
DROP TABLE IF EXISTS results;
DROP TABLE IF EXISTS schema_version;
`

// appliedVersion reads the newest recorded schema version, or 0.0.0
// for a fresh database.
func appliedVersion(ctx context.Context, db *sql.DB) (*semver.Version, error) {
	var name string
	err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&name)
	if err == sql.ErrNoRows {
		return semver.MustParse("0.0.0"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check schema_version table: %w", err)
	}

	var raw string
	err = db.QueryRowContext(ctx,
		"SELECT version FROM schema_version ORDER BY applied_at DESC LIMIT 1").Scan(&raw)
	if err == sql.ErrNoRows || raw == "" {
		return semver.MustParse("0.0.0"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_version: %w", err)
	}

	version, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid schema version %s: %w", raw, err)
	}
	return version, nil
}

// ApplyMigrations brings the database up to the current schema,
// running only the migrations newer than the applied version.
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	current, err := appliedVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range AllMigrations {
		target, err := semver.NewVersion(m.Version)
		if err != nil {
			return fmt.Errorf("invalid migration version %s: %w", m.Version, err)
		}
		if !current.LessThan(target) {
			continue
		}

		if _, err := db.ExecContext(ctx, m.Up); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.Version, err)
		}
		if _, err := db.ExecContext(ctx,
			"INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.Version, err)
		}
		current = target
	}

	return nil
}

// RollbackMigration reverses the most recently applied migration
func RollbackMigration(ctx context.Context, db *sql.DB) error {
	var current string
	err := db.QueryRowContext(ctx,
		"SELECT version FROM schema_version ORDER BY applied_at DESC LIMIT 1").Scan(&current)
	if err != nil {
		return fmt.Errorf("no migrations to rollback: %w", err)
	}

	var down string
	for _, m := range AllMigrations {
		if m.Version == current {
			down = m.Down
			break
		}
	}
	if down == "" {
		return fmt.Errorf("migration %s not found", current)
	}

	if _, err := db.ExecContext(ctx, down); err != nil {
		return fmt.Errorf("failed to rollback migration %s: %w", current, err)
	}
	if _, err := db.ExecContext(ctx,
		"DELETE FROM schema_version WHERE version = ?", current); err != nil {
		return fmt.Errorf("failed to remove migration record %s: %w", current, err)
	}
	return nil
}
