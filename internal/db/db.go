// Package db manages the local call cache database.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Import modernc.org/sqlite as a blank import to register the driver
	_ "modernc.org/sqlite"
)

// schemaVersion is the current cache schema version. An existing file with a
// different version is dropped and recreated rather than migrated: the cache
// holds nothing that cannot be refetched.
const schemaVersion = 1

// StorageError indicates the cache file is unusable. It is fatal to the
// session and surfaced immediately, unlike missing or malformed entries.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("cache storage unusable at %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// DB wraps the SQL database connection with cache-specific methods.
// Multiple process instances may open the same file; WAL mode plus a busy
// timeout and per-operation transactions are the only cross-process
// coordination.
type DB struct {
	*sql.DB
	path string
	now  func() time.Time
}

// New creates a new database connection and initializes the schema.
func New(path string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, &StorageError{Path: path, Err: err}
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Path: path, Err: err}
	}

	if err := sqlDB.PingContext(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, &StorageError{Path: path, Err: err}
	}

	db := &DB{
		DB:   sqlDB,
		path: path,
		now:  time.Now,
	}

	if err := db.configure(); err != nil {
		_ = db.Close()
		return nil, &StorageError{Path: path, Err: err}
	}

	if err := db.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, &StorageError{Path: path, Err: err}
	}

	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// SetClock overrides the timestamp source for fetched_at values. Tests use
// this to pin cache times.
func (db *DB) SetClock(now func() time.Time) {
	if now != nil {
		db.now = now
	}
}

// configure sets up database pragmas. The busy timeout keeps concurrent
// process instances from failing on short-lived write transactions.
func (db *DB) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}

// ensureSchema creates the schema, recreating it when the stored version does
// not match. Recreation loses only cached data that a refresh restores.
func (db *DB) ensureSchema() error {
	version, err := db.storedVersion()
	if err != nil {
		return err
	}

	if version != 0 && version != schemaVersion {
		if err := db.dropSchema(); err != nil {
			return fmt.Errorf("failed to recreate incompatible schema (version %d): %w", version, err)
		}
	}

	return db.createSchema()
}

// storedVersion returns the recorded schema version, or 0 when the file has
// no schema yet. A version that cannot be read is reported as incompatible.
func (db *DB) storedVersion() (int, error) {
	var name string
	err := db.QueryRowContext(context.Background(),
		"SELECT name FROM sqlite_master WHERE type='table' AND name='schema_meta'").Scan(&name)
	if err == sql.ErrNoRows {
		// A calls table without schema_meta is a pre-versioning layout.
		err = db.QueryRowContext(context.Background(),
			"SELECT name FROM sqlite_master WHERE type='table' AND name='calls'").Scan(&name)
		if err == sql.ErrNoRows {
			return 0, nil
		}
		if err != nil {
			return 0, fmt.Errorf("failed to inspect schema: %w", err)
		}
		return -1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to inspect schema: %w", err)
	}

	var version int
	err = db.QueryRowContext(context.Background(), "SELECT version FROM schema_meta LIMIT 1").Scan(&version)
	if err == sql.ErrNoRows {
		return -1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func (db *DB) dropSchema() error {
	stmts := []string{
		"DROP TABLE IF EXISTS calls",
		"DROP TABLE IF EXISTS schema_meta",
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(context.Background(), stmt); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) createSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_meta (
		version INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS calls (
		id TEXT PRIMARY KEY,
		caller TEXT,
		transcript TEXT,
		summary TEXT,
		start TEXT,
		end TEXT,
		cost REAL,
		cost_breakdown TEXT,
		ended_reason TEXT,
		fetched_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_calls_start ON calls(start);
	`
	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return err
	}

	var count int
	if err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM schema_meta").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		_, err := db.ExecContext(context.Background(), "INSERT INTO schema_meta (version) VALUES (?)", schemaVersion)
		return err
	}
	return nil
}

// Close closes the database connection gracefully.
func (db *DB) Close() error {
	// Checkpoint WAL before closing
	_, _ = db.ExecContext(context.Background(), "PRAGMA wal_checkpoint(TRUNCATE)")
	return db.DB.Close()
}

// Vacuum performs database maintenance to reclaim space.
func (db *DB) Vacuum() error {
	_, err := db.ExecContext(context.Background(), "VACUUM")
	return err
}
