package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when nothing is stored for the requested day.
var ErrNotFound = errors.New("not found")

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New opens the SQLite database at dataSourceName and applies the schema.
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serialises writers; one connection also keeps ":memory:" on a
	// single database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &DB{db}
	if err := store.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// RunMigrations creates the schema. It is safe to run on an existing database.
func (db *DB) RunMigrations() error {
	migration := `
-- Projects seen by any run
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    created_by TEXT NOT NULL DEFAULT '',
    created_epoch INTEGER NOT NULL DEFAULT 0,
    first_seen TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Billing days
CREATE TABLE IF NOT EXISTS dates (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    day TEXT NOT NULL UNIQUE
);

-- One row per project per day
CREATE TABLE IF NOT EXISTS storage_costs (
    project_id TEXT NOT NULL,
    date_id INTEGER NOT NULL,
    unique_size_live INTEGER NOT NULL DEFAULT 0,
    unique_cost_live REAL NOT NULL DEFAULT 0,
    unique_size_archived INTEGER NOT NULL DEFAULT 0,
    unique_cost_archived REAL NOT NULL DEFAULT 0,
    total_size_live INTEGER NOT NULL DEFAULT 0,
    total_cost_live REAL NOT NULL DEFAULT 0,
    total_size_archived INTEGER NOT NULL DEFAULT 0,
    total_cost_archived REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (project_id, date_id),
    FOREIGN KEY (project_id) REFERENCES projects(id),
    FOREIGN KEY (date_id) REFERENCES dates(id)
);
CREATE INDEX IF NOT EXISTS idx_storage_costs_date ON storage_costs(date_id);

-- Run log
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    date_id INTEGER NOT NULL,
    days_in_month INTEGER NOT NULL,
    live_rate REAL NOT NULL,
    archived_rate REAL NOT NULL,
    projects INTEGER NOT NULL,
    file_records INTEGER NOT NULL,
    distinct_files INTEGER NOT NULL,
    empty_projects INTEGER NOT NULL,
    failed_projects INTEGER NOT NULL,
    dropped_from_unique INTEGER NOT NULL,
    orphan_records INTEGER NOT NULL,
    state_anomalies INTEGER NOT NULL,
    unique_size INTEGER NOT NULL,
    unique_cost REAL NOT NULL,
    total_size INTEGER NOT NULL,
    total_cost REAL NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (date_id) REFERENCES dates(id)
);
CREATE INDEX IF NOT EXISTS idx_runs_date ON runs(date_id);
`

	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
