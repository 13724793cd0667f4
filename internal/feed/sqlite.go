// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/morganforge/dataguard/internal/detection"
)

// Schema is the table an external scanner writes findings into.
const Schema = `
CREATE TABLE IF NOT EXISTS detections (
    id         TEXT PRIMARY KEY,
    ts         TEXT NOT NULL DEFAULT '',
    value      TEXT NOT NULL,
    type       TEXT NOT NULL,
    source     TEXT NOT NULL DEFAULT '',
    confidence REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_detections_ts ON detections(ts);
`

const selectDetections = `
SELECT id, ts, value, type, source, confidence
FROM detections
ORDER BY ts DESC, rowid`

// SQLite reads detections from a scanner database.
type SQLite struct {
	Path   string
	logger *slog.Logger
}

// NewSQLite creates a SQLite source.
func NewSQLite(path string, logger *slog.Logger) *SQLite {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLite{Path: path, logger: logger}
}

// Name implements Source.
func (s *SQLite) Name() string { return "sqlite:" + s.Path }

// Load implements Source.
func (s *SQLite) Load(ctx context.Context) ([]detection.Detection, error) {
	db, err := openReadOnly(s.Path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, selectDetections)
	if err != nil {
		return nil, fmt.Errorf("query detections: %w", err)
	}
	defer rows.Close()

	var recs []record
	for rows.Next() {
		var r record
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Value, &r.Type, &r.Source, &r.Confidence); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate detections: %w", err)
	}

	return normalizeAll(ctx, recs, s.Name(), s.logger)
}

// openReadOnly opens an existing scanner database without changing its
// journal mode. A missing file is an error rather than a new database.
func openReadOnly(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// openDB opens path for writing, creating it if needed.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}
	return db, nil
}

// WriteSQLite creates the schema at path and inserts ds. Existing rows with
// the same id are replaced.
func WriteSQLite(ctx context.Context, path string, ds []detection.Detection) error {
	db, err := openDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO detections (id, ts, value, type, source, confidence)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range ds {
		ts := ""
		if !d.Timestamp.IsZero() {
			ts = d.Timestamp.Format(time.RFC3339)
		}
		if _, err := stmt.ExecContext(ctx, d.ID, ts, d.Value, string(d.Type), d.Source, d.Confidence); err != nil {
			return fmt.Errorf("insert %s: %w", d.ID, err)
		}
	}
	return tx.Commit()
}
