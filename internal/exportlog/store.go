// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package exportlog tracks batch-exported annotation documents in a SQLite
// database so unchanged items are skipped on the next run.
package exportlog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "exports.db"

// Store manages the export-tracking SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the export database at stateDir/exports.db,
// creating the directory and schema as needed.
func NewStore(stateDir string) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	dbPath := filepath.Join(stateDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS exports (
		item_id TEXT NOT NULL,
		format TEXT NOT NULL,
		citation_key TEXT,
		output_path TEXT NOT NULL,
		content_sha256 TEXT NOT NULL,
		rendered_at TEXT NOT NULL,
		PRIMARY KEY (item_id, format)
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// ContentSum returns the hex SHA-256 of a rendered document. Exports are
// skipped when the sum matches the previous run.
func ContentSum(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Unchanged reports whether the item was already exported in this format
// with the same content sum.
func (s *Store) Unchanged(ctx context.Context, itemID, format, contentSum string) (bool, error) {
	var stored string
	err := s.db.QueryRowContext(ctx,
		`SELECT content_sha256 FROM exports WHERE item_id = ? AND format = ?`,
		itemID, format,
	).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying export status: %w", err)
	}
	return stored == contentSum, nil
}

// Record is one exported document.
type Record struct {
	ItemID      string
	Format      string
	CitationKey string
	OutputPath  string
	ContentSum  string
}

// Put upserts the export record, stamping the render time.
func (s *Store) Put(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exports (item_id, format, citation_key, output_path, content_sha256, rendered_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(item_id, format) DO UPDATE SET
			citation_key=excluded.citation_key, output_path=excluded.output_path,
			content_sha256=excluded.content_sha256, rendered_at=excluded.rendered_at`,
		rec.ItemID, rec.Format, rec.CitationKey, rec.OutputPath, rec.ContentSum,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording export of %s: %w", rec.ItemID, err)
	}
	return nil
}

// Summary holds counts from one export run.
type Summary struct {
	Written int
	Skipped int
	Failed  int
}

// Total returns the number of items processed.
func (s Summary) Total() int {
	return s.Written + s.Skipped + s.Failed
}
