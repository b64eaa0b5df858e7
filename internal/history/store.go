// Package history persists one summary row per notebundle run in a local
// SQLite database. The history is advisory only: recording failures warn
// but never fail the run that produced them.
package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Run is a single recorded invocation.
type Run struct {
	ID        string
	Mode      string // "collect" or "bundle"
	CreatedAt time.Time
	SourceDir string
	OutputDir string
	Query     string
	Regex     bool
	Days      int
	Limit     int
	// Selected counts collected files (collect mode) or manifest entries
	// (bundle mode)
	Selected   int
	Considered int
	Skipped    int
	Failed     int
}

// Store manages the SQLite run-history database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the history database at dbPath and
// initializes the schema. Use ":memory:" for an ephemeral store.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// busy_timeout first so later statements wait on locks instead of
	// failing when another invocation holds the database
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record inserts a run row. A missing ID or CreatedAt is filled in.
func (s *Store) Record(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO runs
		(id, mode, created_at, source_dir, output_dir, query, regex, days, run_limit, selected, considered, skipped, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query,
		run.ID,
		run.Mode,
		run.CreatedAt,
		run.SourceDir,
		run.OutputDir,
		run.Query,
		run.Regex,
		run.Days,
		run.Limit,
		run.Selected,
		run.Considered,
		run.Skipped,
		run.Failed,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	return nil
}

// Recent returns the most recent runs, newest first. An empty mode returns
// both collect and bundle runs; limit <= 0 means no cap.
func (s *Store) Recent(mode string, limit int) ([]*Run, error) {
	query := `SELECT id, mode, created_at, source_dir, output_dir, query, regex, days, run_limit, selected, considered, skipped, failed
		FROM runs`
	args := []interface{}{}
	if mode != "" {
		query += ` WHERE mode = ?`
		args = append(args, mode)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		err := rows.Scan(
			&run.ID,
			&run.Mode,
			&run.CreatedAt,
			&run.SourceDir,
			&run.OutputDir,
			&run.Query,
			&run.Regex,
			&run.Days,
			&run.Limit,
			&run.Selected,
			&run.Considered,
			&run.Skipped,
			&run.Failed,
		)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}
