// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history archives reconciliation runs in a local SQLite database
// so past breaks can be inspected after the recon.out file has been
// overwritten.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/jcenglish/recon/internal/recon"
	"github.com/jcenglish/recon/pkg/types"
)

const dbFile = "history.db"

// Run is one archived reconciliation run.
type Run struct {
	ID         int64         `json:"id" yaml:"id"`
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
	InputPath  string        `json:"input" yaml:"input"`
	OutputPath string        `json:"output" yaml:"output"`
	Summary    recon.Summary `json:"summary" yaml:"summary"`
	Breaks     []types.Break `json:"breaks,omitempty" yaml:"breaks,omitempty"`
}

// ErrRunNotFound is returned when a run ID is not in the archive.
var ErrRunNotFound = errors.New("run not found")

// Store manages the run archive SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the archive database at dir/history.db,
// creating the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
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
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			input_path TEXT NOT NULL,
			output_path TEXT NOT NULL,
			positions INTEGER NOT NULL,
			transactions INTEGER NOT NULL,
			breaks INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS breaks (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			symbol TEXT NOT NULL,
			shares TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_breaks_run_id ON breaks(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts a run and its breaks in one transaction and returns the
// assigned run ID.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, input_path, output_path, positions, transactions, breaks)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.InputPath, run.OutputPath,
		run.Summary.Positions, run.Summary.Transactions, run.Summary.Breaks,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO breaks (run_id, symbol, shares) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing break insert: %w", err)
	}
	defer stmt.Close()

	for _, br := range run.Breaks {
		if _, err := stmt.ExecContext(ctx, id, br.Symbol, br.Shares.String()); err != nil {
			return 0, fmt.Errorf("inserting break %s: %w", br.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// List returns the most recent runs, newest first, without their breaks.
// A limit of zero uses the store default.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, input_path, output_path, positions, transactions, breaks
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns a single run including its breaks.
func (s *Store) Get(ctx context.Context, id int64) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, input_path, output_path, positions, transactions, breaks
		 FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT symbol, shares FROM breaks WHERE run_id = ? ORDER BY symbol`, id)
	if err != nil {
		return nil, fmt.Errorf("querying breaks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var symbol, shares string
		if err := rows.Scan(&symbol, &shares); err != nil {
			return nil, fmt.Errorf("scanning break: %w", err)
		}
		d, err := decimal.NewFromString(shares)
		if err != nil {
			return nil, fmt.Errorf("stored shares %q for %s: %w", shares, symbol, err)
		}
		run.Breaks = append(run.Breaks, types.Break{Symbol: symbol, Shares: d})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &run, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run       Run
		startedAt string
	)
	err := sc.Scan(&run.ID, &startedAt, &run.InputPath, &run.OutputPath,
		&run.Summary.Positions, &run.Summary.Transactions, &run.Summary.Breaks)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return run, err
		}
		return run, fmt.Errorf("scanning run: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return run, fmt.Errorf("stored timestamp %q: %w", startedAt, err)
	}
	run.StartedAt = ts
	return run, nil
}
