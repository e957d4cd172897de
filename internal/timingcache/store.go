package timingcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"mixterioso/internal/align"
)

// ErrNotFound is returned when no run matches the requested slug.
var ErrNotFound = errors.New("no cached run for song")

// Run is one persisted alignment run.
type Run struct {
	ID        string
	Slug      string
	Strategy  string
	Coverage  float64
	LineCount int
	CreatedAt time.Time
	Lines     []align.AlignedLine
}

// Store manages timing run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the cache database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, "timings.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id         TEXT PRIMARY KEY,
    slug       TEXT NOT NULL,
    strategy   TEXT NOT NULL,
    coverage   REAL NOT NULL,
    line_count INTEGER NOT NULL,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_slug ON runs(slug, created_at);
CREATE TABLE IF NOT EXISTS run_lines (
    run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    line_index INTEGER NOT NULL,
    start_secs REAL NOT NULL,
    end_secs   REAL NOT NULL,
    text       TEXT NOT NULL,
    matched    INTEGER NOT NULL,
    score      REAL NOT NULL,
    PRIMARY KEY (run_id, line_index)
);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// SaveRun persists one alignment result and returns its generated run ID.
func (s *Store) SaveRun(ctx context.Context, slug string, result align.Result) (string, error) {
	id := uuid.NewString()
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, slug, strategy, coverage, line_count, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		id, slug, result.Strategy, result.Coverage, len(result.Lines), createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, line := range result.Lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_lines (run_id, line_index, start_secs, end_secs, text, matched, score)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, line.Index, line.Start, line.End, line.Text, boolToInt(line.Matched), line.Score,
		)
		if err != nil {
			return "", fmt.Errorf("insert run line %d: %w", line.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save: %w", err)
	}
	return id, nil
}

// Latest returns the most recent run for a song, including its lines.
func (s *Store) Latest(ctx context.Context, slug string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, slug, strategy, coverage, line_count, created_at
         FROM runs WHERE slug = ? ORDER BY created_at DESC LIMIT 1`, slug)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
		}
		return nil, fmt.Errorf("query latest run: %w", err)
	}

	if err := s.loadLines(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// List returns run summaries, newest first, without their line payloads.
func (s *Store) List(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, slug, strategy, coverage, line_count, created_at
         FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Clear removes all cached runs. When slug is non-empty only that song's
// runs are removed; the count of deleted runs is returned.
func (s *Store) Clear(ctx context.Context, slug string) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if slug == "" {
		res, err = s.db.ExecContext(ctx, `DELETE FROM runs`)
	} else {
		res, err = s.db.ExecContext(ctx, `DELETE FROM runs WHERE slug = ?`, slug)
	}
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) loadLines(ctx context.Context, run *Run) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT line_index, start_secs, end_secs, text, matched, score
         FROM run_lines WHERE run_id = ? ORDER BY line_index`, run.ID)
	if err != nil {
		return fmt.Errorf("query run lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			line    align.AlignedLine
			matched int
		)
		if err := rows.Scan(&line.Index, &line.Start, &line.End, &line.Text, &matched, &line.Score); err != nil {
			return fmt.Errorf("scan run line: %w", err)
		}
		line.Matched = matched != 0
		run.Lines = append(run.Lines, line)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run       Run
		createdAt string
	)
	if err := row.Scan(&run.ID, &run.Slug, &run.Strategy, &run.Coverage, &run.LineCount, &createdAt); err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse run timestamp: %w", err)
	}
	run.CreatedAt = ts
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
