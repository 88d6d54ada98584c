// ABOUTME: SQLite-backed run ledger recording the metadata of every finished playground run.
// ABOUTME: Stores status, timing, and marker counts only; program source is never written.
package runlog

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/2389-research/playpen/editor"
	"github.com/2389-research/playpen/logging"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Entry is one row of the ledger.
type Entry struct {
	RunID       string    `json:"run_id"`
	MountID     string    `json:"mount_id"`
	Page        string    `json:"page"`
	Status      string    `json:"status"`
	DurationMS  int64     `json:"duration_ms"`
	Markers     int       `json:"markers"`
	OutputBytes int       `json:"output_bytes"`
	Truncated   bool      `json:"truncated"`
	Superseded  bool      `json:"superseded"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Ledger persists run records. It implements editor.Observer.
type Ledger struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ editor.Observer = (*Ledger)(nil)

// Open opens or creates the ledger database at path.
func Open(path string, logger *zap.Logger) (*Ledger, error) {
	logger = logging.OrNop(logger)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes observer writes.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			mount_id TEXT NOT NULL,
			page TEXT NOT NULL,
			status TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			markers INTEGER NOT NULL,
			output_bytes INTEGER NOT NULL,
			truncated INTEGER NOT NULL,
			superseded INTEGER NOT NULL,
			finished_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS runs_finished_at ON runs(finished_at);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Ledger{db: db, logger: logger}, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record inserts rec. Recording the same run id twice keeps the latest row.
func (l *Ledger) Record(rec editor.RunRecord) error {
	finished := rec.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	_, err := l.db.Exec(
		`INSERT INTO runs (run_id, mount_id, page, status, duration_ms, markers, output_bytes, truncated, superseded, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(run_id) DO UPDATE SET
			status = excluded.status,
			duration_ms = excluded.duration_ms,
			markers = excluded.markers,
			output_bytes = excluded.output_bytes,
			truncated = excluded.truncated,
			superseded = excluded.superseded,
			finished_at = excluded.finished_at`,
		rec.RunID,
		rec.MountID,
		rec.Page,
		rec.Status.String(),
		rec.Duration.Milliseconds(),
		rec.Markers,
		rec.OutputBytes,
		rec.Truncated,
		rec.Superseded,
		finished.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RunFinished records rec, logging any failure.
func (l *Ledger) RunFinished(rec editor.RunRecord) {
	if err := l.Record(rec); err != nil {
		l.logger.Warn("run ledger write failed", zap.String("run_id", rec.RunID), zap.Error(err))
	}
}

// Recent returns up to limit entries, newest first.
func (l *Ledger) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.Query(
		`SELECT run_id, mount_id, page, status, duration_ms, markers, output_bytes, truncated, superseded, finished_at
		 FROM runs ORDER BY finished_at DESC, run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var finished string
		if err := rows.Scan(&e.RunID, &e.MountID, &e.Page, &e.Status, &e.DurationMS,
			&e.Markers, &e.OutputBytes, &e.Truncated, &e.Superseded, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		e.FinishedAt, err = time.Parse(timeLayout, finished)
		if err != nil {
			return nil, fmt.Errorf("parse finished_at %q: %w", finished, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountByStatus returns the number of completed runs per status. Superseded
// runs are counted under "superseded".
func (l *Ledger) CountByStatus() (map[string]int, error) {
	rows, err := l.db.Query(
		`SELECT CASE WHEN superseded = 1 THEN 'superseded' ELSE status END AS bucket, COUNT(*)
		 FROM runs GROUP BY bucket`)
	if err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var bucket string
		var n int
		if err := rows.Scan(&bucket, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[bucket] = n
	}
	return counts, rows.Err()
}
