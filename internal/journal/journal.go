// Package journal persists an audit trail of gate outcomes to SQLite.
//
// The journal is write-only from the gate's perspective: it is never
// consulted to deduplicate deliveries or detect replays. It exists so
// operators can answer "what did we receive and what happened to it"
// after the fact, via `hookgate deliveries list`.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Outcome values recorded per delivery.
const (
	OutcomeAccepted     = "accepted"
	OutcomeUnauthorized = "unauthorized"
	OutcomeMalformed    = "malformed"
	OutcomeDispatchFail = "dispatch_failed"
)

// Entry is a single journal row.
type Entry struct {
	ID         string
	DeliveryID string
	Event      string
	Action     string
	Outcome    string
	Error      string
	ReceivedAt time.Time
}

// Journal records gate outcomes to a SQLite database.
type Journal struct {
	db *sql.DB
}

// Open opens (and creates if needed) the journal database at path and
// ensures the deliveries table exists.
func Open(ctx context.Context, path string) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("journal path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Basic health check + apply a few safe pragmas.
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(pctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}

	if err := bootstrap(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Journal{db: db}, nil
}

// bootstrap creates the deliveries table and index if missing.
func bootstrap(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS deliveries (
  id          TEXT PRIMARY KEY,
  delivery_id TEXT,
  event       TEXT,
  action      TEXT,
  outcome     TEXT NOT NULL,
  error       TEXT,
  received_at TEXT NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS deliveries_received_at_idx ON deliveries(received_at);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap journal: %w", err)
		}
	}
	return nil
}

// Record inserts a journal entry. The row id and timestamp are assigned here;
// callers only describe the outcome.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.Outcome == "" {
		return fmt.Errorf("outcome is empty")
	}

	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := j.db.ExecContext(ctx, `
INSERT INTO deliveries(id, delivery_id, event, action, outcome, error, received_at)
VALUES(?, ?, ?, ?, ?, ?, ?);
`, id, e.DeliveryID, e.Event, e.Action, e.Outcome, e.Error, now)
	if err != nil {
		return fmt.Errorf("record delivery: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.QueryContext(ctx, `
SELECT id, delivery_id, event, action, outcome, error, received_at
FROM deliveries
ORDER BY received_at DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var receivedAt string
		if err := rows.Scan(&e.ID, &e.DeliveryID, &e.Event, &e.Action, &e.Outcome, &e.Error, &receivedAt); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, receivedAt); err == nil {
			e.ReceivedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
