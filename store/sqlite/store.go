package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite" // register the cgo-free sqlite driver

	qonos "github.com/frielp/qonos"
	"github.com/frielp/qonos/fault"
	"github.com/frielp/qonos/job"
	"github.com/frielp/qonos/schedule"
)

// Ensure Store implements all subsystem interfaces at compile time.
var (
	_ schedule.Store = (*Store)(nil)
	_ job.Store      = (*Store)(nil)
	_ fault.Store    = (*Store)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS qonos_schedules (
	id         TEXT PRIMARY KEY,
	tenant_id  TEXT NOT NULL,
	action     TEXT NOT NULL,
	metadata   TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS qonos_jobs (
	id          TEXT PRIMARY KEY,
	schedule_id TEXT NOT NULL,
	tenant_id   TEXT NOT NULL,
	action      TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'QUEUED',
	worker_id   TEXT,
	timeout     TEXT,
	metadata    TEXT NOT NULL DEFAULT '[]',
	version     INTEGER NOT NULL DEFAULT 1,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_qonos_jobs_schedule ON qonos_jobs (schedule_id);

CREATE TABLE IF NOT EXISTS qonos_faults (
	id          TEXT PRIMARY KEY,
	job_id      TEXT NOT NULL,
	schedule_id TEXT NOT NULL,
	tenant_id   TEXT NOT NULL,
	action      TEXT NOT NULL,
	worker_id   TEXT NOT NULL DEFAULT 'UNASSIGNED',
	metadata    TEXT NOT NULL DEFAULT '{}',
	message     TEXT,
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_qonos_faults_job ON qonos_faults (job_id);
`

// Store is a SQLite implementation of store.Store built on database/sql
// with the cgo-free modernc driver. Suited to single-node deployments;
// the write path serializes on SQLite's own locking.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a new SQLite store. The dsn is a file path or ":memory:".
func New(dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("qonos/sqlite: open: %w", err)
	}

	// A single writer avoids SQLITE_BUSY under concurrent load.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;`); err != nil {
		return nil, fmt.Errorf("qonos/sqlite: set pragmas: %w", err)
	}

	s := &Store{
		db:     db,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// DB returns the underlying *sql.DB for advanced usage.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("qonos/sqlite: migrate: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ── helpers ──────────────────────────────────────────────────────

// isNoRows returns true when err indicates no rows were found.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isDuplicateKey checks if a SQLite error is a unique constraint violation.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Timestamps are stored as RFC 3339 text so lexical order matches
// chronological order.
const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// encodeMetadata renders the ordered pair list as a JSON column value.
func encodeMetadata(m qonos.Metadata) (string, error) {
	if m == nil {
		return "[]", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeMetadata parses a JSON column back into the ordered pair list.
func decodeMetadata(raw string) (qonos.Metadata, error) {
	if raw == "" {
		return nil, nil
	}
	var m qonos.Metadata
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	if len(m) == 0 {
		return nil, nil
	}
	return m, nil
}
