// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/groupledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	version int64
	now     func() time.Time
}

// Option configures a SQLiteStore.
type Option func(*options)

type options struct {
	busyTimeout time.Duration
	now         func() time.Time
}

// WithBusyTimeout sets how long a writer waits for the database lock before
// failing. Defaults to 5s.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) { o.busyTimeout = d }
}

// WithClock overrides the clock used for generated timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string, opts ...Option) (*SQLiteStore, error) {
	o := options{busyTimeout: 5 * time.Second, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath, o.busyTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	version, err := runMigrations(context.Background(), db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, version: version, now: o.now}, nil
}

// dsn builds a modernc.org/sqlite connection string. Pragmas in the DSN
// apply to every pooled connection; immediate transactions take the write
// lock on BEGIN so writers queue on busy_timeout.
func dsn(dbPath string, busyTimeout time.Duration) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	q.Add("_pragma", "journal_mode(WAL)")
	q.Set("_txlock", "immediate")
	return "file:" + dbPath + "?" + q.Encode()
}

// SchemaVersion returns the migration version the database is at.
func (s *SQLiteStore) SchemaVersion() int64 {
	return s.version
}

// Ping verifies the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storage.Wrap("ping", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a transaction, committing on success. Any error is
// reported as a *storage.PersistenceError unless it is a domain sentinel.
func (s *SQLiteStore) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return storage.Wrap(op, err)
	}

	if err := tx.Commit(); err != nil {
		return storage.Wrap(op, fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func groupExists(ctx context.Context, q queryer, groupID string) (bool, error) {
	var exists int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", groupID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check group existence: %w", err)
	}
	return true, nil
}

func isMember(ctx context.Context, q queryer, groupID, userID string) (bool, error) {
	var exists int
	err := q.QueryRowContext(ctx,
		"SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return true, nil
}
