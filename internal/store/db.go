package store

import (
	"database/sql"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection to the toolthinker SQLite database.
type DB struct {
	conn *sql.DB
	now  func() time.Time
}

// Option configures a DB.
type Option func(*DB)

// WithClock sets the clock used to stamp created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(db *DB) {
		if now != nil {
			db.now = now
		}
	}
}

// Open opens or creates the SQLite database at the given path.
// It creates the parent directory if it does not exist.
func Open(dbPath string, opts ...Option) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	// WAL lets the watch loop read while the CLI writes.
	conn, err := sql.Open("sqlite", dsn(dbPath, "journal_mode(WAL)", "busy_timeout(5000)"))
	if err != nil {
		return nil, err
	}
	return open(conn, opts)
}

// OpenInMemory opens an in-memory SQLite database, useful for testing.
func OpenInMemory(opts ...Option) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(":memory:"))
	if err != nil {
		return nil, err
	}
	// Every new connection would get its own empty database.
	conn.SetMaxOpenConns(1)

	return open(conn, opts)
}

// dsn appends pragmas that the driver runs on every new connection.
func dsn(path string, pragmas ...string) string {
	pragmas = append([]string{"foreign_keys(1)"}, pragmas...)
	q := url.Values{"_pragma": pragmas}
	return path + "?" + q.Encode()
}

func open(conn *sql.DB, opts []Option) (*DB, error) {
	db := &DB{conn: conn, now: time.Now}
	for _, opt := range opts {
		opt(db)
	}

	if err := db.Migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) stamp() string {
	return formatTime(db.now())
}

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
