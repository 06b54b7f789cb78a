// Package sqlite implements an embedded sqlite connection (pure Go driver, no cgo).
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

const (
	_defaultMaxOpenConns = 1
	_defaultIdleTimeout  = time.Minute
	_defaultBusyTimeout  = 5 * time.Second
)

// SQLite -.
type SQLite struct {
	maxOpenConns int
	idleTimeout  time.Duration
	busyTimeout  time.Duration

	Builder squirrel.StatementBuilderType
	DB      *sql.DB
}

// New opens or creates the database file. ":memory:" opens a private in-memory database.
func New(path string, opts ...Option) (*SQLite, error) {
	s := &SQLite{
		maxOpenConns: _defaultMaxOpenConns,
		idleTimeout:  _defaultIdleTimeout,
		busyTimeout:  _defaultBusyTimeout,
	}

	// Custom options
	for _, opt := range opts {
		opt(s)
	}

	s.Builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite - New - os.MkdirAll: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite - New - sql.Open: %w", err)
	}

	// A single connection serialises writers; an in-memory database also lives in it.
	db.SetMaxOpenConns(s.maxOpenConns)
	db.SetMaxIdleConns(s.maxOpenConns)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(s.idleTimeout)

	pragmas := fmt.Sprintf(`
		PRAGMA foreign_keys = ON;
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = %d;
	`, s.busyTimeout.Milliseconds())

	if _, err = db.Exec(pragmas); err != nil {
		db.Close()

		return nil, fmt.Errorf("sqlite - New - configure database: %w", err)
	}

	s.DB = db

	return s, nil
}

// Close -.
func (s *SQLite) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}
