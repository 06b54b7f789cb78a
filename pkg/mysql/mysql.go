// Package mysql implements mysql connection.
package mysql

import (
	"fmt"
	"log"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

const (
	_defaultMaxOpenConns = 10
	_defaultMaxIdleConns = 2
	_defaultIdleTimeout  = time.Minute
	_defaultConnAttempts = 10
	_defaultConnTimeout  = time.Second
)

// Mysql -.
type Mysql struct {
	maxOpenConns int
	maxIdleConns int
	idleTimeout  time.Duration
	connAttempts int
	connTimeout  time.Duration

	Builder squirrel.StatementBuilderType
	DB      *sqlx.DB
}

// New connects to the DSN, e.g. "user:pass@tcp(localhost:3306)/calls".
func New(dsn string, opts ...Option) (*Mysql, error) {
	ms := &Mysql{
		maxOpenConns: _defaultMaxOpenConns,
		maxIdleConns: _defaultMaxIdleConns,
		idleTimeout:  _defaultIdleTimeout,
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
	}

	// Custom options
	for _, opt := range opts {
		opt(ms)
	}

	ms.Builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql - New - mysql.ParseDSN: %w", err)
	}

	// Rows matched, not rows changed: rewriting a column with its own value counts.
	cfg.ClientFoundRows = true
	cfg.ParseTime = true

	for ms.connAttempts > 0 {
		ms.DB, err = sqlx.Connect("mysql", cfg.FormatDSN())
		if err == nil {
			break
		}

		log.Printf("Mysql is trying to connect, attempts left: %d", ms.connAttempts)

		time.Sleep(ms.connTimeout)

		ms.connAttempts--
	}

	if err != nil {
		return nil, fmt.Errorf("mysql - New - connAttempts == 0: %w", err)
	}

	ms.DB.SetMaxOpenConns(ms.maxOpenConns)
	ms.DB.SetMaxIdleConns(ms.maxIdleConns)
	ms.DB.SetConnMaxLifetime(0)
	ms.DB.SetConnMaxIdleTime(ms.idleTimeout)

	return ms, nil
}

// Close -.
func (p *Mysql) Close() {
	if p.DB != nil {
		p.DB.Close()
	}
}
