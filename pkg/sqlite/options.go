package sqlite

import "time"

// Option -.
type Option func(*SQLite)

// MaxOpenConns -.
func MaxOpenConns(n int) Option {
	return func(c *SQLite) {
		c.maxOpenConns = n
	}
}

// IdleTimeout -.
func IdleTimeout(timeout time.Duration) Option {
	return func(c *SQLite) {
		c.idleTimeout = timeout
	}
}

// BusyTimeout -.
func BusyTimeout(timeout time.Duration) Option {
	return func(c *SQLite) {
		c.busyTimeout = timeout
	}
}
