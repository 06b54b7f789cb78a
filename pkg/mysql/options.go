package mysql

import "time"

// Option -.
type Option func(*Mysql)

// MaxOpenConns -.
func MaxOpenConns(n int) Option {
	return func(c *Mysql) {
		c.maxOpenConns = n
	}
}

// MaxIdleConns -.
func MaxIdleConns(n int) Option {
	return func(c *Mysql) {
		c.maxIdleConns = n
	}
}

// IdleTimeout -.
func IdleTimeout(timeout time.Duration) Option {
	return func(c *Mysql) {
		c.idleTimeout = timeout
	}
}

// ConnAttempts -.
func ConnAttempts(attempts int) Option {
	return func(c *Mysql) {
		c.connAttempts = attempts
	}
}

// ConnTimeout -.
func ConnTimeout(timeout time.Duration) Option {
	return func(c *Mysql) {
		c.connTimeout = timeout
	}
}
