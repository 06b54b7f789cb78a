package rabbitmq

import "time"

// Option -.
type Option func(*Config)

// WaitTime -.
func WaitTime(timeout time.Duration) Option {
	return func(c *Config) {
		c.WaitTime = timeout
	}
}

// Attempts -.
func Attempts(attempts int) Option {
	return func(c *Config) {
		c.Attempts = attempts
	}
}
