package peer

import "time"

const (
	_defaultInterval         = 2 * time.Second
	_defaultUnreachableAfter = 5
)

// Option -.
type Option func(*Engine)

// Interval sets the poll period. Non-positive values keep the default.
func Interval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// UnreachableAfter sets how many consecutive failed ticks during a call raise
// EventPartnerUnreachable.
func UnreachableAfter(n int) Option {
	return func(e *Engine) {
		e.unreachableAfter = n
	}
}
