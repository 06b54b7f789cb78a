package usecase

import "time"

// Option -.
type Option func(*SignalingUseCase)

// RingTimeout sets how long a call may ring before ExpireRinging removes it. Zero disables.
func RingTimeout(d time.Duration) Option {
	return func(uc *SignalingUseCase) {
		uc.ringTimeout = d
	}
}

// Clock -.
func Clock(now func() time.Time) Option {
	return func(uc *SignalingUseCase) {
		uc.now = now
	}
}

// IDGenerator -.
func IDGenerator(fn func() string) Option {
	return func(uc *SignalingUseCase) {
		uc.newID = fn
	}
}
