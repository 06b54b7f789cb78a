package usecase

import "errors"

var (
	// ErrUnknownUser -.
	ErrUnknownUser = errors.New("user is not paired")
	// ErrNotMember -.
	ErrNotMember = errors.New("user is not a member of the couple")
	// ErrNoCall is returned for writes to a call that is absent or was replaced.
	ErrNoCall = errors.New("no such call")
	// ErrRoleMismatch -.
	ErrRoleMismatch = errors.New("role does not match the call record")
	// ErrNotReady -.
	ErrNotReady = errors.New("call is not ready for this step")
	// ErrConflict is returned when a write-once field already holds a different value.
	ErrConflict = errors.New("field already written")
	// ErrEmptySignal -.
	ErrEmptySignal = errors.New("signal carries no payload")
	// ErrMixedSignal is returned for a signal with more than one of offer, answer and candidate.
	ErrMixedSignal = errors.New("signal carries more than one payload")
)
