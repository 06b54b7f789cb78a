package peer

import (
	"context"

	"couplecall/internal/entity"
	"couplecall/internal/usecase"
)

// Local binds an in-process signaling use case to one user. The server's HTTP client does the
// same over the network.
type Local struct {
	s      usecase.Signaling
	userID string
}

var _ Signaling = (*Local)(nil)

// NewLocal -.
func NewLocal(s usecase.Signaling, userID string) *Local {
	return &Local{s: s, userID: userID}
}

// Identity -.
func (l *Local) Identity(ctx context.Context) (entity.Identity, error) {
	return l.s.Identity(ctx, l.userID)
}

// Fetch -.
func (l *Local) Fetch(ctx context.Context) (*entity.CallRecord, error) {
	return l.s.Current(ctx, l.userID)
}

// Start -.
func (l *Local) Start(ctx context.Context, kind entity.CallKind) (entity.CallRecord, error) {
	return l.s.Start(ctx, l.userID, kind)
}

// SetOffer -.
func (l *Local) SetOffer(ctx context.Context, callID, sdp string) error {
	return l.s.Signal(ctx, l.userID, usecase.SignalRequest{CallID: callID, Role: entity.RoleCaller, Offer: sdp})
}

// SetAnswer -.
func (l *Local) SetAnswer(ctx context.Context, callID, sdp string) error {
	return l.s.Signal(ctx, l.userID, usecase.SignalRequest{CallID: callID, Role: entity.RoleCallee, Answer: sdp})
}

// AppendCandidate -.
func (l *Local) AppendCandidate(ctx context.Context, callID string, role entity.Role, c entity.Candidate) error {
	return l.s.Signal(ctx, l.userID, usecase.SignalRequest{CallID: callID, Role: role, Candidate: c})
}

// Connect -.
func (l *Local) Connect(ctx context.Context, callID string) error {
	return l.s.Answer(ctx, l.userID, callID)
}

// End -.
func (l *Local) End(ctx context.Context) error {
	return l.s.End(ctx, l.userID)
}
