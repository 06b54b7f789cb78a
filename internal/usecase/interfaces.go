// Package usecase implements application business logic. Each logic group in own file.
package usecase

import (
	"context"
	"time"

	"couplecall/internal/entity"
)

//go:generate mockgen -source=interfaces.go -destination=./mocks_test.go -package=usecase_test

type (
	// Signaling is the only door into the call record store.
	Signaling interface {
		Identity(ctx context.Context, userID string) (entity.Identity, error)
		Current(ctx context.Context, userID string) (*entity.CallRecord, error)
		Start(ctx context.Context, userID string, kind entity.CallKind) (entity.CallRecord, error)
		Signal(ctx context.Context, userID string, s SignalRequest) error
		Answer(ctx context.Context, userID, callID string) error
		End(ctx context.Context, userID string) error
		ExpireRinging(ctx context.Context, now time.Time) (int, error)
	}

	// CallRepo is the call record store: one nullable record per couple, field-level writes.
	CallRepo interface {
		Get(ctx context.Context, coupleID string) (*entity.CallRecord, error)
		Create(ctx context.Context, rec entity.CallRecord) (entity.CallRecord, bool, error)
		SetOffer(ctx context.Context, coupleID, callID, sdp string) error
		SetAnswer(ctx context.Context, coupleID, callID, sdp string) error
		AppendCandidate(ctx context.Context, coupleID, callID string, role entity.Role, c entity.Candidate) error
		SetStatus(ctx context.Context, coupleID, callID string, status entity.CallStatus) error
		Delete(ctx context.Context, coupleID string) (bool, error)
		DeleteRingingBefore(ctx context.Context, cutoff time.Time) ([]ExpiredCall, error)
	}

	// Couples is the identity collaborator.
	Couples interface {
		CoupleOf(ctx context.Context, userID string) (entity.Couple, error)
	}

	// EventPublisher -.
	EventPublisher interface {
		Publish(ctx context.Context, ev entity.CallEvent) error
	}
)

// SignalRequest carries exactly one of offer, answer and candidate for one role.
type SignalRequest struct {
	CallID    string
	Role      entity.Role
	Offer     string
	Answer    string
	Candidate entity.Candidate
}

// ExpiredCall -.
type ExpiredCall struct {
	CoupleID string
	CallID   string
}
