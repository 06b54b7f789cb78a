package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"couplecall/internal/entity"
	"couplecall/pkg/logger"
)

const _defaultRingTimeout = 60 * time.Second

// SignalingUseCase -.
type SignalingUseCase struct {
	repo    CallRepo
	couples Couples
	events  EventPublisher
	l       logger.Interface

	ringTimeout time.Duration
	now         func() time.Time
	newID       func() string
}

var _ Signaling = (*SignalingUseCase)(nil)

// New -.
func New(r CallRepo, c Couples, e EventPublisher, l logger.Interface, opts ...Option) *SignalingUseCase {
	uc := &SignalingUseCase{
		repo:        r,
		couples:     c,
		events:      e,
		l:           l,
		ringTimeout: _defaultRingTimeout,
		now:         time.Now,
		newID:       uuid.NewString,
	}

	// Custom options
	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Identity -.
func (uc *SignalingUseCase) Identity(ctx context.Context, userID string) (entity.Identity, error) {
	c, err := uc.couple(ctx, userID)
	if err != nil {
		return entity.Identity{}, err
	}

	return entity.Identity{LocalID: userID, PartnerID: c.Partner(userID), CoupleID: c.ID}, nil
}

// Current -.
func (uc *SignalingUseCase) Current(ctx context.Context, userID string) (*entity.CallRecord, error) {
	c, err := uc.couple(ctx, userID)
	if err != nil {
		return nil, err
	}

	rec, err := uc.repo.Get(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("SignalingUseCase - Current - uc.repo.Get: %w", err)
	}

	return rec, nil
}

// Start creates a ringing call unless the couple already has one, in which case the existing
// record is returned unchanged. Callers compare CallerID to learn who won.
func (uc *SignalingUseCase) Start(ctx context.Context, userID string, kind entity.CallKind) (entity.CallRecord, error) {
	if _, err := entity.ParseCallKind(string(kind)); err != nil {
		return entity.CallRecord{}, err
	}

	c, err := uc.couple(ctx, userID)
	if err != nil {
		return entity.CallRecord{}, err
	}

	rec := entity.CallRecord{
		CallID:           uc.newID(),
		CoupleID:         c.ID,
		CallerID:         userID,
		Kind:             kind,
		Status:           entity.StatusRinging,
		StartedAt:        uc.now().UTC(),
		CallerCandidates: []entity.Candidate{},
		CalleeCandidates: []entity.Candidate{},
	}

	stored, created, err := uc.repo.Create(ctx, rec)
	if err != nil {
		return entity.CallRecord{}, fmt.Errorf("SignalingUseCase - Start - uc.repo.Create: %w", err)
	}

	if created {
		uc.publish(ctx, entity.EventStarted, stored.CoupleID, stored.CallID, userID)
	}

	return stored, nil
}

// Signal publishes an offer, an answer or a candidate. A request carries one payload, so it
// is a single store write.
func (uc *SignalingUseCase) Signal(ctx context.Context, userID string, s SignalRequest) error {
	switch payloads(s) {
	case 0:
		return ErrEmptySignal
	case 1:
	default:
		return ErrMixedSignal
	}

	if _, ok := entity.ParseRole(string(s.Role)); !ok {
		return fmt.Errorf("%w: %q", ErrRoleMismatch, s.Role)
	}

	rec, err := uc.callFor(ctx, userID, s.CallID)
	if err != nil {
		return err
	}

	if role := entity.DeriveRole(rec, userID); role != s.Role {
		return fmt.Errorf("%w: %s is %s", ErrRoleMismatch, userID, role)
	}

	if s.Offer != "" && s.Role != entity.RoleCaller {
		return fmt.Errorf("%w: only the caller writes the offer", ErrRoleMismatch)
	}

	if s.Answer != "" && s.Role != entity.RoleCallee {
		return fmt.Errorf("%w: only the callee writes the answer", ErrRoleMismatch)
	}

	switch {
	case s.Offer != "":
		if err = uc.repo.SetOffer(ctx, rec.CoupleID, rec.CallID, s.Offer); err != nil {
			return fmt.Errorf("SignalingUseCase - Signal - uc.repo.SetOffer: %w", err)
		}

		uc.publish(ctx, entity.EventOffered, rec.CoupleID, rec.CallID, userID)

	case s.Answer != "":
		if err = uc.repo.SetAnswer(ctx, rec.CoupleID, rec.CallID, s.Answer); err != nil {
			return fmt.Errorf("SignalingUseCase - Signal - uc.repo.SetAnswer: %w", err)
		}

		uc.publish(ctx, entity.EventAnswered, rec.CoupleID, rec.CallID, userID)

	default:
		err = uc.repo.AppendCandidate(ctx, rec.CoupleID, rec.CallID, s.Role, s.Candidate)
		if err != nil {
			return fmt.Errorf("SignalingUseCase - Signal - uc.repo.AppendCandidate: %w", err)
		}

		uc.publish(ctx, entity.EventCandidate, rec.CoupleID, rec.CallID, userID)
	}

	return nil
}

func payloads(s SignalRequest) int {
	n := 0

	for _, set := range []bool{s.Offer != "", s.Answer != "", s.Candidate != ""} {
		if set {
			n++
		}
	}

	return n
}

// Answer marks the call connected. Only the callee may answer, and only once both session
// descriptions are in the record. Answering a connected call is a no-op.
func (uc *SignalingUseCase) Answer(ctx context.Context, userID, callID string) error {
	rec, err := uc.callFor(ctx, userID, callID)
	if err != nil {
		return err
	}

	if entity.DeriveRole(rec, userID) != entity.RoleCallee {
		return fmt.Errorf("%w: only the callee answers", ErrRoleMismatch)
	}

	if rec.Status == entity.StatusConnected {
		return nil
	}

	if rec.Offer == "" || rec.Answer == "" {
		return fmt.Errorf("%w: offer and answer must be published first", ErrNotReady)
	}

	err = uc.repo.SetStatus(ctx, rec.CoupleID, rec.CallID, entity.StatusConnected)
	if err != nil {
		return fmt.Errorf("SignalingUseCase - Answer - uc.repo.SetStatus: %w", err)
	}

	uc.publish(ctx, entity.EventConnected, rec.CoupleID, rec.CallID, userID)

	return nil
}

// End clears the couple's call unconditionally. Ending nothing is not an error.
func (uc *SignalingUseCase) End(ctx context.Context, userID string) error {
	c, err := uc.couple(ctx, userID)
	if err != nil {
		return err
	}

	// Only used to label the event.
	rec, err := uc.repo.Get(ctx, c.ID)
	if err != nil {
		uc.l.Debug(err, "usecase - End - uc.repo.Get")
	}

	deleted, err := uc.repo.Delete(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("SignalingUseCase - End - uc.repo.Delete: %w", err)
	}

	if deleted {
		callID := ""
		if rec != nil {
			callID = rec.CallID
		}

		uc.publish(ctx, entity.EventEnded, c.ID, callID, userID)
	}

	return nil
}

// ExpireRinging ends calls that rang longer than the ring timeout.
func (uc *SignalingUseCase) ExpireRinging(ctx context.Context, now time.Time) (int, error) {
	if uc.ringTimeout <= 0 {
		return 0, nil
	}

	expired, err := uc.repo.DeleteRingingBefore(ctx, now.Add(-uc.ringTimeout).UTC())
	if err != nil {
		return 0, fmt.Errorf("SignalingUseCase - ExpireRinging - uc.repo.DeleteRingingBefore: %w", err)
	}

	for _, e := range expired {
		uc.publish(ctx, entity.EventExpired, e.CoupleID, e.CallID, "")
	}

	return len(expired), nil
}

func (uc *SignalingUseCase) couple(ctx context.Context, userID string) (entity.Couple, error) {
	if userID == "" {
		return entity.Couple{}, ErrUnknownUser
	}

	c, err := uc.couples.CoupleOf(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUnknownUser) {
			return entity.Couple{}, err
		}

		return entity.Couple{}, fmt.Errorf("SignalingUseCase - couple - uc.couples.CoupleOf: %w", err)
	}

	if !c.Has(userID) {
		return entity.Couple{}, ErrNotMember
	}

	return c, nil
}

// callFor loads the couple's call and checks it is the call the client means.
// An empty callID matches whatever call exists.
func (uc *SignalingUseCase) callFor(ctx context.Context, userID, callID string) (*entity.CallRecord, error) {
	rec, err := uc.Current(ctx, userID)
	if err != nil {
		return nil, err
	}

	if rec == nil || (callID != "" && rec.CallID != callID) {
		return nil, ErrNoCall
	}

	return rec, nil
}

func (uc *SignalingUseCase) publish(ctx context.Context, typ entity.EventType, coupleID, callID, actorID string) {
	if uc.events == nil {
		return
	}

	ev := entity.CallEvent{
		Type:     typ,
		CoupleID: coupleID,
		CallID:   callID,
		ActorID:  actorID,
		At:       uc.now().UTC(),
	}

	if err := uc.events.Publish(ctx, ev); err != nil {
		uc.l.Warn("usecase - publish %s for couple %s: %v", typ, coupleID, err)
	}
}
