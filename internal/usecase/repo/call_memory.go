package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"couplecall/internal/entity"
	"couplecall/internal/usecase"
)

// CallMemory keeps call records in process. Used by tests and single-node setups.
type CallMemory struct {
	mu    sync.Mutex
	calls map[string]*entity.CallRecord
}

var _ usecase.CallRepo = (*CallMemory)(nil)

// NewCallMemory -.
func NewCallMemory() *CallMemory {
	return &CallMemory{calls: make(map[string]*entity.CallRecord)}
}

// Get -.
func (m *CallMemory) Get(_ context.Context, coupleID string) (*entity.CallRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.calls[coupleID].Clone(), nil
}

// Create -.
func (m *CallMemory) Create(_ context.Context, rec entity.CallRecord) (entity.CallRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.calls[rec.CoupleID]; ok {
		return *existing.Clone(), false, nil
	}

	stored := rec.Clone()
	m.calls[rec.CoupleID] = stored

	return *stored.Clone(), true, nil
}

// SetOffer -.
func (m *CallMemory) SetOffer(_ context.Context, coupleID, callID, sdp string) error {
	return m.update(coupleID, callID, func(rec *entity.CallRecord) error {
		return writeOnce(&rec.Offer, sdp)
	})
}

// SetAnswer -.
func (m *CallMemory) SetAnswer(_ context.Context, coupleID, callID, sdp string) error {
	return m.update(coupleID, callID, func(rec *entity.CallRecord) error {
		return writeOnce(&rec.Answer, sdp)
	})
}

// AppendCandidate -.
func (m *CallMemory) AppendCandidate(_ context.Context, coupleID, callID string, role entity.Role, c entity.Candidate) error {
	if _, err := candidateColumn(role); err != nil {
		return err
	}

	return m.update(coupleID, callID, func(rec *entity.CallRecord) error {
		list := &rec.CallerCandidates
		if role == entity.RoleCallee {
			list = &rec.CalleeCandidates
		}

		for _, have := range *list {
			if have == c {
				return nil
			}
		}

		*list = append(*list, c)

		return nil
	})
}

// SetStatus -.
func (m *CallMemory) SetStatus(_ context.Context, coupleID, callID string, status entity.CallStatus) error {
	return m.update(coupleID, callID, func(rec *entity.CallRecord) error {
		rec.Status = status

		return nil
	})
}

// Delete -.
func (m *CallMemory) Delete(_ context.Context, coupleID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.calls[coupleID]
	delete(m.calls, coupleID)

	return ok, nil
}

// DeleteRingingBefore -.
func (m *CallMemory) DeleteRingingBefore(_ context.Context, cutoff time.Time) ([]usecase.ExpiredCall, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expired []usecase.ExpiredCall

	for coupleID, rec := range m.calls {
		if rec.Status == entity.StatusRinging && rec.StartedAt.Before(cutoff) {
			expired = append(expired, usecase.ExpiredCall{CoupleID: coupleID, CallID: rec.CallID})
			delete(m.calls, coupleID)
		}
	}

	sort.Slice(expired, func(i, j int) bool { return expired[i].CoupleID < expired[j].CoupleID })

	return expired, nil
}

func (m *CallMemory) update(coupleID, callID string, fn func(*entity.CallRecord) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.calls[coupleID]
	if !ok || rec.CallID != callID {
		return usecase.ErrNoCall
	}

	return fn(rec)
}

func writeOnce(field *string, v string) error {
	if *field != "" && *field != v {
		return usecase.ErrConflict
	}

	*field = v

	return nil
}
