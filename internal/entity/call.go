// Package entity defines main entities for business logic (services), data base mapping and
// HTTP response objects if suitable. Each logic group entities in own file.
package entity

import (
	"errors"
	"fmt"
	"time"
)

// CallKind -.
type CallKind string

const (
	KindAudio CallKind = "audio"
	KindVideo CallKind = "video"
)

// ParseCallKind -.
func ParseCallKind(s string) (CallKind, error) {
	switch k := CallKind(s); k {
	case KindAudio, KindVideo:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// CallStatus -.
// An ended call has no status: its record is deleted.
type CallStatus string

const (
	StatusRinging   CallStatus = "ringing"
	StatusConnected CallStatus = "connected"
)

// Candidate is an opaque transport candidate, usually the JSON text of an ICE candidate init.
// The store keeps it byte-for-byte; two candidates are the same when their text is equal.
type Candidate string

// ErrInvalidKind -.
var ErrInvalidKind = errors.New("invalid call kind")

// CallRecord is the whole state of the couple's single call. A nil record means no call.
type CallRecord struct {
	CallID           string      `json:"callId"           example:"7d5c1b0e-8a43-4b8e-9a53-1b1f7f3b2f0d"`
	CoupleID         string      `json:"coupleId"         example:"c1"`
	CallerID         string      `json:"callerId"         example:"alice"`
	Kind             CallKind    `json:"kind"             example:"audio"`
	Status           CallStatus  `json:"status"           example:"ringing"`
	StartedAt        time.Time   `json:"startedAt"`
	Offer            string      `json:"offer,omitempty"`
	Answer           string      `json:"answer,omitempty"`
	CallerCandidates []Candidate `json:"callerCandidates"`
	CalleeCandidates []Candidate `json:"calleeCandidates"`
}

// Candidates returns the list published by role.
func (r *CallRecord) Candidates(role Role) []Candidate {
	switch role {
	case RoleCaller:
		return r.CallerCandidates
	case RoleCallee:
		return r.CalleeCandidates
	default:
		return nil
	}
}

// Clone returns a deep copy so callers can't alias the store's slices.
func (r *CallRecord) Clone() *CallRecord {
	if r == nil {
		return nil
	}

	c := *r
	c.CallerCandidates = append([]Candidate{}, r.CallerCandidates...)
	c.CalleeCandidates = append([]Candidate{}, r.CalleeCandidates...)

	return &c
}
