package entity

import "time"

// EventType -.
type EventType string

const (
	EventStarted   EventType = "started"
	EventOffered   EventType = "offered"
	EventAnswered  EventType = "answered"
	EventCandidate EventType = "candidate"
	EventConnected EventType = "connected"
	EventEnded     EventType = "ended"
	EventExpired   EventType = "expired"
)

// CallEvent is emitted after every successful write to a couple's call record.
type CallEvent struct {
	Type     EventType `json:"type"`
	CoupleID string    `json:"coupleId"`
	CallID   string    `json:"callId,omitempty"`
	ActorID  string    `json:"actorId,omitempty"`
	At       time.Time `json:"at"`
}
