// Package peer runs one side of a couple's call: a polling loop that reconciles the shared call
// record with the local transport session and media.
package peer

import (
	"context"
	"errors"

	"couplecall/internal/entity"
)

var (
	// ErrBusy -.
	ErrBusy = errors.New("peer: a call is already in progress")
	// ErrPartnerCalling is returned by Start when the partner's call won the race.
	// The engine is Incoming for the partner's call afterwards.
	ErrPartnerCalling = errors.New("peer: partner is already calling")
	// ErrNoIncomingCall -.
	ErrNoIncomingCall = errors.New("peer: no incoming call")
	// ErrOfferNotReady means the caller has not published its offer yet. Retry later.
	ErrOfferNotReady = errors.New("peer: offer not published yet")
	// ErrCallGone -.
	ErrCallGone = errors.New("peer: call ended")
)

type (
	// Signaling is the engine's view of the call record store, bound to the local user.
	Signaling interface {
		Fetch(ctx context.Context) (*entity.CallRecord, error)
		Start(ctx context.Context, kind entity.CallKind) (entity.CallRecord, error)
		SetOffer(ctx context.Context, callID, sdp string) error
		SetAnswer(ctx context.Context, callID, sdp string) error
		AppendCandidate(ctx context.Context, callID string, role entity.Role, c entity.Candidate) error
		Connect(ctx context.Context, callID string) error
		End(ctx context.Context) error
	}

	// Session is one real-time transport session.
	Session interface {
		CreateOffer(ctx context.Context) (string, error)
		AcceptOffer(ctx context.Context, offer string) (string, error)
		ApplyAnswer(answer string) error
		AddCandidate(c entity.Candidate) error
		Close() error
	}

	// SessionFactory -. onCandidate may be called from any goroutine.
	SessionFactory interface {
		NewSession(kind entity.CallKind, media Media, onCandidate func(entity.Candidate)) (Session, error)
	}

	// MediaSource acquires local capture devices.
	MediaSource interface {
		Acquire(ctx context.Context, kind entity.CallKind) (Media, error)
	}

	// Media is a set of acquired local tracks.
	Media interface {
		SetAudioEnabled(on bool)
		SetVideoEnabled(on bool)
		Stop()
	}
)

// State of the local engine.
type State int

const (
	Idle State = iota
	Outgoing
	Incoming
	Active
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Outgoing:
		return "outgoing"
	case Incoming:
		return "incoming"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// EventType -.
type EventType int

const (
	// EventStateChanged fires after every state transition.
	EventStateChanged EventType = iota
	// EventRinging fires when a call from the partner arrives.
	EventRinging
	// EventMediaError fires when local capture or the transport could not be set up.
	EventMediaError
	// EventPartnerUnreachable fires once when the store has been unreachable for a while
	// during a call.
	EventPartnerUnreachable
)

func (t EventType) String() string {
	switch t {
	case EventStateChanged:
		return "state"
	case EventRinging:
		return "ringing"
	case EventMediaError:
		return "media-error"
	case EventPartnerUnreachable:
		return "partner-unreachable"
	default:
		return "unknown"
	}
}

// Event -.
type Event struct {
	Type   EventType
	State  State
	CallID string
	Kind   entity.CallKind
	Err    error
}

// Snapshot is a consistent copy of the engine's externally visible state.
type Snapshot struct {
	State        State
	Role         entity.Role
	CallID       string
	Kind         entity.CallKind
	PartnerID    string
	AudioEnabled bool
	VideoEnabled bool
}
