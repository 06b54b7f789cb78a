package peer

import (
	"context"
	"fmt"

	"couplecall/internal/entity"
	"couplecall/pkg/webrtc"
)

// PionSessions opens pion peer connections for the engine.
type PionSessions struct {
	f *webrtc.Factory
}

var _ SessionFactory = (*PionSessions)(nil)

// NewPionSessions -.
func NewPionSessions(f *webrtc.Factory) *PionSessions {
	return &PionSessions{f: f}
}

// NewSession -. media must come from PionMedia.
func (s *PionSessions) NewSession(kind entity.CallKind, media Media, onCandidate func(entity.Candidate)) (Session, error) {
	local, ok := media.(*webrtc.LocalMedia)
	if !ok {
		return nil, fmt.Errorf("PionSessions - NewSession: unsupported media %T", media)
	}

	p, err := s.f.NewPeer(kind == entity.KindVideo, local, func(c string) {
		onCandidate(entity.Candidate(c))
	})
	if err != nil {
		return nil, fmt.Errorf("PionSessions - NewSession - s.f.NewPeer: %w", err)
	}

	return pionSession{p}, nil
}

type pionSession struct {
	*webrtc.Peer
}

func (s pionSession) AddCandidate(c entity.Candidate) error {
	return s.Peer.AddCandidate(string(c))
}

// PionMedia adapts a webrtc.Source to the engine.
type PionMedia struct {
	src webrtc.Source
}

var _ MediaSource = (*PionMedia)(nil)

// NewPionMedia -.
func NewPionMedia(src webrtc.Source) *PionMedia {
	return &PionMedia{src: src}
}

// Acquire -.
func (m *PionMedia) Acquire(ctx context.Context, kind entity.CallKind) (Media, error) {
	local, err := m.src.Acquire(ctx, kind == entity.KindVideo)
	if err != nil {
		return nil, fmt.Errorf("PionMedia - Acquire: %w", err)
	}

	return local, nil
}
