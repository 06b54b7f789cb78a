// Package broker delivers call events to watchers in this process and to external collaborators.
package broker

import (
	"context"
	"sync"

	"couplecall/internal/entity"
	"couplecall/internal/usecase"
)

const _defaultBuffer = 16

// Hub fans call events out to the subscribers of each couple. A slow subscriber loses events
// instead of blocking writers; the next poll catches it up.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
}

var _ usecase.EventPublisher = (*Hub)(nil)

// Subscription -.
type Subscription struct {
	C <-chan entity.CallEvent

	ch       chan entity.CallEvent
	coupleID string
	hub      *Hub
	once     sync.Once
}

// NewHub -.
func NewHub() *Hub {
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: _defaultBuffer,
	}
}

// Subscribe -.
func (h *Hub) Subscribe(coupleID string) *Subscription {
	ch := make(chan entity.CallEvent, h.buffer)
	s := &Subscription{C: ch, ch: ch, coupleID: coupleID, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[coupleID] == nil {
		h.subs[coupleID] = make(map[*Subscription]struct{})
	}
	h.subs[coupleID][s] = struct{}{}

	return s
}

// Close unsubscribes and closes C. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()

		delete(s.hub.subs[s.coupleID], s)
		if len(s.hub.subs[s.coupleID]) == 0 {
			delete(s.hub.subs, s.coupleID)
		}

		close(s.ch)
	})
}

// Publish -.
func (h *Hub) Publish(_ context.Context, ev entity.CallEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs[ev.CoupleID] {
		select {
		case s.ch <- ev:
		default:
		}
	}

	return nil
}

// Watchers -.
func (h *Hub) Watchers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, subs := range h.subs {
		n += len(subs)
	}

	return n
}
