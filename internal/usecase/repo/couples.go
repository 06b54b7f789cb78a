package repo

import (
	"context"
	"fmt"
	"sync"

	"couplecall/internal/entity"
	"couplecall/internal/usecase"
)

// StaticCouples is a couple directory loaded from configuration. Replace swaps the whole
// directory atomically, so it can be reloaded while requests are served.
type StaticCouples struct {
	mu     sync.RWMutex
	byUser map[string]entity.Couple
}

var _ usecase.Couples = (*StaticCouples)(nil)

// NewStaticCouples -.
func NewStaticCouples(couples []entity.Couple) (*StaticCouples, error) {
	s := &StaticCouples{}
	if err := s.Replace(couples); err != nil {
		return nil, err
	}

	return s, nil
}

// Replace validates couples and installs them.
func (s *StaticCouples) Replace(couples []entity.Couple) error {
	byUser := make(map[string]entity.Couple, len(couples)*2)
	ids := make(map[string]struct{}, len(couples))

	for _, c := range couples {
		if c.ID == "" {
			return fmt.Errorf("couple with members %v has no id", c.Members)
		}

		if _, dup := ids[c.ID]; dup {
			return fmt.Errorf("couple %q declared twice", c.ID)
		}
		ids[c.ID] = struct{}{}

		if c.Members[0] == "" || c.Members[1] == "" || c.Members[0] == c.Members[1] {
			return fmt.Errorf("couple %q needs two distinct members", c.ID)
		}

		for _, m := range c.Members {
			if other, taken := byUser[m]; taken {
				return fmt.Errorf("user %q is in couples %q and %q", m, other.ID, c.ID)
			}
			byUser[m] = c
		}
	}

	s.mu.Lock()
	s.byUser = byUser
	s.mu.Unlock()

	return nil
}

// CoupleOf -.
func (s *StaticCouples) CoupleOf(_ context.Context, userID string) (entity.Couple, error) {
	s.mu.RLock()
	c, ok := s.byUser[userID]
	s.mu.RUnlock()

	if !ok {
		return entity.Couple{}, usecase.ErrUnknownUser
	}

	return c, nil
}
