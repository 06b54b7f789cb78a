package broker

import (
	"context"
	"errors"

	"couplecall/internal/entity"
	"couplecall/internal/usecase"
)

// Fanout publishes every event to each publisher in turn. One failing publisher does not
// stop the others; their errors are joined.
type Fanout []usecase.EventPublisher

var _ usecase.EventPublisher = Fanout(nil)

// Publish -.
func (f Fanout) Publish(ctx context.Context, ev entity.CallEvent) error {
	var errs []error

	for _, p := range f {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
