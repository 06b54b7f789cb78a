package app

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"couplecall/internal/usecase"
	"couplecall/pkg/logger"
)

var _expiredCalls = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "couplecall",
	Name:      "expired_calls_total",
	Help:      "Ringing calls removed after the ring timeout.",
})

// sweep expires unanswered calls every interval until ctx is done. The returned channel
// closes when the sweeper has stopped.
func sweep(ctx context.Context, s usecase.Signaling, interval time.Duration, l logger.Interface) <-chan struct{} {
	done := make(chan struct{})

	if interval <= 0 {
		close(done)

		return done
	}

	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				n, err := s.ExpireRinging(ctx, now)
				if err != nil {
					l.Error(err, "app - sweep")

					continue
				}

				if n > 0 {
					_expiredCalls.Add(float64(n))
					l.Info("app - sweep - expired %d ringing calls", n)
				}
			}
		}
	}()

	return done
}
