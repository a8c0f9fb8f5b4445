package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// SweepStore is the repository slice the sweeper drives: expiring stale
// reservation holds and completing bookings whose end time has passed.
type SweepStore interface {
	ExpireStale(ctx context.Context) (int64, error)
	CompleteFinished(ctx context.Context) (int64, error)
}

// Sweeper runs the periodic lifecycle maintenance in the background. Expiry
// is also enforced lazily on every conflict read, so the sweeper only bounds
// how long a stale row can linger, it is not load-bearing for correctness.
type Sweeper struct {
	store    SweepStore
	interval time.Duration
	log      zerolog.Logger
	stop     chan struct{}
	done     chan struct{}
}

func NewSweeper(store SweepStore, interval time.Duration, log zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.interval).Msg("sweeper started")
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	expired, err := s.store.ExpireStale(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("expire sweep failed")
	} else if expired > 0 {
		s.log.Info().Int64("count", expired).Msg("expired stale reservations")
	}

	completed, err := s.store.CompleteFinished(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("completion sweep failed")
	} else if completed > 0 {
		s.log.Info().Int64("count", completed).Msg("completed finished bookings")
	}
}

// Stop signals the loop and waits for the in-flight sweep to finish.
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}
