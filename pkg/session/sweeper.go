package session

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/denysvitali/ftptube-go/pkg/metrics"
)

// DefaultSweepInterval is how often the Sweeper runs when no interval is configured
const DefaultSweepInterval = time.Minute

// Sweeper periodically removes expired sessions from a Store
type Sweeper struct {
	store    Store
	interval time.Duration
	logger   *logrus.Logger
}

// NewSweeper creates a sweeper for store
func NewSweeper(store Store, interval time.Duration, logger *logrus.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps on every tick until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single sweep and logs its outcome
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	removed, err := s.store.Sweep(ctx)
	if err != nil {
		s.logger.Warnf("Session sweep failed after removing %d sessions: %v", removed, err)
		return removed
	}
	metrics.RecordSessionsSwept(removed)
	if removed > 0 {
		s.logger.WithField("removed", removed).Info("Expired sessions swept")
	}
	return removed
}
