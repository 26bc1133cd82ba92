package cleanup

import (
	"context"
	"log/slog"
	"time"
)

// Lifecycle is the slice of the session manager the sweeper drives.
type Lifecycle interface {
	ExpireDue(ctx context.Context, now time.Time) int
	SweepTerminal(now time.Time, retention time.Duration) int
}

// Sweeper periodically expires overdue sessions and evicts terminal
// sessions past the retention window.
type Sweeper struct {
	manager   Lifecycle
	interval  time.Duration
	retention time.Duration
}

// NewSweeper creates a new sweep worker.
func NewSweeper(manager Lifecycle, interval, retention time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if retention <= 0 {
		retention = 24 * time.Hour
	}

	return &Sweeper{
		manager:   manager,
		interval:  interval,
		retention: retention,
	}
}

// Start begins the sweep worker in a goroutine.
func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx)
}

// run is the main loop for the sweep worker.
func (s *Sweeper) run(ctx context.Context) {
	slog.Info("session sweeper started", "interval", s.interval, "retention", s.retention)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	now := time.Now()

	expired := s.manager.ExpireDue(ctx, now)
	evicted := s.manager.SweepTerminal(now, s.retention)

	if expired > 0 || evicted > 0 {
		slog.Info("sweep cycle finished", "expired", expired, "evicted", evicted)
	} else {
		slog.Debug("sweep cycle finished, nothing to do")
	}
}
