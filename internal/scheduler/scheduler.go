package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Runner is one full sync cycle; the caller wires in the orchestrator.
type Runner func(ctx context.Context)

// Scheduler owns the daemon loop: one immediate cycle, then ticks on an
// interval.
type Scheduler struct {
	run      Runner
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that runs the given cycle at the given
// interval.
func NewScheduler(run Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		run:      run,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the loop. It runs one immediate cycle, then ticks on the
// configured interval. It returns nil when ctx is cancelled (graceful
// shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	// Run one immediate cycle.
	s.run(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.run(ctx)
		}
	}
}
