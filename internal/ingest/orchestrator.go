package ingest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

// DefaultExpiryAge is how long a job may go unseen before the sweep marks it
// expired.
const DefaultExpiryAge = 14 * 24 * time.Hour

// Orchestrator fans a sync cycle out across all source runners and sweeps
// expired jobs afterwards. Sources are isolated: one failing source never
// stops the others, it only shows up in its own metrics row.
type Orchestrator struct {
	runners   []*SourceRunner
	store     model.Store
	expiryAge time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewOrchestrator creates an orchestrator over the given runners. expiryAge
// zero or negative falls back to DefaultExpiryAge.
func NewOrchestrator(runners []*SourceRunner, store model.Store, expiryAge time.Duration, logger *slog.Logger) *Orchestrator {
	if expiryAge <= 0 {
		expiryAge = DefaultExpiryAge
	}
	return &Orchestrator{
		runners:   runners,
		store:     store,
		expiryAge: expiryAge,
		logger:    logger,
		now:       time.Now,
	}
}

// RunAll syncs every source concurrently, records each source's metrics, and
// finishes with an expiry sweep. The returned metrics are ordered like the
// runners.
func (o *Orchestrator) RunAll(ctx context.Context) []model.SyncMetrics {
	o.logger.Info("starting sync cycle", "sources", len(o.runners))

	all := make([]model.SyncMetrics, len(o.runners))
	var wg sync.WaitGroup
	for i, r := range o.runners {
		wg.Add(1)
		go func(i int, r *SourceRunner) {
			defer wg.Done()
			metrics, err := r.Sync(ctx)
			if err != nil {
				o.logger.Error("source sync failed",
					"source", r.Name(),
					"error", err,
				)
			}
			all[i] = metrics
		}(i, r)
	}
	wg.Wait()

	for _, m := range all {
		if err := o.store.RecordSyncMetrics(m); err != nil {
			o.logger.Error("recording sync metrics failed",
				"source", m.Source,
				"error", err,
			)
		}
	}

	if expired, err := o.SweepExpired(); err != nil {
		o.logger.Error("expiry sweep failed", "error", err)
	} else if expired > 0 {
		o.logger.Info("expired stale jobs", "count", expired)
	}

	return all
}

// SweepExpired marks active jobs unseen for longer than the expiry age as
// expired and returns how many changed.
func (o *Orchestrator) SweepExpired() (int64, error) {
	cutoff := o.now().Add(-o.expiryAge)
	return o.store.MarkExpired(cutoff)
}
