package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jobsift/jobsift/internal/dedupe"
	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/normalize"
)

// SourceRunner owns the full sync pipeline for a single source:
// fetch → enrich → match → upsert → record source.
type SourceRunner struct {
	connector model.Connector
	matcher   *dedupe.Matcher
	store     model.Store
	enricher  model.SkillEnricher
	logger    *slog.Logger
	now       func() time.Time
}

// NewSourceRunner creates a runner wired with all its dependencies.
func NewSourceRunner(
	connector model.Connector,
	matcher *dedupe.Matcher,
	store model.Store,
	enricher model.SkillEnricher,
	logger *slog.Logger,
) *SourceRunner {
	return &SourceRunner{
		connector: connector,
		matcher:   matcher,
		store:     store,
		enricher:  enricher,
		logger:    logger,
		now:       time.Now,
	}
}

func (r *SourceRunner) Name() string { return r.connector.Name() }

// Sync runs one sync cycle for the source and reports its metrics. A fetch
// failure fails the whole source; a single bad item is counted and skipped so
// the rest of the batch still lands.
func (r *SourceRunner) Sync(ctx context.Context) (model.SyncMetrics, error) {
	metrics := model.SyncMetrics{
		Source:    r.Name(),
		Timestamp: r.now(),
		Status:    "ok",
	}

	result, err := r.connector.FetchRecentJobs(ctx)
	if err != nil {
		metrics.Status = "error"
		metrics.LastError = err.Error()
		return metrics, fmt.Errorf("syncing %s: %w", r.Name(), err)
	}
	metrics.Fetched = len(result.Jobs)

	for i, job := range result.Jobs {
		if err := ctx.Err(); err != nil {
			metrics.Status = "error"
			metrics.LastError = err.Error()
			return metrics, fmt.Errorf("syncing %s: %w", r.Name(), err)
		}

		if r.enricher != nil {
			extra, _ := r.enricher.ExtractSkills(ctx, job.DescriptionText)
			job.Skills = normalize.MergeSkills(job.Skills, extra)
		}

		if err := r.ingestOne(job, result.Raw[i], &metrics); err != nil {
			metrics.Errors++
			metrics.LastError = err.Error()
			r.logger.Warn("item failed, skipping",
				"source", r.Name(),
				"source_job_id", result.Raw[i].SourceJobID,
				"error", err,
			)
		}
	}

	r.logger.Info("synced source",
		"source", r.Name(),
		"fetched", metrics.Fetched,
		"upserted", metrics.Upserted,
		"duplicates", metrics.Duplicates,
		"errors", metrics.Errors,
	)
	return metrics, nil
}

func (r *SourceRunner) ingestOne(job model.CanonicalJob, raw model.RawItem, metrics *model.SyncMetrics) error {
	match, err := r.matcher.Find(job)
	if err != nil {
		return fmt.Errorf("matching: %w", err)
	}

	res, err := r.store.Upsert(job, match)
	if err != nil {
		return fmt.Errorf("upserting: %w", err)
	}
	if res.Inserted {
		metrics.Upserted++
	}
	if res.Duplicate {
		metrics.Duplicates++
	}

	rec := model.SourceRecord{
		Source:      r.Name(),
		SourceJobID: raw.SourceJobID,
		SourceURL:   raw.SourceURL,
		RawPayload:  raw.Payload,
		JobID:       res.JobID,
	}
	if err := r.store.RecordSource(rec); err != nil {
		return fmt.Errorf("recording source: %w", err)
	}
	return nil
}
