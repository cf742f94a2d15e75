package store

import (
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

// NopStore is a dry-run store: it reports every job as new, persists nothing,
// and counts what it was asked to write.
type NopStore struct {
	Upserts int
	Sources int
}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) FindByDedupeKey(string) (*model.CanonicalJob, error) { return nil, nil }
func (s *NopStore) FindActiveByURL(string) (*model.CanonicalJob, error) { return nil, nil }
func (s *NopStore) Candidates(_, _, _ string) ([]model.CanonicalJob, error) {
	return nil, nil
}

func (s *NopStore) Upsert(job model.CanonicalJob, match *model.Match) (model.UpsertResult, error) {
	s.Upserts++
	return model.UpsertResult{JobID: int64(s.Upserts), Inserted: true}, nil
}

func (s *NopStore) RecordSource(model.SourceRecord) error {
	s.Sources++
	return nil
}

func (s *NopStore) MarkExpired(time.Time) (int64, error)      { return 0, nil }
func (s *NopStore) RecordSyncMetrics(model.SyncMetrics) error { return nil }
func (s *NopStore) ListActive() ([]model.CanonicalJob, error) { return nil, nil }
