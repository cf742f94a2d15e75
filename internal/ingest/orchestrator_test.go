package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

func TestRunAll_IsolatesFailingSource(t *testing.T) {
	store := newMemStore()

	j, r := sampleJob("Backend Engineer", "Acme", "https://a.example/1", "remoteok")
	good := &fakeConnector{name: "remoteok", result: model.FetchResult{
		Jobs: []model.CanonicalJob{j}, Raw: []model.RawItem{r},
	}}
	bad := &fakeConnector{name: "remotive", err: errors.New("remotive is down")}

	runners := []*SourceRunner{
		newRunner(good, store),
		newRunner(bad, store),
	}
	o := NewOrchestrator(runners, store, 0, discardLogger())
	// Pin the sweep clock to the fixture date so the fresh job is not
	// swept as stale when the test runs after June 2025.
	o.now = func() time.Time { return time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC) }

	all := o.RunAll(context.Background())
	if len(all) != 2 {
		t.Fatalf("expected metrics per source, got %d", len(all))
	}
	if all[0].Source != "remoteok" || all[0].Status != "ok" || all[0].Upserted != 1 {
		t.Errorf("unexpected metrics for healthy source: %+v", all[0])
	}
	if all[1].Source != "remotive" || all[1].Status != "error" {
		t.Errorf("unexpected metrics for failing source: %+v", all[1])
	}

	// Both rows recorded regardless of outcome.
	if len(store.metrics) != 2 {
		t.Fatalf("expected 2 recorded metrics rows, got %d", len(store.metrics))
	}
	// The healthy source's job still landed.
	active, _ := store.ListActive()
	if len(active) != 1 {
		t.Fatalf("expected 1 active job, got %d", len(active))
	}
}

func TestRunAll_SweepsExpired(t *testing.T) {
	store := newMemStore()

	stale, _ := sampleJob("Old Role", "Acme", "https://a.example/old", "remoteok")
	stale.LastSeen = time.Now().Add(-30 * 24 * time.Hour)
	if _, err := store.Upsert(stale, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	o := NewOrchestrator(nil, store, 14*24*time.Hour, discardLogger())
	o.RunAll(context.Background())

	active, _ := store.ListActive()
	if len(active) != 0 {
		t.Fatalf("expected stale job to be expired, got %d active", len(active))
	}

	wantCutoff := time.Now().Add(-14 * 24 * time.Hour)
	if diff := store.cutoff.Sub(wantCutoff); diff < -time.Minute || diff > time.Minute {
		t.Errorf("unexpected sweep cutoff: %v", store.cutoff)
	}
}

func TestSweepExpired_UsesConfiguredAge(t *testing.T) {
	store := newMemStore()
	o := NewOrchestrator(nil, store, 7*24*time.Hour, discardLogger())
	o.now = func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) }

	if _, err := o.SweepExpired(); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	want := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	if !store.cutoff.Equal(want) {
		t.Errorf("cutoff = %v, want %v", store.cutoff, want)
	}
}
