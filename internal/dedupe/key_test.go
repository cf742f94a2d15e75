package dedupe

import (
	"testing"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

func TestKey_Deterministic(t *testing.T) {
	a := Key("Acme Inc", "Senior Engineer", "https://acme.com/jobs/1", "2026-03-01")
	b := Key("Acme Inc", "Senior Engineer", "https://acme.com/jobs/1", "2026-03-01")
	if a != b {
		t.Fatalf("same input produced different keys: %s vs %s", a, b)
	}
}

func TestKey_NormalizesComponents(t *testing.T) {
	a := Key("Acme Inc", "Sr. Engineer", "https://Acme.com/jobs/1/", "2026-03-01")
	b := Key("acme inc", "Senior Engineer", "https://acme.com/jobs/1", "2026-03-01")
	if a != b {
		t.Fatal("expected normalized equivalents to share a key")
	}
}

func TestKey_ComponentsChangeKey(t *testing.T) {
	base := Key("Acme", "Engineer", "https://acme.com/jobs/1", "2026-03-01")
	variants := []string{
		Key("Umbrella", "Engineer", "https://acme.com/jobs/1", "2026-03-01"),
		Key("Acme", "Designer", "https://acme.com/jobs/1", "2026-03-01"),
		Key("Acme", "Engineer", "https://acme.com/jobs/2", "2026-03-01"),
		Key("Acme", "Engineer", "https://acme.com/jobs/1", "2026-03-02"),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d did not change the key", i)
		}
	}
}

func TestKeyFor_UsesFirstSeenWhenPostedAtMissing(t *testing.T) {
	firstSeen := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	job := model.CanonicalJob{
		CompanyName: "Acme",
		Title:       "Engineer",
		ApplyURL:    "https://acme.com/jobs/1",
		FirstSeen:   firstSeen,
	}
	want := Key("Acme", "Engineer", "https://acme.com/jobs/1", "2026-03-01")
	if got := KeyFor(job); got != want {
		t.Fatalf("KeyFor = %s, want %s", got, want)
	}

	posted := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	job.PostedAt = &posted
	if got := KeyFor(job); got == want {
		t.Fatal("expected posted date to change the key")
	}
}
