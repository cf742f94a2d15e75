package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/normalize"
)

// Key derives the deterministic dedupe key from the normalized company,
// title, apply URL, and posted day. The same posting always yields the same
// key across runs; changing any component changes the key.
func Key(company, title, applyURL, postedDay string) string {
	parts := []string{
		normalize.Company(company),
		normalize.Title(title),
		normalize.ApplyURL(applyURL),
		postedDay,
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:16])
}

// KeyFor computes the dedupe key for a canonical job from its own fields.
func KeyFor(job model.CanonicalJob) string {
	day := normalize.PostedDay(job.PostedAt, job.FirstSeen)
	return Key(job.CompanyName, job.Title, job.ApplyURL, day)
}
