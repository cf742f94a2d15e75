package dedupe

import (
	"math"
	"strings"
	"time"

	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/normalize"
)

// Fuzzy-match weights and threshold, kept together so they can be tuned and
// tested independently of the matching control flow.
const (
	weightCompany     = 0.30
	weightTitle       = 0.40
	weightDate        = 0.15
	weightDescription = 0.15

	// MatchThreshold is the minimum combined score for a fuzzy duplicate.
	MatchThreshold = 0.85

	// dateDecayDays is the posting-date gap past which the date component
	// contributes nothing.
	dateDecayDays = 7.0

	// descPrefixLen bounds the description comparison to the leading
	// characters, where postings differ least across providers.
	descPrefixLen = 500
)

// Matcher decides whether an incoming job duplicates an existing canonical
// job, checking exact apply-URL equality, then dedupe-key equality, then a
// weighted fuzzy score over a restricted candidate set.
type Matcher struct {
	store model.Store
}

func NewMatcher(store model.Store) *Matcher {
	return &Matcher{store: store}
}

// Find returns the duplicate judgment for job, or nil when it is new.
// Candidate retrieval errors are returned; a clean miss is (nil, nil).
func (m *Matcher) Find(job model.CanonicalJob) (*model.Match, error) {
	// 1. Exact apply-URL match against any active job.
	if u := normalize.ApplyURL(job.ApplyURL); u != "" {
		existing, err := m.store.FindActiveByURL(u)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &model.Match{Job: existing, Similarity: 1.0, Reason: "same_url"}, nil
		}
	}

	// 2. Exact dedupe-key match.
	existing, err := m.store.FindByDedupeKey(job.DedupeKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &model.Match{Job: existing, Similarity: 1.0, Reason: "same_key"}, nil
	}

	// 3. Fuzzy scoring over candidates sharing a normalized company, or the
	// same source with an overlapping title prefix.
	candidates, err := m.store.Candidates(
		normalize.CompanyForMatch(job.CompanyName),
		job.SourcePrimary,
		titlePrefix(job.Title),
	)
	if err != nil {
		return nil, err
	}

	var best *model.Match
	for i := range candidates {
		score := Score(job, candidates[i])
		if score < MatchThreshold {
			continue
		}
		// Ties break toward the highest score; candidates arrive in
		// first-seen order, so equal scores keep the earliest.
		if best == nil || score > best.Similarity {
			c := candidates[i]
			best = &model.Match{Job: &c, Similarity: score, Reason: "fuzzy"}
		}
	}
	return best, nil
}

// Score computes the weighted similarity between two jobs in [0, 1].
func Score(a, b model.CanonicalJob) float64 {
	var score float64

	if normalize.CompanyForMatch(a.CompanyName) == normalize.CompanyForMatch(b.CompanyName) &&
		a.CompanyName != "" {
		score += weightCompany
	}

	score += weightTitle * tokenJaccard(normalize.Title(a.Title), normalize.Title(b.Title))
	score += weightDate * dateProximity(a, b)
	score += weightDescription * tokenJaccard(
		descPrefix(a.DescriptionText),
		descPrefix(b.DescriptionText),
	)

	return score
}

// Richer reports whether the new source's copy carries more signal than the
// current primary's: longer description (by a margin), salary present,
// posted date present, compared as simple feature counts. Default promotion
// policy, not a hard contract.
func Richer(incoming, current model.CanonicalJob) bool {
	return richness(incoming, current) > richness(current, incoming)
}

func richness(j, other model.CanonicalJob) int {
	n := 0
	if float64(len(j.DescriptionText)) > float64(len(other.DescriptionText))*1.2 {
		n++
	}
	if j.SalaryMin != nil || j.SalaryMax != nil {
		n++
	}
	if j.PostedAt != nil {
		n++
	}
	return n
}

// tokenJaccard computes Jaccard similarity over whitespace tokens.
// Both empty yields 1.0; exactly one empty yields 0.
func tokenJaccard(a, b string) float64 {
	ta := strings.Fields(a)
	tb := strings.Fields(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1.0
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(ta))
	for _, t := range ta {
		setA[t] = true
	}
	setB := make(map[string]bool, len(tb))
	for _, t := range tb {
		setB[t] = true
	}

	inter := 0
	for t := range setA {
		if setB[t] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

// dateProximity decays linearly from 1.0 at the same day to 0 past
// dateDecayDays. An undated posting falls back to the day it was first
// seen, the same fallback the dedupe key's date component uses.
func dateProximity(a, b model.CanonicalJob) float64 {
	da, db := postedDay(a), postedDay(b)
	if da.IsZero() || db.IsZero() {
		return 0
	}
	days := math.Abs(da.Sub(db).Hours()) / 24
	if days >= dateDecayDays {
		return 0
	}
	return 1 - days/dateDecayDays
}

// postedDay is the day-granularity posting date: posted_at when the source
// carries one, else the day portion of first_seen.
func postedDay(j model.CanonicalJob) time.Time {
	if j.PostedAt != nil {
		return j.PostedAt.UTC().Truncate(24 * time.Hour)
	}
	if j.FirstSeen.IsZero() {
		return time.Time{}
	}
	return j.FirstSeen.UTC().Truncate(24 * time.Hour)
}

func descPrefix(desc string) string {
	if len(desc) > descPrefixLen {
		return strings.ToLower(desc[:descPrefixLen])
	}
	return strings.ToLower(desc)
}

// titlePrefix is the candidate-restriction key for same-source lookups:
// the first two normalized title tokens.
func titlePrefix(title string) string {
	words := strings.Fields(normalize.Title(title))
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, " ")
}
