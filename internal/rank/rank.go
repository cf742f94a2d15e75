package rank

import (
	"sort"
	"strings"
	"time"

	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/normalize"
)

const (
	weightSkills     = 0.5
	titleBoostStep   = 0.15
	titleBoostCap    = 0.5
	recencyBoostMax  = 0.3
	recencyDecayDays = 14.0
	regionPenalty    = 0.2
	qualityPenalty   = 0.15

	// minDescriptionLen is the description length below which a listing is
	// treated as low quality.
	minDescriptionLen = 100

	// DefaultLimit bounds the result when Options.Limit is unset.
	DefaultLimit = 20
)

// Options tunes one ranking call. Unset list fields fall back to the
// profile's; Limit zero means DefaultLimit; Now zero means time.Now.
type Options struct {
	RoleKeywords     []string
	Regions          []string
	ExcludeCompanies []string
	Limit            int
	Now              time.Time
}

// Breakdown itemizes one job's score for display and debugging.
type Breakdown struct {
	SkillsJaccard  float64
	TitleBoost     float64
	RecencyBoost   float64
	RegionPenalty  float64
	QualityPenalty float64
}

// Ranked pairs a job with its score.
type Ranked struct {
	Job       model.CanonicalJob
	Score     float64
	Breakdown Breakdown
}

// Rank scores jobs against the profile and returns them ordered best first.
// Excluded companies are dropped before scoring; ties keep input order; the
// result is truncated to the limit. Identical inputs always produce identical
// output.
func Rank(jobs []model.CanonicalJob, profile model.UserJobProfile, opts Options) []Ranked {
	keywords := fallback(opts.RoleKeywords, profile.RoleKeywords)
	regions := fallback(opts.Regions, profile.PreferredRegions)
	excluded := excludeSet(fallback(opts.ExcludeCompanies, profile.ExcludeCompanies))

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	ranked := make([]Ranked, 0, len(jobs))
	for _, job := range jobs {
		if excluded[strings.ToLower(job.CompanyName)] {
			continue
		}
		b := score(job, profile.Skills, keywords, regions, now)
		total := weightSkills*b.SkillsJaccard + b.TitleBoost + b.RecencyBoost - b.RegionPenalty - b.QualityPenalty
		ranked = append(ranked, Ranked{Job: job, Score: clamp(total), Breakdown: b})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func score(job model.CanonicalJob, skills, keywords, regions []string, now time.Time) Breakdown {
	var b Breakdown

	b.SkillsJaccard = setJaccard(skills, job.Skills)

	title := strings.ToLower(job.Title)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(title, strings.ToLower(kw)) {
			b.TitleBoost += titleBoostStep
		}
	}
	if b.TitleBoost > titleBoostCap {
		b.TitleBoost = titleBoostCap
	}

	b.RecencyBoost = recency(job, now)

	if job.RegionEligibility != "" && len(regions) > 0 &&
		!normalize.RegionsOverlap(job.RegionEligibility, regions) {
		b.RegionPenalty = regionPenalty
	}

	if len(job.DescriptionText) < minDescriptionLen {
		b.QualityPenalty = qualityPenalty
	}

	return b
}

// recency decays linearly from recencyBoostMax at "posted now" to zero at
// recencyDecayDays, using posted_at or falling back to last_seen.
func recency(job model.CanonicalJob, now time.Time) float64 {
	ref := job.LastSeen
	if job.PostedAt != nil {
		ref = *job.PostedAt
	}
	days := now.Sub(ref).Hours() / 24
	if days < 0 {
		days = 0
	}
	if days >= recencyDecayDays {
		return 0
	}
	return recencyBoostMax * (1 - days/recencyDecayDays)
}

// setJaccard over lowercase sets; both empty is full similarity, exactly one
// empty is none.
func setJaccard(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	inter := 0
	for s := range setA {
		if setB[s] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			set[s] = true
		}
	}
	return set
}

func excludeSet(companies []string) map[string]bool {
	return toSet(companies)
}

func fallback(preferred, def []string) []string {
	if len(preferred) > 0 {
		return preferred
	}
	return def
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
