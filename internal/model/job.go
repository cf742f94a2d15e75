package model

import (
	"context"
	"time"
)

// RemoteType classifies how location-bound a job is.
type RemoteType string

const (
	RemoteTypeRemote  RemoteType = "remote"
	RemoteTypeHybrid  RemoteType = "hybrid"
	RemoteTypeOnsite  RemoteType = "onsite"
	RemoteTypeUnknown RemoteType = "unknown"
)

// JobStatus is the lifecycle state of a canonical job.
type JobStatus string

const (
	StatusActive  JobStatus = "active"
	StatusExpired JobStatus = "expired"
	StatusRemoved JobStatus = "removed"
)

// CanonicalJob is the single deduplicated representation of a posting,
// merged across every source that reported it.
type CanonicalJob struct {
	ID        int64  // store-assigned, zero until persisted
	DedupeKey string // derived from normalized company, title, apply URL, posted day

	Title         string
	CompanyName   string
	CompanyDomain string
	LocationRaw   string
	Country       string

	IsRemote          bool
	RemoteType        RemoteType
	RegionEligibility string // joined standard region codes, e.g. "US, LATAM"

	EmploymentType string
	Seniority      string

	SalaryMin      *float64
	SalaryMax      *float64
	SalaryCurrency string

	DescriptionText  string
	RequirementsText string
	Skills           []string // lowercase, sorted, deduplicated

	ApplyURL      string
	SourcePrimary string // connector whose content fields are authoritative
	SourceJobID   string // native id at SourcePrimary
	PostedAt      *time.Time
	FirstSeen     time.Time
	LastSeen      time.Time
	Status        JobStatus
}

// RawItem preserves a provider's original payload for the audit trail.
type RawItem struct {
	SourceJobID string
	SourceURL   string
	Payload     string // raw JSON/XML/HTML fragment as received
}

// FetchResult pairs normalized jobs with the raw items they came from,
// index-aligned.
type FetchResult struct {
	Jobs []CanonicalJob
	Raw  []RawItem
}

// SourceRecord links one provider's copy of a posting to the canonical job
// it produced or was merged into. Keyed by (source, source job id).
type SourceRecord struct {
	Source      string
	SourceJobID string
	SourceURL   string
	RawPayload  string
	JobID       int64
}

// SyncMetrics captures the outcome of one source's sync for observability.
type SyncMetrics struct {
	Source     string
	Timestamp  time.Time
	Status     string // "ok" or "error"
	Fetched    int
	Upserted   int
	Duplicates int
	Errors     int
	LastError  string
}

// UserJobProfile is the read-only ranking input owned by the surrounding
// application.
type UserJobProfile struct {
	Skills           []string
	RoleKeywords     []string
	PreferredRegions []string
	ExcludeCompanies []string
}

// Connector fetches recent postings from one external job board and maps
// them into canonical form. A disabled connector (missing credentials,
// feature-flagged off) returns an empty FetchResult, not an error.
type Connector interface {
	Name() string
	FetchRecentJobs(ctx context.Context) (FetchResult, error)
}

// JobByIDFetcher is implemented by connectors that can address a single
// posting by its source-native id.
type JobByIDFetcher interface {
	FetchJobBySourceID(ctx context.Context, id string) (FetchResult, error)
}

// Match describes a duplicate judgment against an existing canonical job.
type Match struct {
	Job        *CanonicalJob
	Similarity float64
	Reason     string // "same_url", "same_key", or "fuzzy"
}

// UpsertResult reports what the store did with a job.
type UpsertResult struct {
	JobID     int64
	Inserted  bool
	Duplicate bool
}

// Store is the persistence contract consumed by the pipeline.
// Implementations must be idempotent: the same dedupe key never yields a
// second row, even under concurrent callers.
type Store interface {
	FindByDedupeKey(key string) (*CanonicalJob, error)
	FindActiveByURL(normalizedURL string) (*CanonicalJob, error)
	Candidates(normalizedCompany, source, titlePrefix string) ([]CanonicalJob, error)
	Upsert(job CanonicalJob, match *Match) (UpsertResult, error)
	RecordSource(rec SourceRecord) error
	MarkExpired(cutoff time.Time) (int64, error)
	RecordSyncMetrics(m SyncMetrics) error
	ListActive() ([]CanonicalJob, error)
}

// SkillEnricher is an optional LLM side channel that suggests additional
// skills for a description. It must fail open: implementations return an
// empty slice on any error, timeout, or malformed response.
type SkillEnricher interface {
	ExtractSkills(ctx context.Context, description string) ([]string, error)
}
