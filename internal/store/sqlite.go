package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jobsift/jobsift/internal/dedupe"
	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/normalize"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	dedupe_key         TEXT NOT NULL UNIQUE,
	title              TEXT NOT NULL,
	company_name       TEXT NOT NULL,
	company_domain     TEXT NOT NULL DEFAULT '',
	location_raw       TEXT NOT NULL DEFAULT '',
	country            TEXT NOT NULL DEFAULT '',
	is_remote          INTEGER NOT NULL DEFAULT 0,
	remote_type        TEXT NOT NULL DEFAULT 'unknown',
	region_eligibility TEXT NOT NULL DEFAULT '',
	employment_type    TEXT NOT NULL DEFAULT '',
	seniority          TEXT NOT NULL DEFAULT '',
	salary_min         REAL,
	salary_max         REAL,
	salary_currency    TEXT NOT NULL DEFAULT '',
	description_text   TEXT NOT NULL DEFAULT '',
	requirements_text  TEXT NOT NULL DEFAULT '',
	skills             TEXT NOT NULL DEFAULT '[]',
	apply_url          TEXT NOT NULL,
	url_norm           TEXT NOT NULL,
	company_norm       TEXT NOT NULL,
	title_norm         TEXT NOT NULL,
	source_primary     TEXT NOT NULL,
	source_job_id      TEXT NOT NULL,
	posted_at          DATETIME,
	first_seen         DATETIME NOT NULL,
	last_seen          DATETIME NOT NULL,
	status             TEXT NOT NULL DEFAULT 'active'
);
CREATE INDEX IF NOT EXISTS idx_jobs_url_norm ON jobs(url_norm, status);
CREATE INDEX IF NOT EXISTS idx_jobs_company_norm ON jobs(company_norm, status);
CREATE INDEX IF NOT EXISTS idx_jobs_status_last_seen ON jobs(status, last_seen);

CREATE TABLE IF NOT EXISTS job_sources (
	source        TEXT NOT NULL,
	source_job_id TEXT NOT NULL,
	source_url    TEXT NOT NULL DEFAULT '',
	raw_payload   TEXT NOT NULL DEFAULT '',
	job_id        INTEGER NOT NULL REFERENCES jobs(id),
	seen_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (source, source_job_id)
);

CREATE TABLE IF NOT EXISTS sync_metrics (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	source     TEXT NOT NULL,
	timestamp  DATETIME NOT NULL,
	status     TEXT NOT NULL,
	fetched    INTEGER NOT NULL DEFAULT 0,
	upserted   INTEGER NOT NULL DEFAULT 0,
	duplicates INTEGER NOT NULL DEFAULT 0,
	errors     INTEGER NOT NULL DEFAULT 0,
	last_error TEXT NOT NULL DEFAULT ''
);
`

const jobColumns = `id, dedupe_key, title, company_name, company_domain, location_raw,
	country, is_remote, remote_type, region_eligibility, employment_type, seniority,
	salary_min, salary_max, salary_currency, description_text, requirements_text,
	skills, apply_url, source_primary, source_job_id, posted_at, first_seen,
	last_seen, status`

// SQLiteStore persists canonical jobs, their per-source records, and sync
// metrics in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// FindByDedupeKey returns the job with the given dedupe key, or nil if none
// exists.
func (s *SQLiteStore) FindByDedupeKey(key string) (*model.CanonicalJob, error) {
	row := s.db.QueryRow("SELECT "+jobColumns+" FROM jobs WHERE dedupe_key = ?", key)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding job by dedupe key: %w", err)
	}
	return job, nil
}

// FindActiveByURL returns the active job whose normalized apply URL matches,
// or nil if none exists.
func (s *SQLiteStore) FindActiveByURL(normalizedURL string) (*model.CanonicalJob, error) {
	row := s.db.QueryRow(
		"SELECT "+jobColumns+" FROM jobs WHERE url_norm = ? AND status = ? LIMIT 1",
		normalizedURL, string(model.StatusActive),
	)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding job by url: %w", err)
	}
	return job, nil
}

// Candidates returns active jobs eligible for fuzzy matching: every job
// sharing the normalized company, plus jobs from the same source whose
// normalized title starts with the given prefix. The company branch carries
// no source or title filter so reposts and retitled copies stay visible.
func (s *SQLiteStore) Candidates(normalizedCompany, source, titlePrefix string) ([]model.CanonicalJob, error) {
	rows, err := s.db.Query(
		"SELECT "+jobColumns+` FROM jobs
		 WHERE (company_norm = ? OR (source_primary = ? AND title_norm LIKE ?)) AND status = ?`,
		normalizedCompany, source, titlePrefix+"%", string(model.StatusActive),
	)
	if err != nil {
		return nil, fmt.Errorf("querying match candidates: %w", err)
	}
	defer rows.Close()

	var jobs []model.CanonicalJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning match candidate: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// Upsert inserts the job when match is nil, otherwise merges it into the
// matched job. A unique-constraint violation on dedupe_key (two sources
// racing the same posting) is recovered by re-reading and merging instead.
func (s *SQLiteStore) Upsert(job model.CanonicalJob, match *model.Match) (model.UpsertResult, error) {
	if match != nil {
		if err := s.merge(job, match.Job); err != nil {
			return model.UpsertResult{}, err
		}
		return model.UpsertResult{JobID: match.Job.ID, Duplicate: true}, nil
	}

	id, err := s.insert(job)
	if err == nil {
		return model.UpsertResult{JobID: id, Inserted: true}, nil
	}
	if !isUniqueViolation(err) {
		return model.UpsertResult{}, fmt.Errorf("inserting job: %w", err)
	}

	existing, ferr := s.FindByDedupeKey(job.DedupeKey)
	if ferr != nil {
		return model.UpsertResult{}, ferr
	}
	if existing == nil {
		return model.UpsertResult{}, fmt.Errorf("inserting job: %w", err)
	}
	if err := s.merge(job, existing); err != nil {
		return model.UpsertResult{}, err
	}
	return model.UpsertResult{JobID: existing.ID, Duplicate: true}, nil
}

func (s *SQLiteStore) insert(job model.CanonicalJob) (int64, error) {
	skills, err := json.Marshal(job.Skills)
	if err != nil {
		return 0, fmt.Errorf("encoding skills: %w", err)
	}

	res, err := s.db.Exec(`INSERT INTO jobs (
		dedupe_key, title, company_name, company_domain, location_raw, country,
		is_remote, remote_type, region_eligibility, employment_type, seniority,
		salary_min, salary_max, salary_currency, description_text, requirements_text,
		skills, apply_url, url_norm, company_norm, title_norm,
		source_primary, source_job_id, posted_at, first_seen, last_seen, status
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.DedupeKey, job.Title, job.CompanyName, job.CompanyDomain, job.LocationRaw, job.Country,
		job.IsRemote, string(job.RemoteType), job.RegionEligibility, job.EmploymentType, job.Seniority,
		nullFloat(job.SalaryMin), nullFloat(job.SalaryMax), job.SalaryCurrency,
		job.DescriptionText, job.RequirementsText,
		string(skills), job.ApplyURL,
		normalize.ApplyURL(job.ApplyURL), normalize.CompanyForMatch(job.CompanyName), normalize.Title(job.Title),
		job.SourcePrimary, job.SourceJobID,
		nullTime(job.PostedAt), job.FirstSeen.UTC(), job.LastSeen.UTC(), string(job.Status),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// merge folds an incoming duplicate into the stored job: bumps last_seen,
// fills fields the stored job is missing, and replaces the content fields
// when the incoming copy is richer.
func (s *SQLiteStore) merge(incoming model.CanonicalJob, current *model.CanonicalJob) error {
	merged := *current
	merged.LastSeen = incoming.LastSeen
	merged.Status = model.StatusActive

	if merged.SalaryMin == nil && incoming.SalaryMin != nil {
		merged.SalaryMin = incoming.SalaryMin
		merged.SalaryMax = incoming.SalaryMax
		merged.SalaryCurrency = incoming.SalaryCurrency
	}
	if merged.PostedAt == nil && incoming.PostedAt != nil {
		merged.PostedAt = incoming.PostedAt
	}
	if merged.RegionEligibility == "" {
		merged.RegionEligibility = incoming.RegionEligibility
	}
	if merged.Seniority == "" {
		merged.Seniority = incoming.Seniority
	}
	if merged.EmploymentType == "" {
		merged.EmploymentType = incoming.EmploymentType
	}
	if merged.CompanyDomain == "" {
		merged.CompanyDomain = incoming.CompanyDomain
	}
	merged.Skills = normalize.MergeSkills(merged.Skills, incoming.Skills)

	if dedupe.Richer(incoming, *current) {
		merged.Title = incoming.Title
		merged.DescriptionText = incoming.DescriptionText
		merged.RequirementsText = incoming.RequirementsText
		merged.ApplyURL = incoming.ApplyURL
		merged.SourcePrimary = incoming.SourcePrimary
		merged.SourceJobID = incoming.SourceJobID
		merged.LocationRaw = incoming.LocationRaw
		merged.RemoteType = incoming.RemoteType
		merged.IsRemote = incoming.IsRemote
	}

	skills, err := json.Marshal(merged.Skills)
	if err != nil {
		return fmt.Errorf("encoding skills: %w", err)
	}

	_, err = s.db.Exec(`UPDATE jobs SET
		title = ?, company_domain = ?, location_raw = ?,
		is_remote = ?, remote_type = ?, region_eligibility = ?,
		employment_type = ?, seniority = ?,
		salary_min = ?, salary_max = ?, salary_currency = ?,
		description_text = ?, requirements_text = ?, skills = ?,
		apply_url = ?, url_norm = ?, title_norm = ?,
		source_primary = ?, source_job_id = ?,
		posted_at = ?, last_seen = ?, status = ?
	WHERE id = ?`,
		merged.Title, merged.CompanyDomain, merged.LocationRaw,
		merged.IsRemote, string(merged.RemoteType), merged.RegionEligibility,
		merged.EmploymentType, merged.Seniority,
		nullFloat(merged.SalaryMin), nullFloat(merged.SalaryMax), merged.SalaryCurrency,
		merged.DescriptionText, merged.RequirementsText, string(skills),
		merged.ApplyURL, normalize.ApplyURL(merged.ApplyURL), normalize.Title(merged.Title),
		merged.SourcePrimary, merged.SourceJobID,
		nullTime(merged.PostedAt), merged.LastSeen.UTC(), string(merged.Status),
		current.ID,
	)
	if err != nil {
		return fmt.Errorf("merging job %d: %w", current.ID, err)
	}
	*current = merged
	return nil
}

// RecordSource records (or refreshes) one provider's copy of a posting.
func (s *SQLiteStore) RecordSource(rec model.SourceRecord) error {
	_, err := s.db.Exec(`INSERT INTO job_sources (source, source_job_id, source_url, raw_payload, job_id, seen_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(source, source_job_id) DO UPDATE SET
			source_url = excluded.source_url,
			raw_payload = excluded.raw_payload,
			job_id = excluded.job_id,
			seen_at = CURRENT_TIMESTAMP`,
		rec.Source, rec.SourceJobID, rec.SourceURL, rec.RawPayload, rec.JobID,
	)
	if err != nil {
		return fmt.Errorf("recording source %s/%s: %w", rec.Source, rec.SourceJobID, err)
	}
	return nil
}

// MarkExpired transitions active jobs not seen since the cutoff to expired
// and returns how many rows changed. Removed jobs are left alone.
func (s *SQLiteStore) MarkExpired(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(
		"UPDATE jobs SET status = ? WHERE status = ? AND last_seen < ?",
		string(model.StatusExpired), string(model.StatusActive), cutoff.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("marking expired jobs: %w", err)
	}
	return res.RowsAffected()
}

// RecordSyncMetrics appends one source's sync outcome.
func (s *SQLiteStore) RecordSyncMetrics(m model.SyncMetrics) error {
	_, err := s.db.Exec(`INSERT INTO sync_metrics (source, timestamp, status, fetched, upserted, duplicates, errors, last_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Source, m.Timestamp.UTC(), m.Status, m.Fetched, m.Upserted, m.Duplicates, m.Errors, m.LastError,
	)
	if err != nil {
		return fmt.Errorf("recording sync metrics for %s: %w", m.Source, err)
	}
	return nil
}

// ListActive returns every active job, most recently seen first.
func (s *SQLiteStore) ListActive() ([]model.CanonicalJob, error) {
	rows, err := s.db.Query("SELECT " + jobColumns + " FROM jobs WHERE status = 'active' ORDER BY last_seen DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("listing active jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.CanonicalJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*model.CanonicalJob, error) {
	var (
		job        model.CanonicalJob
		remoteType string
		status     string
		salaryMin  sql.NullFloat64
		salaryMax  sql.NullFloat64
		skillsJSON string
		postedAt   sql.NullTime
	)

	err := row.Scan(
		&job.ID, &job.DedupeKey, &job.Title, &job.CompanyName, &job.CompanyDomain,
		&job.LocationRaw, &job.Country, &job.IsRemote, &remoteType, &job.RegionEligibility,
		&job.EmploymentType, &job.Seniority, &salaryMin, &salaryMax, &job.SalaryCurrency,
		&job.DescriptionText, &job.RequirementsText, &skillsJSON, &job.ApplyURL,
		&job.SourcePrimary, &job.SourceJobID, &postedAt, &job.FirstSeen, &job.LastSeen, &status,
	)
	if err != nil {
		return nil, err
	}

	job.RemoteType = model.RemoteType(remoteType)
	job.Status = model.JobStatus(status)
	if salaryMin.Valid {
		job.SalaryMin = &salaryMin.Float64
	}
	if salaryMax.Valid {
		job.SalaryMax = &salaryMax.Float64
	}
	if postedAt.Valid {
		t := postedAt.Time
		job.PostedAt = &t
	}
	if err := json.Unmarshal([]byte(skillsJSON), &job.Skills); err != nil {
		return nil, fmt.Errorf("decoding skills: %w", err)
	}
	return &job, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
