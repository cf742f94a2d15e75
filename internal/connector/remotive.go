package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jobsift/jobsift/internal/fetch"
	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/normalize"
)

const remotiveBaseURL = "https://remotive.com"

// remotivePublicationLayout is Remotive's publication_date format, which
// omits a timezone offset. Times are treated as UTC.
const remotivePublicationLayout = "2006-01-02T15:04:05"

// remotiveJob represents one job of the Remotive API response.
type remotiveJob struct {
	ID                        int64  `json:"id"`
	URL                       string `json:"url"`
	Title                     string `json:"title"`
	CompanyName               string `json:"company_name"`
	Category                  string `json:"category"`
	JobType                   string `json:"job_type"`
	PublicationDate           string `json:"publication_date"`
	CandidateRequiredLocation string `json:"candidate_required_location"`
	Salary                    string `json:"salary"`
	Description               string `json:"description"`
}

// remotiveResponse is the top-level Remotive API response.
type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

// RemotiveConnector fetches from the public Remotive remote-jobs API.
type RemotiveConnector struct {
	client  *fetch.Client
	baseURL string
	enabled bool
	now     func() time.Time
}

// NewRemotiveConnector creates the connector. When enabled is false,
// FetchRecentJobs returns an empty result without any network call.
func NewRemotiveConnector(client *fetch.Client, enabled bool) *RemotiveConnector {
	return &RemotiveConnector{
		client:  client,
		baseURL: remotiveBaseURL,
		enabled: enabled,
		now:     time.Now,
	}
}

func (c *RemotiveConnector) Name() string { return SourceRemotive }

// FetchRecentJobs retrieves the current Remotive listings and maps them into
// canonical form. Items missing a title or company are skipped, not fatal.
func (c *RemotiveConnector) FetchRecentJobs(ctx context.Context) (model.FetchResult, error) {
	if !c.enabled {
		return model.FetchResult{}, nil
	}

	body, err := c.client.Get(ctx, SourceRemotive, c.baseURL+"/api/remote-jobs", nil)
	if err != nil {
		return model.FetchResult{}, fmt.Errorf("remotive fetch: %w", err)
	}

	var resp remotiveResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.FetchResult{}, fmt.Errorf("remotive fetch: %w", err)
	}

	var result model.FetchResult
	for _, rj := range resp.Jobs {
		if rj.Title == "" || rj.CompanyName == "" {
			continue
		}

		job := c.toCanonical(rj)
		raw, _ := json.Marshal(rj)
		result.Jobs = append(result.Jobs, job)
		result.Raw = append(result.Raw, model.RawItem{
			SourceJobID: fmt.Sprintf("%d", rj.ID),
			SourceURL:   job.ApplyURL,
			Payload:     string(raw),
		})
	}

	return result, nil
}

// FetchJobBySourceID fetches the full listing set and filters to one id;
// Remotive has no per-job endpoint.
func (c *RemotiveConnector) FetchJobBySourceID(ctx context.Context, id string) (model.FetchResult, error) {
	all, err := c.FetchRecentJobs(ctx)
	if err != nil {
		return model.FetchResult{}, err
	}
	for i, raw := range all.Raw {
		if raw.SourceJobID == id {
			return model.FetchResult{
				Jobs: []model.CanonicalJob{all.Jobs[i]},
				Raw:  []model.RawItem{raw},
			}, nil
		}
	}
	return model.FetchResult{}, nil
}

func (c *RemotiveConnector) toCanonical(rj remotiveJob) model.CanonicalJob {
	applyURL := rj.URL
	if applyURL == "" {
		applyURL = fmt.Sprintf("%s/remote-jobs/%d", remotiveBaseURL, rj.ID)
	}

	job := model.CanonicalJob{
		Title:             rj.Title,
		CompanyName:       rj.CompanyName,
		LocationRaw:       rj.CandidateRequiredLocation,
		RemoteType:        model.RemoteTypeRemote,
		RegionEligibility: normalize.Regions(rj.CandidateRequiredLocation),
		EmploymentType:    normalize.EmploymentTypeOf(rj.JobType),
		DescriptionText:   rj.Description,
		ApplyURL:          applyURL,
		SourcePrimary:     SourceRemotive,
		SourceJobID:       fmt.Sprintf("%d", rj.ID),
	}

	if min, max := normalize.Salary(rj.Salary); min != nil {
		job.SalaryMin = min
		job.SalaryMax = max
	}

	if rj.PublicationDate != "" {
		if t, err := time.Parse(remotivePublicationLayout, rj.PublicationDate); err == nil {
			t = t.UTC()
			job.PostedAt = &t
		}
	}

	finalize(&job, c.now())
	return job
}
