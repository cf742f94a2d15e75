package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jobsift/jobsift/internal/fetch"
	"github.com/jobsift/jobsift/internal/model"
)

const remoteOKBaseURL = "https://remoteok.com"

// remoteOKItem represents one entry of the RemoteOK API response. The first
// array element is a legal notice without a position and is skipped.
type remoteOKItem struct {
	ID          json.Number `json:"id"`
	Slug        string      `json:"slug"`
	Position    string      `json:"position"`
	Company     string      `json:"company"`
	Location    string      `json:"location"`
	Description string      `json:"description"`
	Tags        []string    `json:"tags"`
	URL         string      `json:"url"`
	ApplyURL    string      `json:"apply_url"`
	SalaryMin   float64     `json:"salary_min"`
	SalaryMax   float64     `json:"salary_max"`
	Date        string      `json:"date"`
}

// RemoteOKConnector fetches from the public RemoteOK API. Every posting on
// the board is remote by definition.
type RemoteOKConnector struct {
	client  *fetch.Client
	baseURL string
	enabled bool
	now     func() time.Time
}

// NewRemoteOKConnector creates the connector. When enabled is false,
// FetchRecentJobs returns an empty result without any network call.
func NewRemoteOKConnector(client *fetch.Client, enabled bool) *RemoteOKConnector {
	return &RemoteOKConnector{
		client:  client,
		baseURL: remoteOKBaseURL,
		enabled: enabled,
		now:     time.Now,
	}
}

func (c *RemoteOKConnector) Name() string { return SourceRemoteOK }

// FetchRecentJobs retrieves the current RemoteOK listings and maps them into
// canonical form.
func (c *RemoteOKConnector) FetchRecentJobs(ctx context.Context) (model.FetchResult, error) {
	if !c.enabled {
		return model.FetchResult{}, nil
	}

	body, err := c.client.Get(ctx, SourceRemoteOK, c.baseURL+"/api", nil)
	if err != nil {
		return model.FetchResult{}, fmt.Errorf("remoteok fetch: %w", err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return model.FetchResult{}, fmt.Errorf("remoteok fetch: %w", err)
	}

	var result model.FetchResult
	for _, raw := range items {
		var item remoteOKItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue // malformed item, skip
		}
		if item.Position == "" || item.Company == "" {
			continue // legal notice or incomplete listing
		}

		job := c.toCanonical(item)
		result.Jobs = append(result.Jobs, job)
		result.Raw = append(result.Raw, model.RawItem{
			SourceJobID: item.ID.String(),
			SourceURL:   job.ApplyURL,
			Payload:     string(raw),
		})
	}

	return result, nil
}

func (c *RemoteOKConnector) toCanonical(item remoteOKItem) model.CanonicalJob {
	applyURL := item.ApplyURL
	if applyURL == "" {
		applyURL = item.URL
	}
	if applyURL == "" {
		// Deterministic canonical URL so the job stays addressable.
		applyURL = fmt.Sprintf("%s/remote-jobs/%s", remoteOKBaseURL, item.ID.String())
	}

	job := model.CanonicalJob{
		Title:           item.Position,
		CompanyName:     item.Company,
		LocationRaw:     item.Location,
		RemoteType:      model.RemoteTypeRemote,
		DescriptionText: item.Description,
		ApplyURL:        applyURL,
		SourcePrimary:   SourceRemoteOK,
		SourceJobID:     item.ID.String(),
	}

	if item.SalaryMin > 0 {
		min := item.SalaryMin
		job.SalaryMin = &min
		job.SalaryCurrency = "USD"
	}
	if item.SalaryMax > 0 {
		max := item.SalaryMax
		job.SalaryMax = &max
		job.SalaryCurrency = "USD"
	}

	if item.Date != "" {
		if t, err := time.Parse(time.RFC3339, item.Date); err == nil {
			job.PostedAt = &t
		}
	}

	finalize(&job, c.now())
	return job
}
