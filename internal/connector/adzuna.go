package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jobsift/jobsift/internal/fetch"
	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/normalize"
)

const (
	adzunaBaseURL  = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize = 50
	adzunaMaxPages = 3 // max 150 results per country
)

// adzunaResponse mirrors the top-level Adzuna JSON response.
type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

// adzunaResult mirrors a single Adzuna job listing.
type adzunaResult struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Company      adzunaCompany  `json:"company"`
	Location     adzunaLocation `json:"location"`
	SalaryMin    float64        `json:"salary_min"`
	SalaryMax    float64        `json:"salary_max"`
	RedirectURL  string         `json:"redirect_url"`
	Created      string         `json:"created"`
	ContractTime string         `json:"contract_time"`
	ContractType string         `json:"contract_type"`
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string `json:"display_name"`
}

// AdzunaConnector fetches from the Adzuna search API across one or more
// countries. Credentials are required; without them the connector reports
// itself disabled and returns empty results rather than an error.
type AdzunaConnector struct {
	client    *fetch.Client
	baseURL   string
	appID     string
	appKey    string
	countries []string // ISO country codes: "us", "gb", "de", ...
	what      string   // search keywords, e.g. "software engineer"
	now       func() time.Time
}

// NewAdzunaConnector creates the connector.
func NewAdzunaConnector(client *fetch.Client, appID, appKey string, countries []string, what string) *AdzunaConnector {
	return &AdzunaConnector{
		client:    client,
		baseURL:   adzunaBaseURL,
		appID:     appID,
		appKey:    appKey,
		countries: countries,
		what:      what,
		now:       time.Now,
	}
}

func (c *AdzunaConnector) Name() string { return SourceAdzuna }

func (c *AdzunaConnector) enabled() bool {
	return c.appID != "" && c.appKey != "" && len(c.countries) > 0
}

// FetchRecentJobs pages through each configured country sequentially,
// newest first. Pagination within a country is bounded by adzunaMaxPages;
// the shared window limiter provides the inter-page delay. A failed page
// returns what was collected so far along with the error.
func (c *AdzunaConnector) FetchRecentJobs(ctx context.Context) (model.FetchResult, error) {
	if !c.enabled() {
		return model.FetchResult{}, nil
	}

	var result model.FetchResult
	for _, country := range c.countries {
		for page := 1; page <= adzunaMaxPages; page++ {
			batch, err := c.fetchPage(ctx, country, page)
			if err != nil {
				return result, fmt.Errorf("adzuna %s page %d: %w", country, page, err)
			}
			if len(batch.Results) == 0 {
				break
			}

			for _, r := range batch.Results {
				if r.Title == "" || r.Company.DisplayName == "" {
					continue // malformed listing, skip the item
				}
				job := c.toCanonical(r, country)
				raw, _ := json.Marshal(r)
				result.Jobs = append(result.Jobs, job)
				result.Raw = append(result.Raw, model.RawItem{
					SourceJobID: r.ID,
					SourceURL:   job.ApplyURL,
					Payload:     string(raw),
				})
			}

			if len(batch.Results) < adzunaPageSize {
				break // last page
			}
		}
	}

	return result, nil
}

func (c *AdzunaConnector) fetchPage(ctx context.Context, country string, page int) (adzunaResponse, error) {
	endpoint := fmt.Sprintf("%s/%s/search/%d", c.baseURL, country, page)

	params := url.Values{}
	params.Set("app_id", c.appID)
	params.Set("app_key", c.appKey)
	params.Set("results_per_page", strconv.Itoa(adzunaPageSize))
	if c.what != "" {
		params.Set("what", c.what)
	}
	params.Set("content-type", "application/json")
	params.Set("sort_by", "date")

	body, err := c.client.Get(ctx, SourceAdzuna, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return adzunaResponse{}, err
	}

	var resp adzunaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return adzunaResponse{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return resp, nil
}

func (c *AdzunaConnector) toCanonical(r adzunaResult, country string) model.CanonicalJob {
	applyURL := r.RedirectURL
	if applyURL == "" {
		applyURL = fmt.Sprintf("https://www.adzuna.com/details/%s", r.ID)
	}

	job := model.CanonicalJob{
		Title:           r.Title,
		CompanyName:     r.Company.DisplayName,
		LocationRaw:     r.Location.DisplayName,
		Country:         country,
		EmploymentType:  normalize.EmploymentTypeOf(r.ContractTime, r.ContractType),
		DescriptionText: r.Description,
		ApplyURL:        applyURL,
		SourcePrimary:   SourceAdzuna,
		SourceJobID:     r.ID,
	}

	if r.SalaryMin > 0 {
		min := r.SalaryMin
		job.SalaryMin = &min
	}
	if r.SalaryMax > 0 {
		max := r.SalaryMax
		job.SalaryMax = &max
	}

	if r.Created != "" {
		if t, err := time.Parse(time.RFC3339, r.Created); err == nil {
			job.PostedAt = &t
		}
	}

	finalize(&job, c.now())
	return job
}
