package connector

import (
	"time"

	"github.com/jobsift/jobsift/internal/dedupe"
	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/normalize"
)

// Source identifiers for the built-in connectors. Custom scrapers are keyed
// "custom:<name>".
const (
	SourceRemoteOK = "remoteok"
	SourceRemotive = "remotive"
	SourceAdzuna   = "adzuna"
)

// finalize fills the derived fields every connector must compute before
// returning a job: stripped description, inferred remote semantics, region
// eligibility, seniority, employment type, skills, lifecycle timestamps, and
// the dedupe key. Provider-asserted values already present are kept.
func finalize(job *model.CanonicalJob, now time.Time) {
	job.DescriptionText = normalize.StripHTML(job.DescriptionText)
	job.RequirementsText = normalize.StripHTML(job.RequirementsText)

	if job.RemoteType == "" || job.RemoteType == model.RemoteTypeUnknown {
		job.RemoteType = normalize.RemoteTypeOf(job.Title, job.DescriptionText, job.LocationRaw)
	}
	job.IsRemote = job.RemoteType == model.RemoteTypeRemote || job.RemoteType == model.RemoteTypeHybrid

	if job.RegionEligibility == "" {
		job.RegionEligibility = normalize.Regions(job.LocationRaw + " " + job.DescriptionText)
	}
	if job.Seniority == "" {
		job.Seniority = normalize.SeniorityOf(job.Title)
	}
	if job.EmploymentType == "" {
		job.EmploymentType = normalize.EmploymentTypeOf(job.Title, job.DescriptionText)
	}
	if len(job.Skills) == 0 {
		job.Skills = normalize.Skills(job.Title, job.DescriptionText, job.RequirementsText)
	}

	job.FirstSeen = now
	job.LastSeen = now
	job.Status = model.StatusActive
	job.DedupeKey = dedupe.KeyFor(*job)
}
