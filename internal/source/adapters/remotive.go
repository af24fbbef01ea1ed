package adapters

import (
	"context"
	"fmt"
	"net/url"

	"jobscout-engine/internal/source"
	"jobscout-engine/internal/source/fetch"
	"jobscout-engine/pkg/models"
)

const remotiveAPI = "https://remotive.com/api/remote-jobs"

// Remotive queries the Remotive public API. Remote-only board, no location
// or time filtering server-side.
type Remotive struct {
	client *fetch.Client
}

// NewRemotive creates the Remotive adapter.
func NewRemotive(client *fetch.Client) *Remotive {
	return &Remotive{client: client}
}

func (r *Remotive) ID() string { return "remotive" }

type remotiveResponse struct {
	Jobs []struct {
		URL                       string `json:"url"`
		Title                     string `json:"title"`
		CompanyName               string `json:"company_name"`
		CandidateRequiredLocation string `json:"candidate_required_location"`
		JobType                   string `json:"job_type"`
		PublicationDate           string `json:"publication_date"`
		Salary                    string `json:"salary"`
	} `json:"jobs"`
}

// Search streams one API page per keyword.
func (r *Remotive) Search(ctx context.Context, keywords []string, filters models.FilterSpec, emit source.EmitFunc) error {
	for _, keyword := range keywords {
		endpoint := fmt.Sprintf("%s?search=%s&limit=100", remotiveAPI, url.QueryEscape(keyword))

		var resp remotiveResponse
		if err := r.client.GetJSON(ctx, endpoint, &resp); err != nil {
			return err
		}

		for _, job := range resp.Jobs {
			if filters.JobType != models.JobTypeAny && !jobTypeMatches(filters.JobType, job.JobType) {
				continue
			}
			fragment := source.Fragment{
				PortalID: r.ID(),
				Fields: map[string]string{
					"title":    job.Title,
					"company":  job.CompanyName,
					"link":     job.URL,
					"location": job.CandidateRequiredLocation,
					"job_type": job.JobType,
					"date":     job.PublicationDate,
					"salary":   job.Salary,
				},
			}
			if err := emit(fragment); err != nil {
				return err
			}
		}
	}
	return nil
}
