package adapters

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"

	"jobscout-engine/internal/source"
	"jobscout-engine/internal/source/fetch"
	"jobscout-engine/pkg/models"
)

const reedAPI = "https://www.reed.co.uk/api/1.0/search"

// Reed queries the Reed.co.uk jobseeker API (UK market). Authentication is
// HTTP basic with the API key as username and an empty password.
type Reed struct {
	client *fetch.Client
}

// NewReed creates the Reed adapter. The API key is baked into the client's
// headers at construction time.
func NewReed(client *fetch.Client) *Reed {
	return &Reed{client: client}
}

// ReedAuthHeader builds the basic auth header value for a Reed API key.
func ReedAuthHeader(apiKey string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(apiKey+":"))
}

func (r *Reed) ID() string { return "reed" }

type reedResponse struct {
	Results []struct {
		JobTitle       string  `json:"jobTitle"`
		EmployerName   string  `json:"employerName"`
		LocationName   string  `json:"locationName"`
		JobURL         string  `json:"jobUrl"`
		Date           string  `json:"date"` // dd/mm/yyyy
		MinimumSalary  float64 `json:"minimumSalary"`
		MaximumSalary  float64 `json:"maximumSalary"`
		FullTime       bool    `json:"fullTime"`
		PartTime       bool    `json:"partTime"`
		ContractType   string  `json:"contractType"`
		JobDescription string  `json:"jobDescription"`
	} `json:"results"`
}

// Search queries one API page per keyword.
func (r *Reed) Search(ctx context.Context, keywords []string, filters models.FilterSpec, emit source.EmitFunc) error {
	for _, keyword := range keywords {
		params := url.Values{}
		params.Set("keywords", keyword)
		params.Set("resultsToTake", "100")
		if filters.Location != "" {
			params.Set("locationName", filters.Location)
		}
		switch filters.JobType {
		case models.JobTypeFullTime:
			params.Set("fullTime", "true")
		case models.JobTypePartTime:
			params.Set("partTime", "true")
		}

		var resp reedResponse
		if err := r.client.GetJSON(ctx, reedAPI+"?"+params.Encode(), &resp); err != nil {
			return err
		}

		for _, job := range resp.Results {
			salary := ""
			if job.MinimumSalary > 0 || job.MaximumSalary > 0 {
				salary = fmt.Sprintf("£%.0f - £%.0f", job.MinimumSalary, job.MaximumSalary)
			}
			jobType := ""
			switch {
			case job.FullTime:
				jobType = "full_time"
			case job.PartTime:
				jobType = "part_time"
			}

			fragment := source.Fragment{
				PortalID: r.ID(),
				Fields: map[string]string{
					"title":       job.JobTitle,
					"company":     job.EmployerName,
					"link":        job.JobURL,
					"location":    job.LocationName,
					"date":        job.Date,
					"job_type":    jobType,
					"salary":      salary,
					"description": job.JobDescription,
					"market":      string(models.MarketUK),
				},
			}
			if err := emit(fragment); err != nil {
				return err
			}
		}
	}
	return nil
}
