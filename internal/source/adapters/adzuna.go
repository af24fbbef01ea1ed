package adapters

import (
	"context"
	"fmt"
	"net/url"

	"jobscout-engine/internal/source"
	"jobscout-engine/internal/source/fetch"
	"jobscout-engine/pkg/models"
)

const adzunaAPI = "https://api.adzuna.com/v1/api/jobs"

// Adzuna queries the Adzuna search API. Requires an app id/key pair; the
// registry disables the portal when credentials are missing.
type Adzuna struct {
	client *fetch.Client
	appID  string
	appKey string
}

// NewAdzuna creates the Adzuna adapter.
func NewAdzuna(client *fetch.Client, appID, appKey string) *Adzuna {
	return &Adzuna{client: client, appID: appID, appKey: appKey}
}

func (a *Adzuna) ID() string { return "adzuna" }

type adzunaResponse struct {
	Results []struct {
		Title   string `json:"title"`
		Company struct {
			DisplayName string `json:"display_name"`
		} `json:"company"`
		Location struct {
			DisplayName string `json:"display_name"`
		} `json:"location"`
		RedirectURL  string  `json:"redirect_url"`
		Created      string  `json:"created"`
		SalaryMin    float64 `json:"salary_min"`
		SalaryMax    float64 `json:"salary_max"`
		ContractTime string  `json:"contract_time"`
		ContractType string  `json:"contract_type"`
	} `json:"results"`
}

// Search queries one result page per keyword, honoring the time window and
// location filters natively.
func (a *Adzuna) Search(ctx context.Context, keywords []string, filters models.FilterSpec, emit source.EmitFunc) error {
	country := "gb"
	if filters.Market == models.MarketUSA {
		country = "us"
	}

	for _, keyword := range keywords {
		params := url.Values{}
		params.Set("app_id", a.appID)
		params.Set("app_key", a.appKey)
		params.Set("what", keyword)
		params.Set("results_per_page", "50")
		params.Set("content-type", "application/json")
		if days := filters.TimeWindow.Days(); days > 0 {
			params.Set("max_days_old", fmt.Sprintf("%d", days))
		}
		if filters.Location != "" {
			params.Set("where", filters.Location)
		}
		switch filters.JobType {
		case models.JobTypeFullTime:
			params.Set("full_time", "1")
		case models.JobTypePartTime:
			params.Set("part_time", "1")
		case models.JobTypeContract:
			params.Set("contract", "1")
		}

		endpoint := fmt.Sprintf("%s/%s/search/1?%s", adzunaAPI, country, params.Encode())

		var resp adzunaResponse
		if err := a.client.GetJSON(ctx, endpoint, &resp); err != nil {
			return err
		}

		market := models.MarketUK
		if country == "us" {
			market = models.MarketUSA
		}

		for _, job := range resp.Results {
			salary := ""
			if job.SalaryMin > 0 || job.SalaryMax > 0 {
				salary = fmt.Sprintf("%.0f - %.0f", job.SalaryMin, job.SalaryMax)
			}
			jobType := job.ContractTime
			if jobType == "" {
				jobType = job.ContractType
			}

			fragment := source.Fragment{
				PortalID: a.ID(),
				Fields: map[string]string{
					"title":    job.Title,
					"company":  job.Company.DisplayName,
					"link":     job.RedirectURL,
					"location": job.Location.DisplayName,
					"date":     job.Created,
					"job_type": jobType,
					"salary":   salary,
					"market":   string(market),
				},
			}
			if err := emit(fragment); err != nil {
				return err
			}
		}
	}
	return nil
}
