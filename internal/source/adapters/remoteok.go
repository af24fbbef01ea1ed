package adapters

import (
	"context"
	"fmt"
	"strings"

	"jobscout-engine/internal/source"
	"jobscout-engine/internal/source/fetch"
	"jobscout-engine/pkg/models"
)

const remoteokAPI = "https://remoteok.com/api"

// RemoteOK queries the RemoteOK public API. The API returns the whole board
// in one response, so keyword matching happens client-side.
type RemoteOK struct {
	client *fetch.Client
}

// NewRemoteOK creates the RemoteOK adapter.
func NewRemoteOK(client *fetch.Client) *RemoteOK {
	return &RemoteOK{client: client}
}

func (r *RemoteOK) ID() string { return "remoteok" }

type remoteokJob struct {
	// The first array element is a legal notice with none of these set.
	Position  string   `json:"position"`
	Company   string   `json:"company"`
	URL       string   `json:"url"`
	Location  string   `json:"location"`
	Date      string   `json:"date"`
	Tags      []string `json:"tags"`
	SalaryMin int      `json:"salary_min"`
	SalaryMax int      `json:"salary_max"`
}

// Search fetches the board once and emits entries matching any keyword.
func (r *RemoteOK) Search(ctx context.Context, keywords []string, filters models.FilterSpec, emit source.EmitFunc) error {
	var jobs []remoteokJob
	if err := r.client.GetJSON(ctx, remoteokAPI, &jobs); err != nil {
		return err
	}

	for _, job := range jobs {
		if job.Position == "" || job.URL == "" {
			continue
		}
		if !matchesAnyKeyword(keywords, job.Position, strings.Join(job.Tags, " ")) {
			continue
		}

		salary := ""
		if job.SalaryMin > 0 || job.SalaryMax > 0 {
			salary = fmt.Sprintf("$%d - $%d", job.SalaryMin, job.SalaryMax)
		}

		fragment := source.Fragment{
			PortalID: r.ID(),
			Fields: map[string]string{
				"title":    job.Position,
				"company":  job.Company,
				"link":     job.URL,
				"location": job.Location,
				"date":     job.Date,
				"job_type": "remote",
				"salary":   salary,
			},
		}
		if err := emit(fragment); err != nil {
			return err
		}
	}
	return nil
}
