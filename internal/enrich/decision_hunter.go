package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobscout-engine/pkg/models"
	"jobscout-engine/pkg/utils"
)

const hunterDomainSearch = "https://api.hunter.io/v2/domain-search"

// HunterProvider resolves verified contacts through the Hunter.io
// domain-search API. Paid, so it sits last in the chain and only exists when
// a key is configured. It never fabricates contacts: an empty API result is
// a definitive NotFound.
type HunterProvider struct {
	apiKey     string
	httpClient *http.Client
}

// NewHunterProvider creates the Hunter provider, or nil without an API key.
func NewHunterProvider(apiKey string, timeout time.Duration) *HunterProvider {
	if apiKey == "" {
		return nil
	}
	return &HunterProvider{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (h *HunterProvider) Name() string { return "hunter" }

type hunterResponse struct {
	Data struct {
		Emails []struct {
			Value      string `json:"value"`
			FirstName  string `json:"first_name"`
			LastName   string `json:"last_name"`
			Position   string `json:"position"`
			LinkedIn   string `json:"linkedin"`
			Confidence int    `json:"confidence"`
		} `json:"emails"`
	} `json:"data"`
}

// Find implements DecisionMakerProvider.
func (h *HunterProvider) Find(ctx context.Context, job *models.CanonicalJob) ([]models.DecisionMaker, error) {
	domain := utils.ExtractDomain(job.CompanyURL)
	if domain == "unknown" || domain == "" {
		return nil, fmt.Errorf("no company domain for %s", job.Company)
	}

	params := url.Values{}
	params.Set("domain", domain)
	params.Set("api_key", h.apiKey)
	params.Set("limit", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hunterDomainSearch+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hunter request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hunter returned status %d for %s", resp.StatusCode, domain)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var parsed hunterResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding hunter response: %w", err)
	}

	var makers []models.DecisionMaker
	for _, email := range parsed.Data.Emails {
		name := strings.TrimSpace(email.FirstName + " " + email.LastName)
		if name == "" || email.Position == "" {
			continue
		}
		if !isRelevantTitle(email.Position) {
			continue
		}
		makers = append(makers, models.DecisionMaker{
			Name:        name,
			Title:       email.Position,
			Email:       email.Value,
			LinkedInURL: email.LinkedIn,
			Provenance:  h.Name(),
			Confidence:  float64(email.Confidence) / 100,
		})
	}

	if len(makers) == 0 {
		return nil, fmt.Errorf("%w: no verified contacts for %s", ErrNotFound, domain)
	}
	return makers, nil
}
