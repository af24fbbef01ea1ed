package enrich

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"jobscout-engine/internal/source/fetch"
	"jobscout-engine/pkg/models"
)

var employeeCount = regexp.MustCompile(`(?i)(\d[\d,]*)\s*\+?\s*(?:employees|people|team members|staff)`)
var teamOf = regexp.MustCompile(`(?i)team of\s*(\d[\d,]*)`)

// WebsiteSizeProvider scrapes the company site for a headcount mention.
type WebsiteSizeProvider struct {
	fetcher fetch.PageFetcher
}

// NewWebsiteSizeProvider creates the website-scrape size provider.
func NewWebsiteSizeProvider(fetcher fetch.PageFetcher) *WebsiteSizeProvider {
	return &WebsiteSizeProvider{fetcher: fetcher}
}

func (w *WebsiteSizeProvider) Name() string { return "website_scrape" }

// Resolve implements CompanySizeProvider.
func (w *WebsiteSizeProvider) Resolve(ctx context.Context, job *models.CanonicalJob) (models.CompanySize, error) {
	if job.CompanyURL == "" {
		return models.CompanySizeUnknown, fmt.Errorf("no company url for %s", job.Company)
	}

	var lastErr error
	for _, path := range []string{"/about", ""} {
		pageURL := strings.TrimSuffix(job.CompanyURL, "/") + path

		html, err := w.fetcher.HTML(ctx, pageURL)
		if err != nil {
			lastErr = err
			continue
		}

		if size, ok := sizeFromText(html); ok {
			return size, nil
		}
	}

	if lastErr != nil {
		return models.CompanySizeUnknown, fmt.Errorf("website lookup for %s: %w", job.Company, lastErr)
	}
	return models.CompanySizeUnknown, fmt.Errorf("%w: no headcount mention on %s", ErrNotFound, job.CompanyURL)
}

// sizeFromText finds a headcount claim in page text and buckets it.
func sizeFromText(text string) (models.CompanySize, bool) {
	for _, re := range []*regexp.Regexp{employeeCount, teamOf} {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}
		return BucketHeadcount(n), true
	}
	return models.CompanySizeUnknown, false
}

// BucketHeadcount maps a headcount onto the size enum.
func BucketHeadcount(n int) models.CompanySize {
	switch {
	case n <= 0:
		return models.CompanySizeUnknown
	case n <= 50:
		return models.CompanySizeSmall
	case n <= 250:
		return models.CompanySizeMedium
	case n <= 1000:
		return models.CompanySizeLarge
	default:
		return models.CompanySizeEnterprise
	}
}
