package enrich

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobscout-engine/internal/source/fetch"
	"jobscout-engine/pkg/models"
)

// Contact lines some boards print straight on the posting, e.g.
// "Recruiter: Jane Smith" or "Hiring Manager - John Doe".
var contactLine = regexp.MustCompile(`(?i)(recruiter|hiring manager|talent acquisition|talent partner)[ \t]*[:\-–][ \t]*([A-Z][\pL'.-]+(?:[ \t]+[A-Z][\pL'.-]+){1,2})`)

var mailtoPerson = regexp.MustCompile(`^([a-z]+)[._]([a-z]+)@`)

// PortalPageProvider scrapes the job posting page itself for named contacts.
// Free and lowest confidence, so it goes first in the chain.
type PortalPageProvider struct {
	fetcher fetch.PageFetcher
}

// NewPortalPageProvider creates the portal-page decision-maker provider.
func NewPortalPageProvider(fetcher fetch.PageFetcher) *PortalPageProvider {
	return &PortalPageProvider{fetcher: fetcher}
}

func (p *PortalPageProvider) Name() string { return "portal_page" }

// Find implements DecisionMakerProvider.
func (p *PortalPageProvider) Find(ctx context.Context, job *models.CanonicalJob) ([]models.DecisionMaker, error) {
	html, err := p.fetcher.HTML(ctx, job.JobLink)
	if err != nil {
		return nil, fmt.Errorf("fetching job page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing job page: %w", err)
	}

	seen := make(map[string]bool)
	var makers []models.DecisionMaker

	text := doc.Find("body").Text()
	for _, m := range contactLine.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[2])
		if seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		makers = append(makers, models.DecisionMaker{
			Name:       name,
			Title:      canonicalContactTitle(m[1]),
			Provenance: p.Name(),
			Confidence: 0.3,
		})
	}

	doc.Find(`a[href^="mailto:"]`).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		email := strings.TrimPrefix(strings.ToLower(href), "mailto:")
		email = strings.SplitN(email, "?", 2)[0]

		m := mailtoPerson.FindStringSubmatch(email)
		if m == nil {
			return // role addresses like jobs@ carry no name
		}
		name := titleCase(m[1]) + " " + titleCase(m[2])
		if seen[strings.ToLower(name)] {
			return
		}
		seen[strings.ToLower(name)] = true
		makers = append(makers, models.DecisionMaker{
			Name:       name,
			Title:      "Recruiter",
			Email:      email,
			Provenance: p.Name(),
			Confidence: 0.25,
		})
	})

	if len(makers) == 0 {
		// Nothing on the page. Postings rarely name contacts, so this is
		// a provider failure that should advance the chain, not a
		// definitive NotFound.
		return nil, fmt.Errorf("no contacts on posting page")
	}
	return makers, nil
}

func canonicalContactTitle(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "hiring manager":
		return "Hiring Manager"
	case "talent acquisition", "talent partner":
		return "Talent Acquisition"
	default:
		return "Recruiter"
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
