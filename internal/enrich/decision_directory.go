package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobscout-engine/internal/llm"
	"jobscout-engine/internal/source/fetch"
	"jobscout-engine/pkg/models"
	"jobscout-engine/pkg/utils"
)

// Pages worth checking for leadership/team listings, in order.
var directoryPaths = []string{"/about", "/team", "/about-us", ""}

// Titles that make a directory entry hiring-relevant.
var relevantTitleTokens = []string{
	"ceo", "cto", "cfo", "coo", "founder", "co-founder",
	"vp engineering", "vp technology", "vp of engineering",
	"engineering manager", "technical director",
	"head of engineering", "head of technology", "head of talent", "head of people",
	"hiring manager", "hr manager", "talent acquisition",
	"recruiter", "technical recruiter",
	"tech lead", "engineering lead", "team lead",
}

// DirectoryProvider looks people up on the company's own site. Structured
// team-page markup is parsed first; when the markup yields nothing and an
// LLM extractor is configured, the page text goes through it instead.
type DirectoryProvider struct {
	fetcher   fetch.PageFetcher
	extractor llm.ContactExtractor
}

// NewDirectoryProvider creates the company-directory decision-maker
// provider. The extractor may be nil.
func NewDirectoryProvider(fetcher fetch.PageFetcher, extractor llm.ContactExtractor) *DirectoryProvider {
	return &DirectoryProvider{fetcher: fetcher, extractor: extractor}
}

func (d *DirectoryProvider) Name() string { return "company_directory" }

// Find implements DecisionMakerProvider.
func (d *DirectoryProvider) Find(ctx context.Context, job *models.CanonicalJob) ([]models.DecisionMaker, error) {
	if job.CompanyURL == "" {
		return nil, fmt.Errorf("no company url for %s", job.Company)
	}

	var lastErr error
	for _, path := range directoryPaths {
		pageURL := strings.TrimSuffix(job.CompanyURL, "/") + path

		html, err := d.fetcher.HTML(ctx, pageURL)
		if err != nil {
			lastErr = err
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			lastErr = err
			continue
		}

		if makers := d.parseTeamMarkup(doc); len(makers) > 0 {
			return makers, nil
		}

		if d.extractor != nil {
			text := strings.TrimSpace(doc.Find("body").Text())
			if text == "" {
				continue
			}
			makers, err := d.extractor.ExtractContacts(ctx, text, job.Company)
			if err != nil {
				lastErr = err
				continue
			}
			if len(makers) > 0 {
				for i := range makers {
					makers[i].Provenance = d.Name()
					if makers[i].Confidence == 0 {
						makers[i].Confidence = 0.5
					}
				}
				return makers, nil
			}
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("directory lookup for %s: %w", job.Company, lastErr)
	}
	return nil, fmt.Errorf("%w: no hiring contacts on %s", ErrNotFound, utils.ExtractDomain(job.CompanyURL))
}

// parseTeamMarkup pulls name/title pairs out of common team-page markup.
func (d *DirectoryProvider) parseTeamMarkup(doc *goquery.Document) []models.DecisionMaker {
	var makers []models.DecisionMaker
	seen := make(map[string]bool)

	doc.Find(".team-member, .team__member, .person, .profile-card, [class*=team] li").Each(func(_ int, card *goquery.Selection) {
		name := strings.TrimSpace(card.Find("h3, h4, .name").First().Text())
		title := strings.TrimSpace(card.Find("p, .title, .role, .position").First().Text())
		if name == "" || title == "" || len(strings.Fields(name)) < 2 {
			return
		}
		if !isRelevantTitle(title) {
			return
		}
		if seen[strings.ToLower(name)] {
			return
		}
		seen[strings.ToLower(name)] = true

		linkedIn := ""
		card.Find(`a[href*="linkedin.com/in/"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
			linkedIn, _ = a.Attr("href")
			return false
		})

		makers = append(makers, models.DecisionMaker{
			Name:        name,
			Title:       title,
			LinkedInURL: linkedIn,
			Provenance:  d.Name(),
			Confidence:  0.55,
		})
	})

	return makers
}

func isRelevantTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, token := range relevantTitleTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}
