package adapters

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobscout-engine/internal/source"
	"jobscout-engine/internal/source/fetch"
	"jobscout-engine/pkg/models"
)

const linkedinSearch = "https://www.linkedin.com/jobs/search"

// LinkedIn scrapes the public (logged-out) LinkedIn jobs search. The page is
// JavaScript-rendered, so this adapter runs on the browser fetcher.
type LinkedIn struct {
	fetcher fetch.PageFetcher
}

// NewLinkedIn creates the LinkedIn adapter.
func NewLinkedIn(fetcher fetch.PageFetcher) *LinkedIn {
	return &LinkedIn{fetcher: fetcher}
}

func (l *LinkedIn) ID() string { return "linkedin" }

// timeWindowParam maps the time window onto LinkedIn's f_TPR parameter.
func timeWindowParam(w models.TimeWindow) string {
	if days := w.Days(); days > 0 {
		return fmt.Sprintf("r%d", days*86400)
	}
	return ""
}

// Search renders one search page per keyword and parses the result cards.
func (l *LinkedIn) Search(ctx context.Context, keywords []string, filters models.FilterSpec, emit source.EmitFunc) error {
	for _, keyword := range keywords {
		params := url.Values{}
		params.Set("keywords", keyword)
		if filters.Location != "" {
			params.Set("location", filters.Location)
		}
		if tpr := timeWindowParam(filters.TimeWindow); tpr != "" {
			params.Set("f_TPR", tpr)
		}
		if filters.JobType == models.JobTypeRemote {
			params.Set("f_WT", "2")
		}
		endpoint := linkedinSearch + "?" + params.Encode()

		html, err := l.fetcher.HTML(ctx, endpoint)
		if err != nil {
			return err
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return source.NewError(source.KindParseFailure, err)
		}

		cards := doc.Find("div.base-search-card, li div.base-card")
		if cards.Length() == 0 && doc.Find("ul.jobs-search__results-list").Length() == 0 {
			return source.Errorf(source.KindParseFailure, "result cards missing from linkedin search page")
		}

		var emitErr error
		cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
			title := strings.TrimSpace(card.Find("h3.base-search-card__title").First().Text())
			company := strings.TrimSpace(card.Find("h4.base-search-card__subtitle").First().Text())
			link, _ := card.Find("a.base-card__full-link").First().Attr("href")
			if link == "" {
				link, _ = card.Parent().Find("a.base-card__full-link").First().Attr("href")
			}
			if title == "" || link == "" {
				return true
			}

			fragment := source.Fragment{
				PortalID: l.ID(),
				Fields: map[string]string{
					"title":    title,
					"company":  company,
					"link":     link,
					"location": strings.TrimSpace(card.Find("span.job-search-card__location").First().Text()),
					"date":     card.Find("time").First().AttrOr("datetime", ""),
				},
			}
			if err := emit(fragment); err != nil {
				emitErr = err
				return false
			}
			return true
		})
		if emitErr != nil {
			return emitErr
		}
	}
	return nil
}
