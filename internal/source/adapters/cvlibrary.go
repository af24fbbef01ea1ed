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
	"jobscout-engine/pkg/utils"
)

const cvLibraryBase = "https://www.cv-library.co.uk"

// CVLibrary scrapes CV-Library search results (UK market).
type CVLibrary struct {
	fetcher fetch.PageFetcher
}

// NewCVLibrary creates the CV-Library adapter.
func NewCVLibrary(fetcher fetch.PageFetcher) *CVLibrary {
	return &CVLibrary{fetcher: fetcher}
}

func (c *CVLibrary) ID() string { return "cvlibrary" }

// Search scrapes one search page per keyword. Time window and location map
// onto the site's posted/geo query parameters.
func (c *CVLibrary) Search(ctx context.Context, keywords []string, filters models.FilterSpec, emit source.EmitFunc) error {
	for _, keyword := range keywords {
		params := url.Values{}
		params.Set("q", keyword)
		if filters.Location != "" {
			params.Set("geo", filters.Location)
		}
		if days := filters.TimeWindow.Days(); days > 0 {
			params.Set("posted", fmt.Sprintf("%d", days))
		}
		endpoint := fmt.Sprintf("%s/search-jobs?%s", cvLibraryBase, params.Encode())

		html, err := c.fetcher.HTML(ctx, endpoint)
		if err != nil {
			return err
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return source.NewError(source.KindParseFailure, err)
		}

		articles := doc.Find("article.job")
		if articles.Length() == 0 && doc.Find(".search-results, #search-results").Length() == 0 {
			return source.Errorf(source.KindParseFailure, "search result markup missing from %s", endpoint)
		}

		var emitErr error
		articles.EachWithBreak(func(_ int, article *goquery.Selection) bool {
			titleLink := article.Find("h2 a").First()
			title := strings.TrimSpace(titleLink.Text())
			href, _ := titleLink.Attr("href")
			company := strings.TrimSpace(article.Find(".job__details-company, .job__company-link").First().Text())
			if title == "" || href == "" {
				return true
			}

			fragment := source.Fragment{
				PortalID: c.ID(),
				Fields: map[string]string{
					"title":    title,
					"company":  company,
					"link":     utils.AbsoluteURL(cvLibraryBase, href),
					"location": strings.TrimSpace(article.Find(".job__details-location").First().Text()),
					"salary":   strings.TrimSpace(article.Find(".job__details-salary").First().Text()),
					"date":     strings.TrimSpace(article.Find(".job__details-posted time").First().AttrOr("datetime", "")),
					"market":   string(models.MarketUK),
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
