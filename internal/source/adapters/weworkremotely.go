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

const wwrBase = "https://weworkremotely.com"

// WeWorkRemotely scrapes the We Work Remotely search page. Static HTML, so a
// plain fetcher (with firecrawl fallback) is enough.
type WeWorkRemotely struct {
	fetcher fetch.PageFetcher
}

// NewWeWorkRemotely creates the We Work Remotely adapter.
func NewWeWorkRemotely(fetcher fetch.PageFetcher) *WeWorkRemotely {
	return &WeWorkRemotely{fetcher: fetcher}
}

func (w *WeWorkRemotely) ID() string { return "weworkremotely" }

// Search scrapes one search page per keyword.
func (w *WeWorkRemotely) Search(ctx context.Context, keywords []string, filters models.FilterSpec, emit source.EmitFunc) error {
	for _, keyword := range keywords {
		endpoint := fmt.Sprintf("%s/remote-jobs/search?term=%s", wwrBase, url.QueryEscape(keyword))

		html, err := w.fetcher.HTML(ctx, endpoint)
		if err != nil {
			return err
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return source.NewError(source.KindParseFailure, err)
		}

		sections := doc.Find("section.jobs")
		if sections.Length() == 0 {
			return source.Errorf(source.KindParseFailure, "job listing sections missing from %s", endpoint)
		}

		var emitErr error
		sections.Find("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
			title := strings.TrimSpace(li.Find("span.title").First().Text())
			company := strings.TrimSpace(li.Find("span.company").First().Text())
			if title == "" || company == "" {
				return true // header/footer rows
			}

			href := ""
			li.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
				if h, ok := a.Attr("href"); ok && strings.Contains(h, "/remote-jobs/") {
					href = h
					return false
				}
				return true
			})
			if href == "" {
				return true
			}

			region := strings.TrimSpace(li.Find("span.region").First().Text())

			fragment := source.Fragment{
				PortalID: w.ID(),
				Fields: map[string]string{
					"title":    title,
					"company":  company,
					"link":     utils.AbsoluteURL(wwrBase, href),
					"location": region,
					"job_type": "remote",
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
