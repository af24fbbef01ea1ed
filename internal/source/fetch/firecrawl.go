package fetch

import (
	"context"
	"fmt"

	"github.com/mendableai/firecrawl-go"

	"jobscout-engine/internal/source"
)

// Firecrawl fetches pages through the Firecrawl API. Used as the fallback
// when a portal blocks direct fetching.
type Firecrawl struct {
	app     *firecrawl.FirecrawlApp
	formats []string
}

// NewFirecrawl creates a Firecrawl-backed fetcher. Returns nil when no API
// key is configured; callers treat a nil fetcher as "no fallback available".
func NewFirecrawl(apiKey, apiURL string, formats []string) (*Firecrawl, error) {
	if apiKey == "" {
		return nil, nil
	}
	app, err := firecrawl.NewFirecrawlApp(apiKey, apiURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firecrawl: %w", err)
	}
	if len(formats) == 0 {
		formats = []string{"html"}
	}
	return &Firecrawl{app: app, formats: formats}, nil
}

// HTML fetches a page through Firecrawl and returns its content. HTML is
// preferred; markdown is returned when that is all the API produced.
func (f *Firecrawl) HTML(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", source.NewError(source.KindTimeout, err)
	}

	// The Firecrawl SDK does not accept a context; timeout control is
	// handled inside the SDK.
	doc, err := f.app.ScrapeURL(url, &firecrawl.ScrapeParams{Formats: f.formats})
	if err != nil {
		return "", source.NewError(source.KindOf(err), fmt.Errorf("firecrawl scrape failed: %w", err))
	}
	if doc == nil {
		return "", source.Errorf(source.KindParseFailure, "empty firecrawl response for %s", url)
	}

	if doc.HTML != "" {
		return doc.HTML, nil
	}
	if doc.Markdown != "" {
		return doc.Markdown, nil
	}
	return "", source.Errorf(source.KindParseFailure, "no content in firecrawl response for %s", url)
}
