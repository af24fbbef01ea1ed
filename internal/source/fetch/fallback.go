package fetch

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"jobscout-engine/internal/source"
	"jobscout-engine/pkg/utils"
)

// PageFetcher fetches the content of a single page.
type PageFetcher interface {
	HTML(ctx context.Context, url string) (string, error)
}

// FallbackFetcher tries a primary fetcher first and retries through the
// fallback when the portal blocks the primary. Non-blocked failures pass
// through unchanged so retry classification still sees the original kind.
type FallbackFetcher struct {
	primary  PageFetcher
	fallback PageFetcher
	logger   *logrus.Logger
}

// NewFallbackFetcher wires a primary fetcher with an optional fallback.
// A nil fallback disables the second stage.
func NewFallbackFetcher(primary, fallback PageFetcher) *FallbackFetcher {
	return &FallbackFetcher{
		primary:  primary,
		fallback: fallback,
		logger:   utils.GetLogger(),
	}
}

// HTML fetches a page, falling back on Blocked.
func (f *FallbackFetcher) HTML(ctx context.Context, url string) (string, error) {
	html, err := f.primary.HTML(ctx, url)
	if err == nil {
		return html, nil
	}

	var se *source.Error
	if f.fallback == nil || !errors.As(err, &se) || se.Kind != source.KindBlocked {
		return "", err
	}

	f.logger.WithFields(logrus.Fields{
		"url":    url,
		"reason": se.Error(),
	}).Info("Primary fetch blocked, retrying through fallback fetcher")

	html, ferr := f.fallback.HTML(ctx, url)
	if ferr != nil {
		// Report the original block; the fallback failing on top of it
		// does not make the portal any less blocked.
		return "", err
	}
	return html, nil
}

// HTML on Client adapts the raw byte fetcher to the PageFetcher contract.
func (c *Client) HTML(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
