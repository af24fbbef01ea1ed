package adapters

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/source"
	"jobscout-engine/internal/source/fetch"
	"jobscout-engine/pkg/models"
	"jobscout-engine/pkg/utils"
)

// BuildRegistry wires one adapter per configured portal. Portals whose
// required credentials are missing are registered disabled so a run that
// requests them records a skip instead of failing.
func BuildRegistry(cfg *config.Config, browser fetch.PageFetcher, firecrawl fetch.PageFetcher) (*source.Registry, error) {
	logger := utils.GetLogger()
	registry := source.NewRegistry()

	for _, pc := range cfg.Portals {
		spec := source.Spec{
			ID:                 pc.ID,
			Enabled:            pc.Enabled,
			Priority:           pc.Priority,
			MaxConcurrent:      pc.MaxConcurrent,
			MinDelay:           pc.MinDelay,
			SupportsJobType:    pc.SupportsJobType,
			SupportsTimeFilter: pc.SupportsTimeFilter,
			SupportsLocation:   pc.SupportsLocation,
			DefaultMarket:      models.Market(pc.Market),
		}

		client := fetch.NewClient(cfg.Scraper.UserAgent, cfg.Scraper.RequestTimeout, pc.MinDelay, pc.MaxConcurrent)

		var adapter source.Adapter
		switch pc.ID {
		case "remotive":
			adapter = NewRemotive(client)
		case "remoteok":
			adapter = NewRemoteOK(client)
		case "adzuna":
			if cfg.Adzuna.AppID == "" || cfg.Adzuna.AppKey == "" {
				spec.Enabled = false
				logger.Warn("Adzuna credentials missing, portal disabled")
			}
			adapter = NewAdzuna(client, cfg.Adzuna.AppID, cfg.Adzuna.AppKey)
		case "reed":
			if cfg.Reed.APIKey == "" {
				spec.Enabled = false
				logger.Warn("Reed API key missing, portal disabled")
			}
			authed := fetch.NewClient(cfg.Scraper.UserAgent, cfg.Scraper.RequestTimeout, pc.MinDelay, pc.MaxConcurrent,
				fetch.WithHeader("Authorization", ReedAuthHeader(cfg.Reed.APIKey)))
			adapter = NewReed(authed)
		case "weworkremotely":
			adapter = NewWeWorkRemotely(fetch.NewFallbackFetcher(client, firecrawl))
		case "cvlibrary":
			adapter = NewCVLibrary(fetch.NewFallbackFetcher(client, firecrawl))
		case "linkedin":
			if browser == nil {
				spec.Enabled = false
				logger.Warn("Browser fetcher unavailable, linkedin portal disabled")
			}
			adapter = NewLinkedIn(fetch.NewFallbackFetcher(browserOrClient(browser, client), firecrawl))
		default:
			return nil, fmt.Errorf("unknown portal id in configuration: %s", pc.ID)
		}

		if err := registry.Register(spec, adapter); err != nil {
			return nil, err
		}

		logger.WithFields(logrus.Fields{
			"portal":   pc.ID,
			"enabled":  spec.Enabled,
			"priority": spec.Priority,
		}).Debug("Portal registered")
	}

	return registry, nil
}

func browserOrClient(browser fetch.PageFetcher, client *fetch.Client) fetch.PageFetcher {
	if browser != nil {
		return browser
	}
	return client
}
