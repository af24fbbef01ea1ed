package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"jobscout-engine/internal/cache"
	"jobscout-engine/internal/config"
	"jobscout-engine/internal/enrich"
	"jobscout-engine/internal/llm"
	"jobscout-engine/internal/orchestrator"
	"jobscout-engine/internal/sink"
	"jobscout-engine/internal/source/adapters"
	"jobscout-engine/internal/source/fetch"
	"jobscout-engine/pkg/models"
	"jobscout-engine/pkg/utils"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML configuration file")
		keywords   = flag.String("keywords", "", "Comma-separated search keywords (required)")
		portals    = flag.String("portals", "", "Comma-separated portal ids (default: all configured)")
		jobType    = flag.String("job-type", "", "Job type filter (remote, hybrid, on_site, full_time, part_time, contract)")
		timeWindow = flag.String("time-window", "any", "Posting age filter (any, 24h, 3d, 7d, 30d)")
		location   = flag.String("location", "", "Location filter")
		market     = flag.String("market", "", "Market filter (USA, UK, OTHER)")
	)
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	utils.ConfigureLogger(cfg.Logging.Level, cfg.Logging.Format)
	logger := utils.GetLogger()

	if *keywords == "" {
		fmt.Fprintln(os.Stderr, "Usage: engine -keywords \"python developer,backend engineer\" [-portals remotive,reed] [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Firecrawl and the browser are both optional; missing pieces disable
	// their portals instead of failing startup.
	var firecrawlFetcher fetch.PageFetcher
	if fc, err := fetch.NewFirecrawl(cfg.Firecrawl.APIKey, cfg.Firecrawl.APIURL, cfg.Firecrawl.Formats); err != nil {
		logger.WithError(err).Warn("Firecrawl unavailable, running without fallback fetcher")
	} else if fc != nil {
		firecrawlFetcher = fc
	}

	var browserFetcher fetch.PageFetcher
	browser := fetch.NewBrowser(cfg.Scraper.HeadlessMode, cfg.Scraper.StealthMode, cfg.Scraper.UserAgent)
	browserFetcher = browser
	defer browser.Close()

	registry, err := adapters.BuildRegistry(cfg, browserFetcher, firecrawlFetcher)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build portal registry")
	}

	store := cache.NewFromConfig(cfg)

	var extractor llm.ContactExtractor
	if claude := llm.NewClaudeExtractor(cfg); claude != nil {
		extractor = claude
	}

	enrichClient := fetch.NewClient(cfg.Scraper.UserAgent, cfg.Scraper.RequestTimeout, 0, cfg.Enrichment.MaxConcurrent)
	pipeline := enrich.NewPipeline(cfg, store, fetch.NewFallbackFetcher(enrichClient, firecrawlFetcher), extractor)

	fileSink, err := sink.NewFileSink(cfg.Sink.Dir)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create result sink")
	}

	engine := orchestrator.New(cfg, registry, pipeline, fileSink)

	req := models.RunRequest{
		Keywords:  splitList(*keywords),
		PortalIDs: splitList(*portals),
		Filters: models.FilterSpec{
			JobType:    models.JobType(*jobType),
			TimeWindow: models.TimeWindow(*timeWindow),
			Location:   *location,
			Market:     models.Market(strings.ToUpper(*market)),
		},
	}
	if len(req.PortalIDs) == 0 {
		req.PortalIDs = registry.IDs()
	}

	run, jobs, err := engine.Execute(ctx, req)
	if err != nil {
		logger.WithError(err).Fatal("Run failed")
	}

	fmt.Printf("Run %s finished: %s\n", run.ID, run.Status)
	fmt.Printf("  %d unique jobs from %d/%d portals\n", len(jobs), run.SucceededPortals(), len(run.Outcomes))
	for _, id := range sortedOutcomeIDs(run) {
		o := run.Outcomes[id]
		line := fmt.Sprintf("  %-16s %-8s jobs=%-4d invalid=%-3d attempts=%d", id, o.Status, o.JobCount, o.InvalidRecords, o.Attempts)
		if o.Error != "" {
			line += " error=" + o.Error
		}
		fmt.Println(line)
	}

	if run.Status == models.RunStatusFailed {
		os.Exit(1)
	}
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func sortedOutcomeIDs(run *models.Run) []string {
	ids := make([]string, 0, len(run.Outcomes))
	for id := range run.Outcomes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
