package enrich

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"jobscout-engine/internal/cache"
	"jobscout-engine/internal/config"
	"jobscout-engine/internal/llm"
	"jobscout-engine/internal/source/fetch"
	"jobscout-engine/pkg/models"
	"jobscout-engine/pkg/utils"
)

// ErrNotFound means a provider looked and definitively found nothing. For
// the decision-maker chain it is terminal for the job; any other provider
// error advances the chain to the next provider.
var ErrNotFound = errors.New("not found")

// DecisionMakerProvider resolves hiring-relevant contacts for a job's
// company.
type DecisionMakerProvider interface {
	Name() string
	Find(ctx context.Context, job *models.CanonicalJob) ([]models.DecisionMaker, error)
}

// CompanySizeProvider resolves a company's size bucket.
type CompanySizeProvider interface {
	Name() string
	Resolve(ctx context.Context, job *models.CanonicalJob) (models.CompanySize, error)
}

// Pipeline runs the two enrichment chains over a run's unique jobs under its
// own concurrency bound, independent of the portal pool. Enrichment failures
// never fail a run: the worst case is an unenriched job.
type Pipeline struct {
	decisionMakers []DecisionMakerProvider
	companySizes   []CompanySizeProvider

	maxConcurrent     int
	providerTimeout   time.Duration
	maxDecisionMakers int
	cacheTTL          time.Duration

	cache  cache.Cache
	logger *logrus.Logger
}

// NewPipeline builds the enrichment pipeline with the provider order fixed
// by cost and confidence: free portal-page scraping first, then the company
// directory, then the paid email-finding API (only when a key is
// configured). The company-size chain goes static lookup, then website
// scrape, then name heuristics.
func NewPipeline(cfg *config.Config, store cache.Cache, fetcher fetch.PageFetcher, extractor llm.ContactExtractor) *Pipeline {
	p := &Pipeline{
		maxConcurrent:     cfg.Enrichment.MaxConcurrent,
		providerTimeout:   cfg.Enrichment.ProviderTimeout,
		maxDecisionMakers: cfg.Enrichment.MaxDecisionMakers,
		cacheTTL:          cfg.Enrichment.CacheTTL,
		cache:             store,
		logger:            utils.GetLogger(),
	}

	p.decisionMakers = []DecisionMakerProvider{
		NewPortalPageProvider(fetcher),
		NewDirectoryProvider(fetcher, extractor),
	}
	if hunter := NewHunterProvider(cfg.Enrichment.HunterAPIKey, cfg.Scraper.RequestTimeout); hunter != nil {
		p.decisionMakers = append(p.decisionMakers, hunter)
	}

	p.companySizes = []CompanySizeProvider{
		NewKnownCompanyProvider(),
		NewWebsiteSizeProvider(fetcher),
		NewNameHeuristicProvider(),
	}

	return p
}

// EnrichAll enriches every job in place under the pipeline's concurrency
// bound. Always returns with every job in a valid state.
func (p *Pipeline) EnrichAll(ctx context.Context, jobs []*models.CanonicalJob) {
	g := new(errgroup.Group)
	g.SetLimit(p.maxConcurrent)

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			p.Enrich(ctx, job)
			return nil
		})
	}
	_ = g.Wait()
}

// Enrich runs both chains for one job. The chains are independent; a failure
// in one never affects the other.
func (p *Pipeline) Enrich(ctx context.Context, job *models.CanonicalJob) {
	job.DecisionMakers = p.findDecisionMakers(ctx, job)
	job.CompanySize = p.resolveCompanySize(ctx, job)
}

// companyKey builds the cache key for a job's company.
func companyKey(job *models.CanonicalJob) string {
	key := strings.ToLower(strings.TrimSpace(job.Company))
	if domain := utils.ExtractDomain(job.CompanyURL); domain != "unknown" && domain != "" {
		key += ":" + domain
	}
	return key
}

func (p *Pipeline) findDecisionMakers(ctx context.Context, job *models.CanonicalJob) []models.DecisionMaker {
	cacheKey := "dm:" + companyKey(job)
	var cached []models.DecisionMaker
	if hit, err := p.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached
	}

	var makers []models.DecisionMaker
	for _, provider := range p.decisionMakers {
		pctx, cancel := context.WithTimeout(ctx, p.providerTimeout)
		found, err := provider.Find(pctx, job)
		cancel()

		if err == nil && len(found) > 0 {
			makers = found
			break
		}
		if errors.Is(err, ErrNotFound) {
			// The provider looked and there is nothing to find. Stop
			// the chain; an empty contact list is a valid outcome.
			break
		}
		if err != nil {
			p.logger.WithFields(logrus.Fields{
				"provider": provider.Name(),
				"company":  job.Company,
				"error":    err.Error(),
			}).Debug("Decision-maker provider failed, advancing chain")
		}
	}

	sort.SliceStable(makers, func(i, j int) bool {
		return makers[i].Confidence > makers[j].Confidence
	})
	if len(makers) > p.maxDecisionMakers {
		makers = makers[:p.maxDecisionMakers]
	}

	if err := p.cache.Set(ctx, cacheKey, makers, p.cacheTTL); err != nil {
		p.logger.WithError(err).Debug("Failed to cache decision makers")
	}
	return makers
}

func (p *Pipeline) resolveCompanySize(ctx context.Context, job *models.CanonicalJob) models.CompanySize {
	cacheKey := "size:" + companyKey(job)
	var cached models.CompanySize
	if hit, err := p.cache.Get(ctx, cacheKey, &cached); err == nil && hit && cached != "" {
		return cached
	}

	size := models.CompanySizeUnknown
	for _, provider := range p.companySizes {
		pctx, cancel := context.WithTimeout(ctx, p.providerTimeout)
		resolved, err := provider.Resolve(pctx, job)
		cancel()

		if err == nil && resolved != models.CompanySizeUnknown {
			size = resolved
			break
		}
		if err != nil && !errors.Is(err, ErrNotFound) {
			p.logger.WithFields(logrus.Fields{
				"provider": provider.Name(),
				"company":  job.Company,
				"error":    err.Error(),
			}).Debug("Company-size provider failed, advancing chain")
		}
	}

	if size != models.CompanySizeUnknown {
		if err := p.cache.Set(ctx, cacheKey, size, p.cacheTTL); err != nil {
			p.logger.WithError(err).Debug("Failed to cache company size")
		}
	}
	return size
}
