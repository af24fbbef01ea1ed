package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/cache"
	"jobscout-engine/pkg/models"
	"jobscout-engine/pkg/utils"
)

type stubDMProvider struct {
	name   string
	makers []models.DecisionMaker
	err    error
	calls  int
}

func (s *stubDMProvider) Name() string { return s.name }
func (s *stubDMProvider) Find(context.Context, *models.CanonicalJob) ([]models.DecisionMaker, error) {
	s.calls++
	return s.makers, s.err
}

type stubSizeProvider struct {
	name  string
	size  models.CompanySize
	err   error
	calls int
}

func (s *stubSizeProvider) Name() string { return s.name }
func (s *stubSizeProvider) Resolve(context.Context, *models.CanonicalJob) (models.CompanySize, error) {
	s.calls++
	return s.size, s.err
}

func testPipeline() *Pipeline {
	return &Pipeline{
		maxConcurrent:     4,
		providerTimeout:   time.Second,
		maxDecisionMakers: 3,
		cacheTTL:          time.Minute,
		cache:             cache.NewMemory(),
		logger:            utils.GetLogger(),
	}
}

func testJob(company string) *models.CanonicalJob {
	return &models.CanonicalJob{
		Title:       "Engineer",
		Company:     company,
		CompanyURL:  "https://" + company + ".example.com",
		CompanySize: models.CompanySizeUnknown,
		PortalID:    "testportal",
		JobLink:     "https://jobs.example.com/1",
	}
}

func TestDecisionMakerChainFirstSuccessWins(t *testing.T) {
	first := &stubDMProvider{name: "first", makers: []models.DecisionMaker{{Name: "Jane Smith", Title: "CTO", Confidence: 0.5}}}
	second := &stubDMProvider{name: "second"}

	p := testPipeline()
	p.decisionMakers = []DecisionMakerProvider{first, second}

	job := testJob("acme")
	p.Enrich(context.Background(), job)

	require.Len(t, job.DecisionMakers, 1)
	assert.Equal(t, "Jane Smith", job.DecisionMakers[0].Name)
	assert.Equal(t, 0, second.calls, "chain should stop at the first success")
}

func TestDecisionMakerChainAdvancesOnProviderError(t *testing.T) {
	broken := &stubDMProvider{name: "broken", err: errors.New("fetch failed")}
	working := &stubDMProvider{name: "working", makers: []models.DecisionMaker{{Name: "John Doe", Title: "Recruiter", Confidence: 0.4}}}

	p := testPipeline()
	p.decisionMakers = []DecisionMakerProvider{broken, working}

	job := testJob("acme")
	p.Enrich(context.Background(), job)

	require.Len(t, job.DecisionMakers, 1)
	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, 1, working.calls)
}

func TestDecisionMakerChainNotFoundIsTerminal(t *testing.T) {
	definitive := &stubDMProvider{name: "definitive", err: ErrNotFound}
	never := &stubDMProvider{name: "never", makers: []models.DecisionMaker{{Name: "Ghost", Title: "CEO"}}}

	p := testPipeline()
	p.decisionMakers = []DecisionMakerProvider{definitive, never}

	job := testJob("acme")
	p.Enrich(context.Background(), job)

	assert.Empty(t, job.DecisionMakers)
	assert.Equal(t, 0, never.calls, "NotFound must stop the chain")
}

func TestDecisionMakersSortedAndCapped(t *testing.T) {
	many := &stubDMProvider{name: "many", makers: []models.DecisionMaker{
		{Name: "A", Title: "Recruiter", Confidence: 0.2},
		{Name: "B", Title: "CTO", Confidence: 0.9},
		{Name: "C", Title: "CEO", Confidence: 0.7},
		{Name: "D", Title: "Hiring Manager", Confidence: 0.5},
	}}

	p := testPipeline()
	p.decisionMakers = []DecisionMakerProvider{many}

	job := testJob("acme")
	p.Enrich(context.Background(), job)

	require.Len(t, job.DecisionMakers, 3)
	assert.Equal(t, "B", job.DecisionMakers[0].Name)
	assert.Equal(t, "C", job.DecisionMakers[1].Name)
	assert.Equal(t, "D", job.DecisionMakers[2].Name)
}

func TestSizeChainFirstNonUnknownWins(t *testing.T) {
	unknown := &stubSizeProvider{name: "unknown", err: ErrNotFound, size: models.CompanySizeUnknown}
	resolved := &stubSizeProvider{name: "resolved", size: models.CompanySizeMedium}
	never := &stubSizeProvider{name: "never", size: models.CompanySizeLarge}

	p := testPipeline()
	p.companySizes = []CompanySizeProvider{unknown, resolved, never}

	job := testJob("acme")
	p.Enrich(context.Background(), job)

	assert.Equal(t, models.CompanySizeMedium, job.CompanySize)
	assert.Equal(t, 0, never.calls)
}

func TestAllProvidersFailYieldsValidJob(t *testing.T) {
	p := testPipeline()
	p.decisionMakers = []DecisionMakerProvider{&stubDMProvider{name: "a", err: errors.New("down")}}
	p.companySizes = []CompanySizeProvider{&stubSizeProvider{name: "b", err: errors.New("down"), size: models.CompanySizeUnknown}}

	job := testJob("acme")
	p.Enrich(context.Background(), job)

	assert.Empty(t, job.DecisionMakers)
	assert.Equal(t, models.CompanySizeUnknown, job.CompanySize)
}

func TestEnrichmentResultsCachedByCompany(t *testing.T) {
	dm := &stubDMProvider{name: "dm", makers: []models.DecisionMaker{{Name: "Jane Smith", Title: "CTO", Confidence: 0.5}}}
	size := &stubSizeProvider{name: "size", size: models.CompanySizeSmall}

	p := testPipeline()
	p.decisionMakers = []DecisionMakerProvider{dm}
	p.companySizes = []CompanySizeProvider{size}

	a, b := testJob("acme"), testJob("acme")
	p.Enrich(context.Background(), a)
	p.Enrich(context.Background(), b)

	assert.Equal(t, 1, dm.calls, "second job for the same company should hit the cache")
	assert.Equal(t, 1, size.calls)
	assert.Equal(t, a.DecisionMakers, b.DecisionMakers)
	assert.Equal(t, a.CompanySize, b.CompanySize)
}

func TestUnknownSizeNotCached(t *testing.T) {
	size := &stubSizeProvider{name: "size", err: ErrNotFound, size: models.CompanySizeUnknown}

	p := testPipeline()
	p.decisionMakers = nil
	p.companySizes = []CompanySizeProvider{size}

	p.Enrich(context.Background(), testJob("acme"))
	p.Enrich(context.Background(), testJob("acme"))

	assert.Equal(t, 2, size.calls, "UNKNOWN must be re-attempted, not cached")
}

func TestEnrichAllTouchesEveryJob(t *testing.T) {
	size := &stubSizeProvider{name: "size", size: models.CompanySizeSmall}

	p := testPipeline()
	p.companySizes = []CompanySizeProvider{size}

	jobs := []*models.CanonicalJob{testJob("one"), testJob("two"), testJob("three")}
	p.EnrichAll(context.Background(), jobs)

	for _, job := range jobs {
		assert.Equal(t, models.CompanySizeSmall, job.CompanySize, "company %s", job.Company)
	}
}

func TestCompanyKeyIncludesDomain(t *testing.T) {
	a := testJob("acme")
	b := testJob("acme")
	b.CompanyURL = "https://different.example.org"

	assert.NotEqual(t, companyKey(a), companyKey(b))

	c := testJob("acme")
	assert.Equal(t, companyKey(a), companyKey(c))
}
