package enrich

import (
	"context"
	"fmt"
	"strings"

	"jobscout-engine/pkg/models"
)

// Companies that show up constantly in job feeds; a static table answers for
// them without any network round trip.
var knownCompanies = map[string]models.CompanySize{
	"google":     models.CompanySizeEnterprise,
	"amazon":     models.CompanySizeEnterprise,
	"microsoft":  models.CompanySizeEnterprise,
	"apple":      models.CompanySizeEnterprise,
	"meta":       models.CompanySizeEnterprise,
	"netflix":    models.CompanySizeEnterprise,
	"uber":       models.CompanySizeEnterprise,
	"airbnb":     models.CompanySizeEnterprise,
	"shopify":    models.CompanySizeEnterprise,
	"stripe":     models.CompanySizeEnterprise,
	"atlassian":  models.CompanySizeEnterprise,
	"spotify":    models.CompanySizeEnterprise,
	"zoom":       models.CompanySizeEnterprise,
	"canva":      models.CompanySizeEnterprise,
	"dropbox":    models.CompanySizeLarge,
	"slack":      models.CompanySizeLarge,
	"twilio":     models.CompanySizeLarge,
	"github":     models.CompanySizeLarge,
	"gitlab":     models.CompanySizeLarge,
	"asana":      models.CompanySizeLarge,
	"datadog":    models.CompanySizeLarge,
	"cloudflare": models.CompanySizeLarge,
	"notion":     models.CompanySizeMedium,
	"figma":      models.CompanySizeMedium,
	"webflow":    models.CompanySizeMedium,
	"vercel":     models.CompanySizeMedium,
	"linear":     models.CompanySizeSmall,
	"netlify":    models.CompanySizeSmall,
}

// KnownCompanyProvider answers from the static table. First in the chain
// because it is free and exact.
type KnownCompanyProvider struct{}

// NewKnownCompanyProvider creates the static-lookup size provider.
func NewKnownCompanyProvider() *KnownCompanyProvider {
	return &KnownCompanyProvider{}
}

func (k *KnownCompanyProvider) Name() string { return "known_company" }

// Resolve implements CompanySizeProvider.
func (k *KnownCompanyProvider) Resolve(_ context.Context, job *models.CanonicalJob) (models.CompanySize, error) {
	company := strings.ToLower(strings.TrimSpace(job.Company))
	if size, ok := knownCompanies[company]; ok {
		return size, nil
	}
	// Substring match catches forms like "Google UK" and "Stripe, Inc."
	for known, size := range knownCompanies {
		if strings.Contains(company, known) {
			return size, nil
		}
	}
	return models.CompanySizeUnknown, fmt.Errorf("%w: %s not in known-company table", ErrNotFound, job.Company)
}
