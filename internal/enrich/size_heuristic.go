package enrich

import (
	"context"
	"fmt"
	"strings"

	"jobscout-engine/pkg/models"
)

// Name tokens that loosely correlate with company scale. Weak evidence, so
// this provider sits last in the chain.
var (
	enterpriseNameTokens = []string{"global", "international", "worldwide", "holdings", "corporation", "bank", "insurance", "pharma"}
	largeNameTokens      = []string{"group", "corp", "plc", "industries", "systems"}
	smallNameTokens      = []string{"studio", "studios", "labs", "lab", "agency", "consulting", "boutique", "collective", "startup"}
)

// NameHeuristicProvider guesses size from tokens in the company name.
type NameHeuristicProvider struct{}

// NewNameHeuristicProvider creates the name-heuristic size provider.
func NewNameHeuristicProvider() *NameHeuristicProvider {
	return &NameHeuristicProvider{}
}

func (n *NameHeuristicProvider) Name() string { return "name_heuristic" }

// Resolve implements CompanySizeProvider.
func (n *NameHeuristicProvider) Resolve(_ context.Context, job *models.CanonicalJob) (models.CompanySize, error) {
	words := strings.Fields(strings.ToLower(job.Company))
	for _, w := range words {
		w = strings.Trim(w, ".,()")
		if hasToken(enterpriseNameTokens, w) {
			return models.CompanySizeEnterprise, nil
		}
		if hasToken(largeNameTokens, w) {
			return models.CompanySizeLarge, nil
		}
		if hasToken(smallNameTokens, w) {
			return models.CompanySizeSmall, nil
		}
	}
	return models.CompanySizeUnknown, fmt.Errorf("%w: no size signal in name %q", ErrNotFound, job.Company)
}

func hasToken(tokens []string, w string) bool {
	for _, t := range tokens {
		if w == t {
			return true
		}
	}
	return false
}
