package llm

import (
	"context"

	"jobscout-engine/pkg/models"
)

// ContactExtractor pulls hiring-relevant people out of messy page content.
// Used by the company-directory enrichment provider when structured parsing
// finds nothing; implementations are optional and key-gated.
type ContactExtractor interface {
	// ExtractContacts returns the decision makers mentioned in the page
	// content for the given company.
	ExtractContacts(ctx context.Context, content, companyName string) ([]models.DecisionMaker, error)

	// ProviderName returns the name of the backing provider.
	ProviderName() string
}
