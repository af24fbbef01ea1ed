package source

import (
	"context"
	"time"

	"jobscout-engine/pkg/models"
)

// Fragment is one raw, portal-specific record before normalization. Fields
// are loosely typed on purpose: every portal returns a different shape and
// the normalizer owns the mapping to the canonical schema.
//
// Well-known field names the normalizer understands: title, company,
// company_url, link, location, date, job_type, salary, description, market.
type Fragment struct {
	PortalID string
	Fields   map[string]string
}

// EmitFunc receives fragments as an adapter discovers them. Returning an
// error stops the search; adapters must propagate it unchanged so
// cancellation is visible to the orchestrator.
type EmitFunc func(Fragment) error

// Adapter is the single contract every portal implements. Search streams a
// lazy, finite, non-restartable sequence of fragments through emit and
// returns a *Error when the portal fails. Adapters only perform outbound
// HTTP/browser calls; they never write shared state.
type Adapter interface {
	// ID returns the portal id this adapter serves.
	ID() string

	// Search queries the portal for each keyword under the given filters.
	Search(ctx context.Context, keywords []string, filters models.FilterSpec, emit EmitFunc) error
}

// Spec is the static per-portal configuration. Read-only during a run.
type Spec struct {
	ID                 string
	Enabled            bool
	Priority           int
	MaxConcurrent      int
	MinDelay           time.Duration
	SupportsJobType    bool
	SupportsTimeFilter bool
	SupportsLocation   bool
	DefaultMarket      models.Market
}
