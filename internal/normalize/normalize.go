package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"jobscout-engine/internal/source"
	"jobscout-engine/pkg/models"
	"jobscout-engine/pkg/utils"
)

// Reasons a fragment is rejected. Rejected fragments are dropped and counted
// in the run's outcome map; they never fail a run.
var (
	ErrMissingTitle   = errors.New("fragment has no title")
	ErrMissingCompany = errors.New("fragment has no company")
	ErrGenericCompany = errors.New("fragment company is a placeholder")
	ErrBadLink        = errors.New("fragment has no usable job link")
)

// Placeholder company names some portals emit instead of a real employer.
// A record attributed to one of these is worthless for enrichment, so it is
// dropped rather than silently kept as "Unknown".
var genericCompanyTokens = map[string]bool{
	"company":       true,
	"employer":      true,
	"hiringcompany": true,
	"hiringmanager": true,
	"confidential":  true,
	"unknown":       true,
	"na":            true,
	"n/a":           true,
	"notprovided":   true,
	"notdisclosed":  true,
	"privatelyheld": true,
}

// Fragment maps a raw portal fragment to the canonical job shape. Pure: no
// I/O, deterministic for a given now. Unparseable optional fields degrade to
// empty/nil; missing title or company rejects the whole fragment.
func Fragment(f source.Fragment, spec source.Spec, now time.Time) (*models.CanonicalJob, error) {
	title := strings.TrimSpace(f.Fields["title"])
	if title == "" {
		return nil, ErrMissingTitle
	}

	company := strings.TrimSpace(f.Fields["company"])
	if company == "" {
		return nil, ErrMissingCompany
	}
	if isGenericCompany(company) {
		return nil, fmt.Errorf("%w: %q", ErrGenericCompany, company)
	}

	rawLink := strings.TrimSpace(f.Fields["link"])
	if rawLink == "" {
		return nil, ErrBadLink
	}
	link, err := utils.CanonicalizeURL(rawLink)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadLink, err)
	}

	location := strings.TrimSpace(f.Fields["location"])

	job := &models.CanonicalJob{
		Title:        title,
		Company:      company,
		CompanyURL:   strings.TrimSpace(f.Fields["company_url"]),
		CompanySize:  models.CompanySizeUnknown,
		Market:       parseMarket(f.Fields["market"], location, spec.DefaultMarket),
		PortalID:     f.PortalID,
		JobLink:      link,
		PostedDate:   ParseDate(f.Fields["date"], now),
		Location:     location,
		JobType:      ParseJobType(f.Fields["job_type"]),
		SalaryText:   strings.TrimSpace(f.Fields["salary"]),
		Description:  strings.TrimSpace(f.Fields["description"]),
		ScrapedAt:    now,
		ExportStatus: models.ExportStatusPending,
	}
	return job, nil
}

func isGenericCompany(company string) bool {
	key := strings.ToLower(company)
	key = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '.', ',', '-', '_':
			return -1
		}
		return r
	}, key)
	if key == "n/a" || genericCompanyTokens[key] {
		return true
	}
	return genericCompanyTokens[strings.ToLower(company)]
}

// parseMarket picks the market from an explicit field, then location text,
// then the portal's default.
func parseMarket(explicit, location string, fallback models.Market) models.Market {
	switch strings.ToUpper(strings.TrimSpace(explicit)) {
	case string(models.MarketUSA):
		return models.MarketUSA
	case string(models.MarketUK):
		return models.MarketUK
	case string(models.MarketOther):
		return models.MarketOther
	}

	loc := strings.ToLower(location)
	switch {
	case containsAny(loc, "united kingdom", "uk", "england", "scotland", "wales", "london", "manchester"):
		return models.MarketUK
	case containsAny(loc, "united states", "usa", "u.s.", "new york", "san francisco", "california", "texas"):
		return models.MarketUSA
	}

	if fallback != "" {
		return fallback
	}
	return models.MarketOther
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// ParseJobType maps portal job-type text onto the canonical enum. Unknown
// text degrades to JobTypeAny rather than rejecting the record.
func ParseJobType(raw string) models.JobType {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "-", "_")
	t = strings.ReplaceAll(t, " ", "_")
	switch {
	case t == "":
		return models.JobTypeAny
	case strings.Contains(t, "remote"):
		return models.JobTypeRemote
	case strings.Contains(t, "hybrid"):
		return models.JobTypeHybrid
	case strings.Contains(t, "full_time") || t == "permanent":
		return models.JobTypeFullTime
	case strings.Contains(t, "part_time"):
		return models.JobTypePartTime
	case strings.Contains(t, "contract") || strings.Contains(t, "freelance") || strings.Contains(t, "temp"):
		return models.JobTypeContract
	case strings.Contains(t, "on_site") || strings.Contains(t, "onsite") || strings.Contains(t, "office"):
		return models.JobTypeOnSite
	}
	return models.JobTypeAny
}
