package config

import "time"

// DefaultPortals returns the built-in portal registry used when the config
// file does not define its own portal list. Rate limits reflect how strict
// each portal is in practice: API-backed portals tolerate faster paging than
// HTML ones, and browser-rendered portals get the longest delays.
func DefaultPortals() []PortalConfig {
	return []PortalConfig{
		{
			ID:                 "remotive",
			Enabled:            true,
			Priority:           50,
			MaxConcurrent:      2,
			MinDelay:           500 * time.Millisecond,
			SupportsJobType:    true,
			SupportsTimeFilter: false,
			SupportsLocation:   false,
			Market:             "OTHER",
		},
		{
			ID:                 "remoteok",
			Enabled:            true,
			Priority:           40,
			MaxConcurrent:      1,
			MinDelay:           time.Second,
			SupportsJobType:    false,
			SupportsTimeFilter: false,
			SupportsLocation:   false,
			Market:             "OTHER",
		},
		{
			ID:                 "adzuna",
			Enabled:            true,
			Priority:           70,
			MaxConcurrent:      3,
			MinDelay:           250 * time.Millisecond,
			SupportsJobType:    true,
			SupportsTimeFilter: true,
			SupportsLocation:   true,
			Market:             "UK",
		},
		{
			ID:                 "reed",
			Enabled:            true,
			Priority:           60,
			MaxConcurrent:      3,
			MinDelay:           250 * time.Millisecond,
			SupportsJobType:    true,
			SupportsTimeFilter: false,
			SupportsLocation:   true,
			Market:             "UK",
		},
		{
			ID:                 "weworkremotely",
			Enabled:            true,
			Priority:           30,
			MaxConcurrent:      1,
			MinDelay:           2 * time.Second,
			SupportsJobType:    false,
			SupportsTimeFilter: false,
			SupportsLocation:   false,
			Market:             "USA",
		},
		{
			ID:                 "cvlibrary",
			Enabled:            true,
			Priority:           20,
			MaxConcurrent:      1,
			MinDelay:           2 * time.Second,
			SupportsJobType:    false,
			SupportsTimeFilter: true,
			SupportsLocation:   true,
			Market:             "UK",
		},
		{
			ID:                 "linkedin",
			Enabled:            true,
			Priority:           80,
			MaxConcurrent:      1,
			MinDelay:           3 * time.Second,
			SupportsJobType:    true,
			SupportsTimeFilter: true,
			SupportsLocation:   true,
			Market:             "USA",
		},
	}
}
