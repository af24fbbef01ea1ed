package adapters

import (
	"strings"

	"jobscout-engine/pkg/models"
)

// matchesAnyKeyword reports whether any keyword appears in any of the given
// haystacks, case-insensitively. Multi-word keywords match when every word
// appears.
func matchesAnyKeyword(keywords []string, haystacks ...string) bool {
	joined := strings.ToLower(strings.Join(haystacks, " "))
	for _, keyword := range keywords {
		words := strings.Fields(strings.ToLower(keyword))
		if len(words) == 0 {
			continue
		}
		all := true
		for _, w := range words {
			if !strings.Contains(joined, w) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// jobTypeMatches reports whether a portal's raw job-type string satisfies the
// requested filter.
func jobTypeMatches(want models.JobType, raw string) bool {
	raw = strings.ToLower(strings.ReplaceAll(raw, "-", "_"))
	switch want {
	case models.JobTypeAny:
		return true
	case models.JobTypeRemote:
		return strings.Contains(raw, "remote")
	case models.JobTypeFullTime:
		return strings.Contains(raw, "full_time") || strings.Contains(raw, "full time")
	case models.JobTypePartTime:
		return strings.Contains(raw, "part_time") || strings.Contains(raw, "part time")
	case models.JobTypeContract:
		return strings.Contains(raw, "contract") || strings.Contains(raw, "freelance")
	case models.JobTypeHybrid:
		return strings.Contains(raw, "hybrid")
	case models.JobTypeOnSite:
		return strings.Contains(raw, "on_site") || strings.Contains(raw, "onsite")
	}
	return true
}
