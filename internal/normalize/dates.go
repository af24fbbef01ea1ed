package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Absolute layouts seen across the portal set, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006", // reed
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"Mon, 02 Jan 2006 15:04:05 -0700",
}

var relativeDate = regexp.MustCompile(`(?i)(\d+)\s*(minute|min|hour|hr|day|week|month)s?\s*ago`)

// ParseDate parses a posting date best-effort. Unparseable input yields nil,
// never an error: a missing posted date does not invalidate a record.
func ParseDate(raw string, now time.Time) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			// Guard against garbage that still parses, like year 0021.
			if t.Year() > 1990 && t.Before(now.Add(24*time.Hour)) {
				return &t
			}
		}
	}

	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "today") || strings.Contains(lower, "just now"):
		t := now
		return &t
	case strings.Contains(lower, "yesterday"):
		t := now.Add(-24 * time.Hour)
		return &t
	}

	if m := relativeDate.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		var unit time.Duration
		switch {
		case strings.HasPrefix(m[2], "min"):
			unit = time.Minute
		case strings.HasPrefix(m[2], "h"):
			unit = time.Hour
		case m[2] == "day":
			unit = 24 * time.Hour
		case m[2] == "week":
			unit = 7 * 24 * time.Hour
		case m[2] == "month":
			unit = 30 * 24 * time.Hour
		}
		if unit > 0 {
			t := now.Add(-time.Duration(n) * unit)
			return &t
		}
	}

	return nil
}
