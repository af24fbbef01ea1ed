package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateAbsoluteLayouts(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		raw      string
		wantDay  int
		wantYear int
	}{
		{"2026-03-08T09:30:00Z", 8, 2026},
		{"2026-03-08", 8, 2026},
		{"08/03/2026", 8, 2026}, // dd/mm/yyyy
		{"Mar 8, 2026", 8, 2026},
		{"8 Mar 2026", 8, 2026},
	}

	for _, tt := range tests {
		got := ParseDate(tt.raw, now)
		require.NotNil(t, got, "raw=%q", tt.raw)
		assert.Equal(t, tt.wantDay, got.Day(), "raw=%q", tt.raw)
		assert.Equal(t, tt.wantYear, got.Year(), "raw=%q", tt.raw)
	}
}

func TestParseDateRelative(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		raw  string
		want time.Time
	}{
		{"today", now},
		{"Just now", now},
		{"yesterday", now.Add(-24 * time.Hour)},
		{"3 days ago", now.Add(-3 * 24 * time.Hour)},
		{"2 weeks ago", now.Add(-14 * 24 * time.Hour)},
		{"5 hours ago", now.Add(-5 * time.Hour)},
		{"30 minutes ago", now.Add(-30 * time.Minute)},
	}

	for _, tt := range tests {
		got := ParseDate(tt.raw, now)
		require.NotNil(t, got, "raw=%q", tt.raw)
		assert.WithinDuration(t, tt.want, *got, time.Second, "raw=%q", tt.raw)
	}
}

func TestParseDateGarbage(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for _, raw := range []string{
		"",
		"   ",
		"soon",
		"0021-01-01",          // parses but fails the sanity year guard
		"2030-01-01T00:00:00Z", // far future
	} {
		assert.Nil(t, ParseDate(raw, now), "raw=%q", raw)
	}
}
