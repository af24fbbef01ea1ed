package enrich

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/pkg/models"
)

type fixedFetcher struct {
	pages map[string]string
}

func (f *fixedFetcher) HTML(_ context.Context, url string) (string, error) {
	if html, ok := f.pages[url]; ok {
		return html, nil
	}
	return "", fmt.Errorf("no fixture for %s", url)
}

func TestKnownCompanyProvider(t *testing.T) {
	p := NewKnownCompanyProvider()
	ctx := context.Background()

	tests := []struct {
		company string
		want    models.CompanySize
	}{
		{"Google", models.CompanySizeEnterprise},
		{"google uk", models.CompanySizeEnterprise},
		{"Stripe, Inc.", models.CompanySizeEnterprise},
		{"GitLab", models.CompanySizeLarge},
		{"Linear", models.CompanySizeSmall},
	}

	for _, tt := range tests {
		got, err := p.Resolve(ctx, testJob(tt.company))
		require.NoError(t, err, "company=%q", tt.company)
		assert.Equal(t, tt.want, got, "company=%q", tt.company)
	}

	_, err := p.Resolve(ctx, testJob("Tiny Obscure Startup Ltd"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWebsiteSizeProvider(t *testing.T) {
	job := testJob("acme")
	p := NewWebsiteSizeProvider(&fixedFetcher{pages: map[string]string{
		job.CompanyURL + "/about": `<html><body>We are a team of over 300 employees across 4 offices.</body></html>`,
	}})

	got, err := p.Resolve(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, models.CompanySizeLarge, got)
}

func TestWebsiteSizeProviderNoHeadcount(t *testing.T) {
	job := testJob("acme")
	p := NewWebsiteSizeProvider(&fixedFetcher{pages: map[string]string{
		job.CompanyURL + "/about": `<html><body>We love what we do.</body></html>`,
		job.CompanyURL:            `<html><body>Welcome.</body></html>`,
	}})

	_, err := p.Resolve(context.Background(), job)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWebsiteSizeProviderNoURL(t *testing.T) {
	job := testJob("acme")
	job.CompanyURL = ""

	p := NewWebsiteSizeProvider(&fixedFetcher{})
	_, err := p.Resolve(context.Background(), job)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestBucketHeadcount(t *testing.T) {
	tests := []struct {
		n    int
		want models.CompanySize
	}{
		{0, models.CompanySizeUnknown},
		{1, models.CompanySizeSmall},
		{50, models.CompanySizeSmall},
		{51, models.CompanySizeMedium},
		{250, models.CompanySizeMedium},
		{251, models.CompanySizeLarge},
		{1000, models.CompanySizeLarge},
		{1001, models.CompanySizeEnterprise},
		{25000, models.CompanySizeEnterprise},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketHeadcount(tt.n), "n=%d", tt.n)
	}
}

func TestSizeFromText(t *testing.T) {
	size, ok := sizeFromText("Join our 1,200+ employees worldwide")
	require.True(t, ok)
	assert.Equal(t, models.CompanySizeEnterprise, size)

	size, ok = sizeFromText("a team of 12 building tools")
	require.True(t, ok)
	assert.Equal(t, models.CompanySizeSmall, size)

	_, ok = sizeFromText("we ship software")
	assert.False(t, ok)
}

func TestNameHeuristicProvider(t *testing.T) {
	p := NewNameHeuristicProvider()
	ctx := context.Background()

	tests := []struct {
		company string
		want    models.CompanySize
	}{
		{"Acme Global Holdings", models.CompanySizeEnterprise},
		{"Northern Rail Group", models.CompanySizeLarge},
		{"Pixel Studio", models.CompanySizeSmall},
		{"Brightside Labs", models.CompanySizeSmall},
	}

	for _, tt := range tests {
		got, err := p.Resolve(ctx, testJob(tt.company))
		require.NoError(t, err, "company=%q", tt.company)
		assert.Equal(t, tt.want, got, "company=%q", tt.company)
	}

	_, err := p.Resolve(ctx, testJob("Meridian"))
	assert.ErrorIs(t, err, ErrNotFound)
}
