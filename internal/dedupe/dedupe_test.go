package dedupe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/pkg/models"
)

func job(link, portal string) *models.CanonicalJob {
	return &models.CanonicalJob{
		Title:    "Engineer",
		Company:  "Acme",
		PortalID: portal,
		JobLink:  link,
	}
}

func TestAddNewAndDuplicateKeys(t *testing.T) {
	d := New()

	assert.True(t, d.Add(job("https://x/1", "a")))
	assert.False(t, d.Add(job("https://x/1", "a")))
	assert.Equal(t, 1, d.Len())

	// Same link on a different portal is a distinct key.
	assert.True(t, d.Add(job("https://x/1", "b")))
	assert.Equal(t, 2, d.Len())
}

func TestAddIsIdempotent(t *testing.T) {
	d := New()
	j := job("https://x/1", "a")
	j.Location = "London"

	d.Add(j)
	once := d.Snapshot()

	d.Add(j)
	twice := d.Snapshot()

	assert.Equal(t, once, twice)
}

func TestMergeFillsHolesOnly(t *testing.T) {
	d := New()

	first := job("https://x/1", "a")
	first.Location = "" // hole
	first.SalaryText = "£70k"

	second := job("https://x/1", "a")
	second.Location = "London"
	second.SalaryText = "should not overwrite"
	second.CompanySize = models.CompanySizeLarge

	d.Add(first)
	d.Add(second)

	jobs := d.Snapshot()
	require.Len(t, jobs, 1)
	assert.Equal(t, "London", jobs[0].Location)
	assert.Equal(t, "£70k", jobs[0].SalaryText)
	assert.Equal(t, models.CompanySizeLarge, jobs[0].CompanySize)
}

func TestMergeOrderIndependentForDisjointFields(t *testing.T) {
	withLocation := job("https://x/1", "a")
	withLocation.Location = "London"

	withDate := job("https://x/1", "a")
	posted := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	withDate.PostedDate = &posted

	forward := New()
	forward.Add(withLocation)
	forward.Add(withDate)

	reverse := New()
	reverse.Add(withDate)
	reverse.Add(withLocation)

	a, b := forward.Snapshot(), reverse.Snapshot()
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, a[0].Location, b[0].Location)
	assert.Equal(t, a[0].PostedDate, b[0].PostedDate)
}

func TestMergePreservesEnrichment(t *testing.T) {
	d := New()

	enriched := job("https://x/1", "a")
	d.Add(enriched)
	d.Jobs()[0].DecisionMakers = []models.DecisionMaker{{Name: "Jane Smith", Title: "CTO"}}

	d.Add(job("https://x/1", "a"))

	jobs := d.Snapshot()
	require.Len(t, jobs, 1)
	require.Len(t, jobs[0].DecisionMakers, 1)
	assert.Equal(t, "Jane Smith", jobs[0].DecisionMakers[0].Name)
}

func TestJobsFirstSeenOrder(t *testing.T) {
	d := New()
	d.Add(job("https://x/3", "a"))
	d.Add(job("https://x/1", "a"))
	d.Add(job("https://x/2", "a"))

	jobs := d.Jobs()
	require.Len(t, jobs, 3)
	assert.Equal(t, "https://x/3", jobs[0].JobLink)
	assert.Equal(t, "https://x/1", jobs[1].JobLink)
	assert.Equal(t, "https://x/2", jobs[2].JobLink)
}

func TestAddClonesInput(t *testing.T) {
	d := New()
	j := job("https://x/1", "a")
	d.Add(j)

	j.Title = "mutated after add"
	assert.Equal(t, "Engineer", d.Snapshot()[0].Title)
}
