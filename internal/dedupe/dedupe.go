package dedupe

import (
	"sync"

	"jobscout-engine/pkg/models"
)

// Deduper folds normalized jobs into one consistent result set for the
// lifetime of a single run. It is the only state shared across concurrent
// portal tasks; all mutation goes through Add, which serializes merges so a
// job is never written by two tasks at once. Each run owns its own Deduper.
type Deduper struct {
	mu    sync.Mutex
	jobs  map[models.JobKey]*models.CanonicalJob
	order []models.JobKey
}

// New creates an empty deduper for one run.
func New() *Deduper {
	return &Deduper{jobs: make(map[models.JobKey]*models.CanonicalJob)}
}

// Add merges a job into the set. Returns true when the key was new. On a
// repeated key the incoming job's non-empty fields fill holes in the accepted
// record; fields already set keep their first-seen value, which preserves any
// enrichment already attached.
func (d *Deduper) Add(job *models.CanonicalJob) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := job.Key()
	existing, ok := d.jobs[key]
	if !ok {
		clone := *job
		d.jobs[key] = &clone
		d.order = append(d.order, key)
		return true
	}

	merge(existing, job)
	return false
}

// merge fills empty fields of dst from src. Existing non-empty values win.
func merge(dst, src *models.CanonicalJob) {
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if dst.Company == "" {
		dst.Company = src.Company
	}
	if dst.CompanyURL == "" {
		dst.CompanyURL = src.CompanyURL
	}
	if dst.CompanySize == "" || dst.CompanySize == models.CompanySizeUnknown {
		if src.CompanySize != "" {
			dst.CompanySize = src.CompanySize
		}
	}
	if dst.Market == "" || dst.Market == models.MarketOther {
		if src.Market != "" {
			dst.Market = src.Market
		}
	}
	if dst.PostedDate == nil {
		dst.PostedDate = src.PostedDate
	}
	if dst.Location == "" {
		dst.Location = src.Location
	}
	if dst.JobType == models.JobTypeAny {
		dst.JobType = src.JobType
	}
	if dst.SalaryText == "" {
		dst.SalaryText = src.SalaryText
	}
	if dst.Description == "" {
		dst.Description = src.Description
	}
	if len(dst.DecisionMakers) == 0 {
		dst.DecisionMakers = src.DecisionMakers
	}
}

// Len returns the number of unique jobs accepted so far.
func (d *Deduper) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.jobs)
}

// Jobs returns pointers to the accepted records in first-seen order. The
// enrichment pipeline mutates these in place before the run finalizes.
func (d *Deduper) Jobs() []*models.CanonicalJob {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]*models.CanonicalJob, 0, len(d.order))
	for _, key := range d.order {
		out = append(out, d.jobs[key])
	}
	return out
}

// Snapshot returns value copies of the accepted records in first-seen order.
func (d *Deduper) Snapshot() []models.CanonicalJob {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]models.CanonicalJob, 0, len(d.order))
	for _, key := range d.order {
		out = append(out, *d.jobs[key])
	}
	return out
}
