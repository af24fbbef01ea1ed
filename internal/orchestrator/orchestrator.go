package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/dedupe"
	"jobscout-engine/internal/enrich"
	"jobscout-engine/internal/normalize"
	"jobscout-engine/internal/sink"
	"jobscout-engine/internal/source"
	"jobscout-engine/pkg/models"
	"jobscout-engine/pkg/utils"
)

// Orchestrator fans a run across the selected portal adapters, folds their
// output through normalization and dedup, enriches the unique jobs and hands
// the finalized set to the sink. One Orchestrator serves many runs; all
// per-run state lives in the Run and its Deduper.
type Orchestrator struct {
	cfg      *config.Config
	registry *source.Registry
	pipeline *enrich.Pipeline
	sink     sink.Sink
	validate *validator.Validate
	logger   *logrus.Logger
}

// New creates an orchestrator over a fixed portal registry.
func New(cfg *config.Config, registry *source.Registry, pipeline *enrich.Pipeline, out sink.Sink) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		registry: registry,
		pipeline: pipeline,
		sink:     out,
		validate: validator.New(),
		logger:   utils.GetLogger(),
	}
}

// Execute performs one run to completion and returns the finalized Run plus
// the deduplicated, enriched job set. Portal failures are recorded in the
// outcome map, never returned as errors; Execute itself fails only on an
// invalid request or a sink failure.
func (o *Orchestrator) Execute(ctx context.Context, req models.RunRequest) (*models.Run, []models.CanonicalJob, error) {
	if err := o.validate.Struct(req); err != nil {
		return nil, nil, fmt.Errorf("invalid run request: %w", err)
	}

	run := models.NewRun(req)
	run.Status = models.RunStatusRunning
	run.StartedAt = time.Now()

	o.logger.WithFields(logrus.Fields{
		"run_id":   run.ID,
		"keywords": req.Keywords,
		"portals":  req.PortalIDs,
	}).Info("Starting scrape run")

	runCtx, cancel := context.WithTimeout(ctx, o.cfg.Orchestrator.RunTimeout)
	defer cancel()

	deduper := dedupe.New()

	// Partition the requested portals: unknown or disabled ids are skipped
	// up front, never a reason to fail the run.
	var selected []source.Entry
	seen := make(map[string]bool)
	for _, id := range req.PortalIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		entry, ok := o.registry.Get(id)
		if !ok {
			run.Outcomes[id] = &models.PortalOutcome{Status: models.OutcomeSkipped, Error: "unknown portal"}
			continue
		}
		if !entry.Spec.Enabled {
			run.Outcomes[id] = &models.PortalOutcome{Status: models.OutcomeSkipped, Error: "portal disabled"}
			continue
		}
		selected = append(selected, entry)
	}

	sem := semaphore.NewWeighted(int64(o.cfg.Orchestrator.MaxConcurrentPortals))
	var wg sync.WaitGroup
	var mu sync.Mutex // guards run.Outcomes

	for _, entry := range selected {
		wg.Add(1)
		go func(entry source.Entry) {
			defer wg.Done()

			if err := sem.Acquire(runCtx, 1); err != nil {
				// Run budget expired while this portal was still queued.
				mu.Lock()
				run.Outcomes[entry.Spec.ID] = &models.PortalOutcome{Status: models.OutcomeTimeout, Error: "run budget exhausted before portal started"}
				mu.Unlock()
				return
			}
			defer sem.Release(1)

			outcome := o.runPortal(runCtx, entry, req, deduper)
			mu.Lock()
			run.Outcomes[entry.Spec.ID] = outcome
			mu.Unlock()
		}(entry)
	}

	wg.Wait()

	run.JobCount = deduper.Len()

	// Enrich in place. Skipped entirely once the run budget is gone; an
	// unenriched job is still a valid output.
	if runCtx.Err() == nil {
		o.pipeline.EnrichAll(runCtx, deduper.Jobs())
	} else {
		o.logger.WithField("run_id", run.ID).Warn("Run budget exhausted, skipping enrichment")
	}

	run.Status = finalStatus(run)
	run.FinishedAt = time.Now()

	jobs := deduper.Snapshot()

	// The sink gets one commit per run, and the commit must survive a run
	// that finalized because its budget expired.
	if err := o.sink.Commit(context.WithoutCancel(ctx), run, jobs); err != nil {
		return run, jobs, fmt.Errorf("committing run %s: %w", run.ID, err)
	}

	o.logger.WithFields(logrus.Fields{
		"run_id":    run.ID,
		"status":    run.Status,
		"job_count": run.JobCount,
		"succeeded": run.SucceededPortals(),
		"duration":  utils.FormatDuration(run.FinishedAt.Sub(run.StartedAt)),
	}).Info("Run finished")

	return run, jobs, nil
}

// runPortal drives one adapter, retrying transient failures, and returns the
// portal's outcome. Fragments emitted before a failure are kept; the deduper
// makes re-emitted fragments on a retry harmless.
func (o *Orchestrator) runPortal(ctx context.Context, entry source.Entry, req models.RunRequest, deduper *dedupe.Deduper) *models.PortalOutcome {
	spec := entry.Spec
	outcome := &models.PortalOutcome{}
	start := time.Now()
	defer func() { outcome.Duration = time.Since(start) }()

	log := o.logger.WithField("portal", spec.ID)

	emit := func(f source.Fragment) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		job, err := normalize.Fragment(f, spec, time.Now())
		if err != nil {
			outcome.CountSkip(skipReason(err))
			log.WithError(err).Debug("Dropped invalid fragment")
			return nil
		}
		if !passesFilters(job, req.Filters, spec) {
			return nil
		}
		outcome.JobCount++
		deduper.Add(job)
		return nil
	}

	maxAttempts := 1 + o.cfg.Orchestrator.MaxRetries
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		outcome.Attempts = attempt
		lastErr = entry.Adapter.Search(ctx, req.Keywords, req.Filters, emit)
		if lastErr == nil {
			outcome.Status = models.OutcomeSuccess
			return outcome
		}

		if ctx.Err() != nil {
			break
		}

		kind := source.KindOf(lastErr)
		if !kind.Transient() || attempt == maxAttempts {
			break
		}

		delay := backoffDelay(attempt, o.cfg.Orchestrator.RetryBaseDelay, o.cfg.Orchestrator.RetryMaxDelay, o.cfg.Orchestrator.RetryJitter)
		log.WithFields(logrus.Fields{
			"kind":    string(kind),
			"attempt": attempt,
			"delay":   utils.FormatDuration(delay),
		}).Warn("Portal failed, retrying")
		if err := sleepCtx(ctx, delay); err != nil {
			break
		}
	}

	if ctx.Err() != nil && (lastErr == nil || errors.Is(lastErr, context.DeadlineExceeded) || errors.Is(lastErr, context.Canceled)) {
		outcome.Status = models.OutcomeTimeout
		outcome.ErrorKind = string(source.KindTimeout)
		outcome.Error = "run budget exhausted"
		return outcome
	}

	outcome.Status = models.OutcomeError
	outcome.ErrorKind = string(source.KindOf(lastErr))
	outcome.Error = lastErr.Error()
	log.WithFields(logrus.Fields{
		"kind":  outcome.ErrorKind,
		"error": outcome.Error,
	}).Error("Portal failed")
	return outcome
}

// skipReason maps a normalization rejection onto its outcome-map counter.
func skipReason(err error) string {
	switch {
	case errors.Is(err, normalize.ErrMissingTitle):
		return "missing_title"
	case errors.Is(err, normalize.ErrMissingCompany):
		return "missing_company"
	case errors.Is(err, normalize.ErrGenericCompany):
		return "generic_company"
	case errors.Is(err, normalize.ErrBadLink):
		return "bad_link"
	}
	return "other"
}

// passesFilters re-applies the filters a portal could not honor natively.
// Permissive on missing data: a job with no posted date or an unknown job
// type is kept rather than dropped.
func passesFilters(job *models.CanonicalJob, filters models.FilterSpec, spec source.Spec) bool {
	if !spec.SupportsJobType && filters.JobType != "" && filters.JobType != models.JobTypeAny {
		if job.JobType != models.JobTypeAny && job.JobType != filters.JobType {
			return false
		}
	}
	if !spec.SupportsTimeFilter {
		if cutoff := filters.TimeWindow.Since(time.Now()); cutoff != nil {
			if job.PostedDate != nil && job.PostedDate.Before(*cutoff) {
				return false
			}
		}
	}
	return true
}

// finalStatus derives the terminal run status from the outcome map:
// completed when every attempted portal succeeded, failed when nothing
// succeeded and nothing was produced, completed_with_errors otherwise.
func finalStatus(run *models.Run) models.RunStatus {
	succeeded := run.SucceededPortals()
	attempted := 0
	for _, o := range run.Outcomes {
		if o.Status != models.OutcomeSkipped {
			attempted++
		}
	}

	if succeeded == 0 && run.JobCount == 0 {
		return models.RunStatusFailed
	}
	if attempted > 0 && succeeded == attempted {
		return models.RunStatusCompleted
	}
	return models.RunStatusCompletedWithErrors
}
