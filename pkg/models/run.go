package models

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the overall state of one orchestrated scrape run.
type RunStatus string

const (
	RunStatusPending             RunStatus = "pending"
	RunStatusRunning             RunStatus = "running"
	RunStatusCompleted           RunStatus = "completed"
	RunStatusCompletedWithErrors RunStatus = "completed_with_errors"
	RunStatusFailed              RunStatus = "failed"
)

// Terminal reports whether the status is final. A Run is immutable once its
// status reaches a terminal value.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusCompletedWithErrors, RunStatusFailed:
		return true
	}
	return false
}

// OutcomeStatus is the per-portal result recorded in a run's outcome map.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeError   OutcomeStatus = "error"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeTimeout OutcomeStatus = "timeout"
)

// TimeWindow restricts results to postings newer than the window.
type TimeWindow string

const (
	TimeWindowAny TimeWindow = "any"
	TimeWindow24h TimeWindow = "24h"
	TimeWindow3d  TimeWindow = "3d"
	TimeWindow7d  TimeWindow = "7d"
	TimeWindow30d TimeWindow = "30d"
)

// Since returns the cutoff instant for the window, or nil for TimeWindowAny.
func (w TimeWindow) Since(now time.Time) *time.Time {
	var d time.Duration
	switch w {
	case TimeWindow24h:
		d = 24 * time.Hour
	case TimeWindow3d:
		d = 3 * 24 * time.Hour
	case TimeWindow7d:
		d = 7 * 24 * time.Hour
	case TimeWindow30d:
		d = 30 * 24 * time.Hour
	default:
		return nil
	}
	cutoff := now.Add(-d)
	return &cutoff
}

// Days returns the window length in whole days, 0 meaning unbounded.
func (w TimeWindow) Days() int {
	switch w {
	case TimeWindow24h:
		return 1
	case TimeWindow3d:
		return 3
	case TimeWindow7d:
		return 7
	case TimeWindow30d:
		return 30
	}
	return 0
}

// FilterSpec narrows a search across every selected portal. Portals that
// cannot honor a filter natively get the filter re-applied after
// normalization.
type FilterSpec struct {
	JobType    JobType    `json:"job_type,omitempty"`
	TimeWindow TimeWindow `json:"time_window,omitempty"`
	Location   string     `json:"location,omitempty"`
	Market     Market     `json:"market,omitempty"`
}

// RunRequest is the caller's description of one run.
type RunRequest struct {
	Keywords  []string   `json:"keywords" validate:"required,min=1,dive,required"`
	Filters   FilterSpec `json:"filters"`
	PortalIDs []string   `json:"portal_ids" validate:"required,min=1"`
}

// PortalOutcome records how a single portal fared within a run.
type PortalOutcome struct {
	Status         OutcomeStatus  `json:"status"`
	ErrorKind      string         `json:"error_kind,omitempty"`
	Error          string         `json:"error,omitempty"`
	JobCount       int            `json:"job_count"`
	InvalidRecords int            `json:"invalid_records"`
	SkipReasons    map[string]int `json:"skip_reasons,omitempty"`
	Attempts       int            `json:"attempts"`
	Duration       time.Duration  `json:"duration"`
}

// CountSkip records one dropped fragment under its reason.
func (o *PortalOutcome) CountSkip(reason string) {
	o.InvalidRecords++
	if o.SkipReasons == nil {
		o.SkipReasons = make(map[string]int)
	}
	o.SkipReasons[reason]++
}

// Run is one invocation of the orchestrator. Created at invocation, mutated
// only by the orchestrator, immutable once Status is terminal.
type Run struct {
	ID         string                    `json:"id"`
	Request    RunRequest                `json:"request"`
	StartedAt  time.Time                 `json:"started_at"`
	FinishedAt time.Time                 `json:"finished_at,omitempty"`
	Outcomes   map[string]*PortalOutcome `json:"outcomes"`
	Status     RunStatus                 `json:"status"`
	JobCount   int                       `json:"job_count"`
}

// NewRun creates a pending run for the given request.
func NewRun(req RunRequest) *Run {
	return &Run{
		ID:       uuid.New().String(),
		Request:  req,
		Outcomes: make(map[string]*PortalOutcome),
		Status:   RunStatusPending,
	}
}

// SucceededPortals counts portals that finished with OutcomeSuccess.
func (r *Run) SucceededPortals() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == OutcomeSuccess {
			n++
		}
	}
	return n
}
