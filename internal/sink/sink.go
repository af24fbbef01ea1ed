package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"jobscout-engine/pkg/models"
	"jobscout-engine/pkg/utils"
)

// Sink receives the finalized, deduplicated, enriched job set plus the run
// summary. Invoked exactly once per run, at finalization; it never performs
// incremental writes.
type Sink interface {
	Commit(ctx context.Context, run *models.Run, jobs []models.CanonicalJob) error
}

// FileSink writes each run to a directory: the job set as JSON Lines and the
// run summary as a JSON document next to it. Downstream exporters read the
// files; every job is written with export status still pending.
type FileSink struct {
	dir    string
	logger *logrus.Logger

	mu        sync.Mutex
	committed map[string]bool
}

// NewFileSink creates a file sink rooted at dir, creating it if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating sink directory: %w", err)
	}
	return &FileSink{
		dir:       dir,
		logger:    utils.GetLogger(),
		committed: make(map[string]bool),
	}, nil
}

// Commit implements Sink. A second commit for the same run id is a bug in the
// caller and fails loudly rather than overwriting the first.
func (s *FileSink) Commit(ctx context.Context, run *models.Run, jobs []models.CanonicalJob) error {
	s.mu.Lock()
	if s.committed[run.ID] {
		s.mu.Unlock()
		return fmt.Errorf("run %s already committed", run.ID)
	}
	s.committed[run.ID] = true
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	jobsPath := filepath.Join(s.dir, run.ID+".jobs.jsonl")
	if err := s.writeJobs(jobsPath, jobs); err != nil {
		return err
	}

	runPath := filepath.Join(s.dir, run.ID+".run.json")
	if err := writeJSON(runPath, run); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"run_id": run.ID,
		"jobs":   len(jobs),
		"path":   jobsPath,
	}).Info("Committed run results")
	return nil
}

func (s *FileSink) writeJobs(path string, jobs []models.CanonicalJob) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	enc := json.NewEncoder(f)
	for i := range jobs {
		// The export collaborator owns flipping this; jobs always leave
		// the engine pending.
		jobs[i].ExportStatus = models.ExportStatusPending
		if err := enc.Encode(&jobs[i]); err != nil {
			f.Close()
			return fmt.Errorf("writing job %d to %s: %w", i, path, err)
		}
	}
	return f.Close()
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
