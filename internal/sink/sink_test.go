package sink

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/pkg/models"
)

func testRun() *models.Run {
	run := models.NewRun(models.RunRequest{
		Keywords:  []string{"go"},
		PortalIDs: []string{"remotive"},
	})
	run.Status = models.RunStatusCompleted
	run.Outcomes["remotive"] = &models.PortalOutcome{Status: models.OutcomeSuccess, JobCount: 2}
	run.JobCount = 2
	return run
}

func testJobs() []models.CanonicalJob {
	return []models.CanonicalJob{
		{Title: "Engineer", Company: "Acme", PortalID: "remotive", JobLink: "https://x/1"},
		{Title: "Developer", Company: "Beta", PortalID: "remotive", JobLink: "https://x/2", ExportStatus: "exported"},
	}
}

func TestFileSinkCommitWritesJobsAndSummary(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileSink(dir)
	require.NoError(t, err)

	run := testRun()
	require.NoError(t, s.Commit(context.Background(), run, testJobs()))

	f, err := os.Open(filepath.Join(dir, run.ID+".jobs.jsonl"))
	require.NoError(t, err)
	defer f.Close()

	var jobs []models.CanonicalJob
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var job models.CanonicalJob
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &job))
		jobs = append(jobs, job)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, jobs, 2)
	assert.Equal(t, "Engineer", jobs[0].Title)
	for _, job := range jobs {
		assert.Equal(t, models.ExportStatusPending, job.ExportStatus, "every job must leave the engine pending")
	}

	data, err := os.ReadFile(filepath.Join(dir, run.ID+".run.json"))
	require.NoError(t, err)
	var persisted models.Run
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, run.ID, persisted.ID)
	assert.Equal(t, models.RunStatusCompleted, persisted.Status)
}

func TestFileSinkRejectsDoubleCommit(t *testing.T) {
	s, err := NewFileSink(t.TempDir())
	require.NoError(t, err)

	run := testRun()
	require.NoError(t, s.Commit(context.Background(), run, nil))
	assert.Error(t, s.Commit(context.Background(), run, nil))
}

func TestFileSinkCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "runs")
	_, err := NewFileSink(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
