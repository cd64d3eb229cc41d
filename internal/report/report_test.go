package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/thenoetrevino/etapa/internal/models"
)

func failedRun() *models.RunResult {
	started := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	return &models.RunResult{
		ID:           "abcdef12-3456-7890-0000-000000000000",
		PipelinePath: "/repo/.travis.yml",
		Verdict:      models.StatusFailed,
		StartedAt:    started,
		FinishedAt:   started.Add(time.Minute),
		Jobs: []models.JobResult{
			{
				Name:     "pytest",
				Status:   models.StatusPassed,
				Duration: 30 * time.Second,
				Steps: []models.StepResult{
					{Phase: models.PhaseTool, Command: "/opt/bin/solve", Captured: "-42.7"},
				},
			},
			{
				Name:     "basic-ea",
				Status:   models.StatusFailed,
				Duration: 20 * time.Second,
				Steps: []models.StepResult{
					{Phase: models.PhaseScript, Command: "python basic_ea.py", ExitCode: 1, Output: "Traceback (most recent call last)"},
				},
			},
		},
	}
}

func TestBuildMarkdown(t *testing.T) {
	md := BuildMarkdown(failedRun())

	assert.Contains(t, md, "# Run abcdef12", "title uses the short run id")
	assert.Contains(t, md, "**Verdict:** failed")
	assert.Contains(t, md, "| pytest | passed |")
	assert.Contains(t, md, "| basic-ea | failed |")
	assert.Contains(t, md, "## Captured values")
	assert.Contains(t, md, "`-42.7`")
	assert.Contains(t, md, "script failed (exit 1)")
	assert.Contains(t, md, "Traceback (most recent call last)")
}

func TestBuildMarkdownPassedRunHasNoFailureSections(t *testing.T) {
	run := failedRun()
	run.Verdict = models.StatusPassed
	run.Jobs = run.Jobs[:1]

	md := BuildMarkdown(run)
	assert.NotContains(t, md, "failed (exit")
	assert.Contains(t, md, "**Verdict:** passed")
}

func TestBuildMarkdownSkipsPassedStepsOfFailedJobs(t *testing.T) {
	run := failedRun()
	run.Jobs[1].Steps = append([]models.StepResult{
		{Phase: models.PhaseInstall, Command: "pip install", ExitCode: 0},
	}, run.Jobs[1].Steps...)

	md := BuildMarkdown(run)
	assert.False(t, strings.Contains(md, "install failed"), "passed steps must not be reported as failures")
}
