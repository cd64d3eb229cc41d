package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/etapa/internal/models"
)

func TestValidateOK(t *testing.T) {
	p, err := parsePipeline([]byte(travisYAML))
	require.NoError(t, err)
	assert.Empty(t, Validate(p))
}

func TestValidateReportsEveryProblem(t *testing.T) {
	p := &models.Pipeline{
		Env:        []string{"not-an-assignment"},
		CloneDepth: -1,
		Jobs: []models.JobSpec{
			{Name: ""},
			{Name: "dup"},
			{Name: "dup"},
			{Name: "bad-env", Env: []string{"ALSO BAD"}},
		},
	}

	errs := Validate(p)
	require.NotEmpty(t, errs)

	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	joined := ""
	for _, m := range messages {
		joined += m + "\n"
	}

	assert.Contains(t, joined, "job has no name")
	assert.Contains(t, joined, "duplicate job name")
	assert.Contains(t, joined, "not KEY=VALUE")
	assert.Contains(t, joined, "clone_depth")
	assert.Contains(t, joined, "no script to run")
}

func TestValidateAggregatesServiceProblems(t *testing.T) {
	// A bad service must not eclipse the rest of the problems: validate
	// lists everything it finds.
	p, err := parsePipeline([]byte(`
language: python
services:
  - somethingelse
  - redis:not-a-port
env: not-an-assignment
`))
	require.NoError(t, err, "service problems are a validation matter, not a parse failure")

	joined := ""
	for _, err := range Validate(p) {
		joined += err.Error() + "\n"
	}
	assert.Contains(t, joined, `service "somethingelse": unknown service`)
	assert.Contains(t, joined, `service "redis": invalid port`)
	assert.Contains(t, joined, "not KEY=VALUE")
}

func TestValidateToolStep(t *testing.T) {
	p := &models.Pipeline{
		Tool: &models.ToolStep{Binary: "", Capture: "("},
	}
	errs := Validate(p)

	joined := ""
	for _, err := range errs {
		joined += err.Error() + "\n"
	}
	assert.Contains(t, joined, "no binary")
	assert.Contains(t, joined, "invalid capture pattern")
}

func TestValidateEmptyPipeline(t *testing.T) {
	errs := Validate(&models.Pipeline{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "no script and no jobs")
}
