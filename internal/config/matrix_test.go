package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/etapa/internal/models"
)

func TestExpandMatrixImplicitJob(t *testing.T) {
	p := &models.Pipeline{
		Script:     []string{"pytest"},
		Env:        []string{"CI=true"},
		CloneDepth: 1,
	}

	jobs := ExpandMatrix(p)
	require.Len(t, jobs, 1)
	assert.Equal(t, DefaultJobName, jobs[0].Name)
	assert.Equal(t, []string{"pytest"}, jobs[0].Script)
	assert.Equal(t, []string{"CI=true"}, jobs[0].Env)
}

func TestExpandMatrixInheritAndOverride(t *testing.T) {
	p := &models.Pipeline{
		Env:          []string{"CI=true"},
		Install:      []string{"conda env create -f environment.yml"},
		Script:       []string{"pytest"},
		AfterScript:  []string{"echo done"},
		CloneDepth:   1,
		BeforeScript: nil,
		Jobs: []models.JobSpec{
			{Name: "pytest"},
			{
				Name:         "basic-ea",
				Env:          []string{"EA_MODE=basic"},
				BeforeScript: []string{"git clone https://example.com/ea.git"},
				Script:       []string{"python ea/basic_ea.py"},
			},
		},
	}

	jobs := ExpandMatrix(p)
	require.Len(t, jobs, 2)

	// plain job inherits every top-level phase
	assert.Equal(t, []string{"pytest"}, jobs[0].Script)
	assert.Equal(t, []string{"conda env create -f environment.yml"}, jobs[0].Install)
	assert.Equal(t, []string{"echo done"}, jobs[0].AfterScript)
	assert.Empty(t, jobs[0].BeforeScript)

	// overriding job keeps install/after_script but replaces the rest
	assert.Equal(t, []string{"python ea/basic_ea.py"}, jobs[1].Script)
	assert.Equal(t, []string{"git clone https://example.com/ea.git"}, jobs[1].BeforeScript)
	assert.Equal(t, []string{"conda env create -f environment.yml"}, jobs[1].Install)
	assert.Equal(t, []string{"CI=true", "EA_MODE=basic"}, jobs[1].Env,
		"global env comes first so job env wins")
	assert.Equal(t, 1, jobs[1].CloneDepth)
}

func TestExpandMatrixJobToolOverride(t *testing.T) {
	globalTool := &models.ToolStep{Binary: "global"}
	jobTool := &models.ToolStep{Binary: "job"}
	p := &models.Pipeline{
		Script: []string{"true"},
		Tool:   globalTool,
		Jobs: []models.JobSpec{
			{Name: "inherits"},
			{Name: "overrides", Tool: jobTool},
		},
	}

	jobs := ExpandMatrix(p)
	require.Len(t, jobs, 2)
	assert.Same(t, globalTool, jobs[0].Tool)
	assert.Same(t, jobTool, jobs[1].Tool)
}
