package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/thenoetrevino/etapa/internal/events"
	"github.com/thenoetrevino/etapa/internal/git"
	"github.com/thenoetrevino/etapa/internal/models"
	"github.com/thenoetrevino/etapa/internal/tool"
)

// runJob executes one job's phases in order and returns its result.
func (r *Runner) runJob(ctx context.Context, runID string, job models.Job) models.JobResult {
	started := time.Now()
	result := models.JobResult{
		Name:   job.Name,
		Status: models.StatusRunning,
	}

	events.PublishTo(r.opts.Publisher, events.Event{
		Type:      events.EventJobStarted,
		RunID:     runID,
		Job:       job.Name,
		Timestamp: time.Now(),
	})

	workdir, err := r.jobWorkdir(job)
	if err != nil {
		result.Status = models.StatusErrored
		result.Err = err.Error()
		result.Duration = time.Since(started)
		r.publishJobFinished(runID, result)
		return result
	}

	// install and before_script are setup: the first failure stops the job
	// and marks it errored rather than failed.
	setupOK := true
	for _, phase := range []struct {
		name     models.Phase
		commands []string
	}{
		{models.PhaseInstall, job.Install},
		{models.PhaseBeforeScript, job.BeforeScript},
	} {
		if !setupOK {
			break
		}
		for _, command := range phase.commands {
			step := r.runStep(ctx, runID, job, workdir, phase.name, command)
			result.Steps = append(result.Steps, step)
			if step.ExitCode != 0 {
				result.Status = models.StatusErrored
				result.Err = fmt.Sprintf("%s step failed: %s", phase.name, command)
				setupOK = false
				break
			}
		}
	}

	// script runs every command even after a failure; any non-zero exit
	// fails the job.
	if setupOK {
		failed := false
		for _, command := range job.Script {
			step := r.runStep(ctx, runID, job, workdir, models.PhaseScript, command)
			result.Steps = append(result.Steps, step)
			if step.ExitCode != 0 {
				failed = true
			}
		}

		if job.Tool != nil {
			step, err := r.runToolStep(ctx, runID, job, workdir)
			result.Steps = append(result.Steps, step)
			if err != nil {
				failed = true
				result.Err = err.Error()
			}
		}

		if failed {
			result.Status = models.StatusFailed
		}
	}

	// after_script always runs; its exit codes never change the verdict.
	for _, command := range job.AfterScript {
		step := r.runStep(ctx, runID, job, workdir, models.PhaseAfterScript, command)
		result.Steps = append(result.Steps, step)
	}

	if ctx.Err() != nil {
		result.Status = models.StatusCanceled
	} else if result.Status == models.StatusRunning {
		result.Status = models.StatusPassed
	}
	result.Duration = time.Since(started)
	r.publishJobFinished(runID, result)
	return result
}

// runStep executes one shell command with the job's merged environment,
// capturing combined output. Clone commands get the pipeline's clone depth
// injected when they don't pin one.
func (r *Runner) runStep(ctx context.Context, runID string, job models.Job, workdir string, phase models.Phase, command string) models.StepResult {
	command = git.EnsureDepth(command, job.CloneDepth)

	events.PublishTo(r.opts.Publisher, events.Event{
		Type:      events.EventStepStarted,
		RunID:     runID,
		Job:       job.Name,
		Phase:     phase,
		Command:   command,
		Timestamp: time.Now(),
	})

	started := time.Now()
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = workdir
	cmd.Env = append(os.Environ(), job.Env...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	step := models.StepResult{
		Phase:    phase,
		Command:  command,
		Output:   out.String(),
		ExitCode: exitCode(err),
		Duration: time.Since(started),
	}

	events.PublishTo(r.opts.Publisher, events.Event{
		Type:      events.EventStepFinished,
		RunID:     runID,
		Job:       job.Name,
		Phase:     phase,
		Command:   command,
		ExitCode:  step.ExitCode,
		Output:    step.Output,
		Timestamp: time.Now(),
	})
	return step
}

// runToolStep executes the job's tool step. The tool shares the run-level
// cache so identical invocations across jobs run once.
func (r *Runner) runToolStep(ctx context.Context, runID string, job models.Job, workdir string) (models.StepResult, error) {
	events.PublishTo(r.opts.Publisher, events.Event{
		Type:      events.EventStepStarted,
		RunID:     runID,
		Job:       job.Name,
		Phase:     models.PhaseTool,
		Command:   job.Tool.Binary,
		Timestamp: time.Now(),
	})

	started := time.Now()
	res, err := tool.NewRunner(*job.Tool, workdir, r.cache).Run(ctx)
	step := models.StepResult{
		Phase:    models.PhaseTool,
		Command:  job.Tool.Binary,
		Output:   res.Output,
		Captured: res.Captured,
		ExitCode: res.ExitCode,
		Duration: time.Since(started),
	}
	if err != nil && step.ExitCode == 0 {
		// Capture or setup failures without a process exit code still
		// have to fail the step.
		step.ExitCode = 1
	}

	events.PublishTo(r.opts.Publisher, events.Event{
		Type:      events.EventStepFinished,
		RunID:     runID,
		Job:       job.Name,
		Phase:     models.PhaseTool,
		Command:   job.Tool.Binary,
		ExitCode:  step.ExitCode,
		Output:    step.Output,
		Timestamp: time.Now(),
	})
	return step, err
}

func (r *Runner) publishJobFinished(runID string, result models.JobResult) {
	events.PublishTo(r.opts.Publisher, events.Event{
		Type:      events.EventJobFinished,
		RunID:     runID,
		Job:       result.Name,
		Status:    result.Status,
		Timestamp: time.Now(),
	})
}

// jobWorkdir creates the per-job working directory beneath the run workdir.
func (r *Runner) jobWorkdir(job models.Job) (string, error) {
	root := r.opts.Workdir
	if root == "" {
		var err error
		root, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to resolve working directory: %w", err)
		}
		return root, nil
	}
	dir := filepath.Join(root, sanitizeName(job.Name))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create job workdir: %w", err)
	}
	return dir, nil
}

func sanitizeName(name string) string {
	out := []rune(name)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
