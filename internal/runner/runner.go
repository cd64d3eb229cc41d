// Package runner executes an expanded job matrix with the Travis lifecycle:
// install and before_script failures error a job, script failures fail it,
// after_script never changes the verdict.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/thenoetrevino/etapa/internal/events"
	"github.com/thenoetrevino/etapa/internal/models"
	"github.com/thenoetrevino/etapa/internal/tool"
)

// Options configures a run.
type Options struct {
	// Concurrency caps parallel jobs. Zero or negative means 1.
	Concurrency int
	// Workdir is the directory jobs run in. Each job gets its own
	// subdirectory beneath it.
	Workdir string
	// ServiceWait bounds the wait for declared services.
	ServiceWait time.Duration
	// Publisher receives lifecycle events. May be nil.
	Publisher events.Publisher
}

// Runner executes one pipeline run.
type Runner struct {
	pipeline *models.Pipeline
	jobs     []models.Job
	opts     Options
	cache    *tool.Cache
}

// New creates a runner for the expanded jobs of a pipeline.
func New(pipeline *models.Pipeline, jobs []models.Job, opts Options) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.ServiceWait <= 0 {
		opts.ServiceWait = 30 * time.Second
	}
	return &Runner{
		pipeline: pipeline,
		jobs:     jobs,
		opts:     opts,
		cache:    tool.NewCache(),
	}
}

// Run executes the matrix and returns the run result. Jobs are independent:
// a failure in one never cancels its siblings. Context cancellation marks
// in-flight jobs canceled.
func (r *Runner) Run(ctx context.Context) (*models.RunResult, error) {
	run := &models.RunResult{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}

	events.PublishTo(r.opts.Publisher, events.Event{
		Type:      events.EventRunStarted,
		RunID:     run.ID,
		Timestamp: time.Now(),
	})

	// Services gate the whole run: no job starts until every declared
	// service answers.
	if err := WaitForServices(ctx, r.pipeline.Services, r.opts.ServiceWait); err != nil {
		slog.Error("service wait failed", "error", err)
		run.Verdict = models.StatusErrored
		run.FinishedAt = time.Now()
		r.publishRunFinished(run)
		return run, err
	}

	results := make([]models.JobResult, len(r.jobs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	for i, job := range r.jobs {
		g.Go(func() error {
			result := r.runJob(gctx, run.ID, job)
			mu.Lock()
			results[i] = result
			mu.Unlock()
			// Job failures are recorded, not returned: siblings keep
			// running to completion.
			return nil
		})
	}
	// The goroutines only return nil; Wait just joins them.
	_ = g.Wait()

	run.Jobs = results
	run.Verdict = models.Verdict(results)
	run.FinishedAt = time.Now()
	r.publishRunFinished(run)

	if err := ctx.Err(); err != nil && errors.Is(err, context.Canceled) {
		return run, err
	}
	return run, nil
}

func (r *Runner) publishRunFinished(run *models.RunResult) {
	events.PublishTo(r.opts.Publisher, events.Event{
		Type:      events.EventRunFinished,
		RunID:     run.ID,
		Status:    run.Verdict,
		Timestamp: time.Now(),
	})
}
