package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/etapa/internal/config"
	"github.com/thenoetrevino/etapa/internal/events"
	"github.com/thenoetrevino/etapa/internal/models"
	"github.com/thenoetrevino/etapa/internal/runner"
	"github.com/thenoetrevino/etapa/internal/tui"
)

// WatchHandler runs the pipeline behind a live terminal view.
func WatchHandler(ctx context.Context, opts RunOptions) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return ExitErrored
	}

	path, pipeline, err := loadPipeline(opts.Options)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUsage
	}

	if errs := config.Validate(pipeline); len(errs) > 0 {
		reportValidation(errs)
		return ExitValidation
	}

	jobs, err := selectJobs(config.ExpandMatrix(pipeline), opts.Jobs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUsage
	}

	concurrency := cfg.Concurrency
	if opts.Concurrency > 0 {
		concurrency = opts.Concurrency
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := events.NewBus()
	viewEvents := bus.Subscribe()

	r := runner.New(pipeline, jobs, runner.Options{
		Concurrency: concurrency,
		Workdir:     opts.Workdir,
		ServiceWait: time.Duration(cfg.ServiceWaitSeconds) * time.Second,
		Publisher:   bus,
	})

	done := make(chan *models.RunResult, 1)
	go func() {
		run, _ := r.Run(runCtx)
		run.PipelinePath = path
		bus.Close()
		done <- run
	}()

	model := tui.InitialModel(jobs, viewEvents, cancel)
	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		fmt.Fprintf(os.Stderr, "error running watch view: %v\n", err)
		return ExitErrored
	}

	cancel()
	run := <-done

	PrintSummary(os.Stdout, run)
	if !opts.NoHistory {
		saveRun(cfg, run)
	}
	return ExitCodeFor(run.Verdict)
}
