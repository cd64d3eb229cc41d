package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thenoetrevino/etapa/internal/config"
	"github.com/thenoetrevino/etapa/internal/database"
	"github.com/thenoetrevino/etapa/internal/events"
	"github.com/thenoetrevino/etapa/internal/models"
	"github.com/thenoetrevino/etapa/internal/runner"
)

// RunOptions configures the run command.
type RunOptions struct {
	Options
	// Jobs restricts the run to the named matrix entries.
	Jobs []string
	// Concurrency overrides the configured job pool size when positive.
	Concurrency int
	// Workdir gives every job a private subdirectory beneath it. Empty
	// means jobs run in the invocation directory, sharing the project tree.
	Workdir string
	// NoHistory skips recording the run.
	NoHistory bool
}

// RunHandler executes the pipeline and returns the process exit code.
func RunHandler(ctx context.Context, opts RunOptions) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

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

	bus := events.NewBus()
	progress := bus.Subscribe()
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		printProgress(progress)
	}()

	PrintBanner(os.Stdout, fmt.Sprintf("etapa: %s (%d jobs)", path, len(jobs)))

	r := runner.New(pipeline, jobs, runner.Options{
		Concurrency: concurrency,
		Workdir:     opts.Workdir,
		ServiceWait: time.Duration(cfg.ServiceWaitSeconds) * time.Second,
		Publisher:   bus,
	})

	run, runErr := r.Run(ctx)
	run.PipelinePath = path
	bus.Close()
	<-progressDone

	if runErr != nil && run.Verdict == models.StatusErrored {
		fmt.Fprintf(os.Stderr, "run errored: %v\n", runErr)
	}

	PrintSummary(os.Stdout, run)

	if !opts.NoHistory {
		saveRun(cfg, run)
	}
	return ExitCodeFor(run.Verdict)
}

// printProgress echoes job and step lifecycle lines while the run executes.
func printProgress(ch <-chan events.Event) {
	for ev := range ch {
		switch ev.Type {
		case events.EventJobStarted:
			fmt.Printf("%s▶%s %s\n", colorBlue, colorReset, ev.Job)
		case events.EventStepStarted:
			fmt.Printf("  [%s] $ %s\n", ev.Job, ev.Command)
		case events.EventJobFinished:
			glyph := colorGreen + "✓"
			if ev.Status != models.StatusPassed {
				glyph = colorRed + "✗"
			}
			fmt.Printf("%s%s %s: %s\n", glyph, colorReset, ev.Job, ev.Status)
		}
	}
}

// saveRun records the run; history failures never change the run outcome.
func saveRun(cfg *config.Config, run *models.RunResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.InitDB(ctx, cfg.HistoryPath)
	if err != nil {
		slog.Warn("skipping history", "error", err)
		return
	}
	defer db.Close()

	if err := database.NewRepository(db).SaveRun(ctx, run); err != nil {
		slog.Warn("failed to record run", "error", err)
	}
}
