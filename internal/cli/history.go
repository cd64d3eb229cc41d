package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/thenoetrevino/etapa/internal/config"
	"github.com/thenoetrevino/etapa/internal/database"
	"github.com/thenoetrevino/etapa/internal/models"
	"github.com/thenoetrevino/etapa/internal/report"
)

// HistoryHandler lists recent runs from the history store.
func HistoryHandler(ctx context.Context, limit int) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return ExitErrored
	}

	db, err := database.InitDB(ctx, cfg.HistoryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open history: %v\n", err)
		return ExitErrored
	}
	defer db.Close()

	runs, err := database.NewRepository(db).GetRecentRuns(ctx, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read history: %v\n", err)
		return ExitErrored
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded yet")
		return ExitSuccess
	}

	for _, run := range runs {
		glyph := colorGreen + "✓" + colorReset
		if run.Verdict != models.StatusPassed {
			glyph = colorRed + "✗" + colorReset
		}
		fmt.Printf("%s %s  %-8s %2d job(s)  %s  %s\n",
			glyph,
			run.ID[:8],
			run.Verdict,
			run.JobCount,
			run.StartedAt.Format("2006-01-02 15:04"),
			run.PipelinePath,
		)
	}
	return ExitSuccess
}

// ReportHandler renders the report of a recorded run. An empty id means the
// most recent run.
func ReportHandler(ctx context.Context, id string, raw bool) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return ExitErrored
	}

	db, err := database.InitDB(ctx, cfg.HistoryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open history: %v\n", err)
		return ExitErrored
	}
	defer db.Close()

	repo := database.NewRepository(db)
	run, err := getRun(ctx, repo, id)
	if errors.Is(err, database.ErrRunNotFound) {
		fmt.Fprintln(os.Stderr, "run not found")
		return ExitNotFound
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load run: %v\n", err)
		return ExitErrored
	}

	if raw {
		fmt.Print(report.BuildMarkdown(run))
		return ExitSuccess
	}
	out, err := report.Render(run)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to render report: %v\n", err)
		return ExitErrored
	}
	fmt.Print(out)
	return ExitSuccess
}

func getRun(ctx context.Context, repo *database.Repository, id string) (*models.RunResult, error) {
	if id == "" {
		return repo.GetLatestRun(ctx)
	}
	return repo.GetRun(ctx, id)
}
