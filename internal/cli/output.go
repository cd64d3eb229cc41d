package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/thenoetrevino/etapa/internal/models"
)

const (
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
	colorReset  = "\033[0m"
)

// PrintBanner writes the run header.
func PrintBanner(w io.Writer, title string) {
	fmt.Fprintf(w, "%s======================================%s\n", colorBlue, colorReset)
	fmt.Fprintf(w, "%s  %s%s\n", colorBlue, title, colorReset)
	fmt.Fprintf(w, "%s======================================%s\n", colorBlue, colorReset)
	fmt.Fprintln(w)
}

// PrintSummary writes the per-job outcome of a run: passed jobs first, then
// failures with the output of their failing steps.
func PrintSummary(w io.Writer, run *models.RunResult) {
	fmt.Fprintln(w)
	PrintBanner(w, "Run Summary")

	var passed, rest []models.JobResult
	for _, job := range run.Jobs {
		if job.Status == models.StatusPassed {
			passed = append(passed, job)
		} else {
			rest = append(rest, job)
		}
	}

	for _, job := range passed {
		fmt.Fprintf(w, "%s✅ PASS%s  %s (%s)\n", colorGreen, colorReset, job.Name, job.Duration.Round(time.Millisecond))
	}

	for _, job := range rest {
		glyph := "❌ FAIL"
		if job.Status == models.StatusErrored || job.Status == models.StatusCanceled {
			glyph = "💥 " + strings.ToUpper(string(job.Status))
		}
		fmt.Fprintf(w, "%s%s%s  %s", colorRed, glyph, colorReset, job.Name)
		if job.Err != "" {
			fmt.Fprintf(w, " - %s", job.Err)
		}
		fmt.Fprintln(w)
		for _, step := range job.Steps {
			if step.ExitCode == 0 {
				continue
			}
			fmt.Fprintf(w, "  $ %s (exit %d)\n", step.Command, step.ExitCode)
			if out := strings.TrimSpace(step.Output); out != "" {
				fmt.Fprintf(w, "%s%s%s\n", colorYellow, indent(out), colorReset)
			}
		}
	}

	fmt.Fprintln(w)
	switch run.Verdict {
	case models.StatusPassed:
		fmt.Fprintf(w, "%s✅ Run passed (%d jobs)%s\n", colorGreen, len(run.Jobs), colorReset)
	case models.StatusFailed:
		fmt.Fprintf(w, "%s❌ Run failed: %d/%d jobs did not pass%s\n", colorRed, len(rest), len(run.Jobs), colorReset)
	default:
		fmt.Fprintf(w, "%s💥 Run %s%s\n", colorRed, run.Verdict, colorReset)
	}
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "    " + line
	}
	return strings.Join(lines, "\n")
}
