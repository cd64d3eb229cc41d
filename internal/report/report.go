// Package report renders run summaries as markdown for the terminal.
package report

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/thenoetrevino/etapa/internal/models"
)

var (
	rendererOnce sync.Once
	renderer     *glamour.TermRenderer
	rendererErr  error
)

func getRenderer() (*glamour.TermRenderer, error) {
	rendererOnce.Do(func() {
		renderer, rendererErr = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
	})
	return renderer, rendererErr
}

// BuildMarkdown produces the markdown report for a run: verdict, job table,
// captured tool values, and the output of every failed step.
func BuildMarkdown(run *models.RunResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Run %s\n\n", shortID(run.ID))
	fmt.Fprintf(&b, "- **Verdict:** %s\n", run.Verdict)
	if run.PipelinePath != "" {
		fmt.Fprintf(&b, "- **Pipeline:** %s\n", run.PipelinePath)
	}
	fmt.Fprintf(&b, "- **Started:** %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- **Duration:** %s\n\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))

	b.WriteString("## Jobs\n\n")
	b.WriteString("| Job | Status | Duration |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, job := range run.Jobs {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", job.Name, job.Status, job.Duration.Round(time.Millisecond))
	}
	b.WriteString("\n")

	captured := false
	for _, job := range run.Jobs {
		for _, step := range job.Steps {
			if step.Captured == "" {
				continue
			}
			if !captured {
				b.WriteString("## Captured values\n\n")
				captured = true
			}
			fmt.Fprintf(&b, "- **%s**: `%s`\n", job.Name, step.Captured)
		}
	}
	if captured {
		b.WriteString("\n")
	}

	for _, job := range run.Jobs {
		if job.Status == models.StatusPassed {
			continue
		}
		for _, step := range job.Steps {
			if step.ExitCode == 0 {
				continue
			}
			fmt.Fprintf(&b, "## %s: %s failed (exit %d)\n\n", job.Name, step.Phase, step.ExitCode)
			fmt.Fprintf(&b, "`%s`\n\n", step.Command)
			if out := strings.TrimSpace(step.Output); out != "" {
				fmt.Fprintf(&b, "```\n%s\n```\n\n", out)
			}
		}
	}

	return b.String()
}

// Render renders the run report through glamour for terminal display.
func Render(run *models.RunResult) (string, error) {
	r, err := getRenderer()
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(BuildMarkdown(run))
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return out, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
