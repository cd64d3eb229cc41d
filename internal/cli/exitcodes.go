package cli

import "github.com/thenoetrevino/etapa/internal/models"

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the run passed or the command completed.
	ExitSuccess = 0

	// ExitFailed indicates the run failed: a script step exited non-zero.
	ExitFailed = 1

	// ExitErrored indicates the run errored: setup (services, install,
	// before_script) broke before the scripts could be judged, or an
	// unexpected failure occurred.
	ExitErrored = 2

	// ExitUsage indicates incorrect command usage.
	// Use for: missing arguments, unknown job names, no pipeline file.
	ExitUsage = 3

	// ExitNotFound indicates a requested resource was not found.
	// Use for: unknown run ids in history/report.
	ExitNotFound = 4

	// ExitValidation indicates the pipeline file failed validation.
	ExitValidation = 5
)

// ExitCodeFor maps a run verdict to the process exit code.
func ExitCodeFor(verdict models.Status) int {
	switch verdict {
	case models.StatusPassed:
		return ExitSuccess
	case models.StatusFailed:
		return ExitFailed
	default:
		return ExitErrored
	}
}
