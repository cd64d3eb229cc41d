package tui

import (
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/etapa/internal/models"
)

// These are cached to avoid recomputing on every redraw.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			Padding(0, 1)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	logBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	statusStyles = map[models.Status]lipgloss.Style{
		models.StatusPending:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		models.StatusRunning:  lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		models.StatusPassed:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		models.StatusFailed:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		models.StatusErrored:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		models.StatusCanceled: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
)

// statusGlyph returns the single-character marker for a job status.
func statusGlyph(status models.Status) string {
	switch status {
	case models.StatusPassed:
		return "✓"
	case models.StatusFailed:
		return "✗"
	case models.StatusErrored:
		return "!"
	case models.StatusCanceled:
		return "-"
	case models.StatusRunning:
		return ">"
	default:
		return "·"
	}
}
