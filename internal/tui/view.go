package tui

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/etapa/internal/models"
)

// View renders the watch screen: title, job table, log pane, status bar.
func (m Model) View() tea.View {
	return tea.NewView(m.view())
}

func (m Model) view() string {
	var b strings.Builder

	title := "etapa watch"
	if m.done {
		title = fmt.Sprintf("etapa watch: run %s", m.verdict)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	for i, job := range m.jobs {
		line := m.renderJobRow(job)
		if i == m.selected {
			line = selectedRowStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.viewInit {
		b.WriteString(logBorderStyle.Render(m.logView.View()))
		b.WriteString("\n")
	}

	help := "j/k: select job • g/G: scroll • q: cancel"
	if m.done {
		help = "enter/q: quit"
	}
	b.WriteString(statusBarStyle.Render(help))
	return b.String()
}

func (m Model) renderJobRow(job jobRow) string {
	glyph := statusGlyph(job.status)
	if job.status == models.StatusRunning {
		glyph = m.spin.View()
	}
	style, ok := statusStyles[job.status]
	if !ok {
		style = statusBarStyle
	}

	duration := ""
	if job.duration > 0 {
		duration = job.duration.Round(time.Millisecond).String()
	} else if !job.started.IsZero() {
		duration = time.Since(job.started).Round(time.Second).String()
	}

	return fmt.Sprintf(" %s %-30s %s %s",
		glyph, job.name, style.Render(string(job.status)), duration)
}
