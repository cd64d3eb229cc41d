// Package tui implements the live run view for etapa watch.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/etapa/internal/events"
	"github.com/thenoetrevino/etapa/internal/models"
)

// jobRow is the display state of one matrix job.
type jobRow struct {
	name     string
	status   models.Status
	started  time.Time
	duration time.Duration
}

// Model represents the watch view state
type Model struct {
	jobs     []jobRow
	rowIndex map[string]int
	logs     map[string]*strings.Builder
	selected int

	spin     spinner.Model
	logView  viewport.Model
	viewInit bool

	eventsCh <-chan events.Event
	cancel   context.CancelFunc

	width   int
	height  int
	done    bool
	verdict models.Status
}

// eventMsg wraps a runner event for the update loop.
type eventMsg events.Event

// eventsClosedMsg signals the bus closed: the run is over.
type eventsClosedMsg struct{}

// InitialModel creates the watch model for the expanded jobs. cancel stops
// the underlying run when the user quits mid-flight.
func InitialModel(jobs []models.Job, eventsCh <-chan events.Event, cancel context.CancelFunc) Model {
	rows := make([]jobRow, len(jobs))
	rowIndex := make(map[string]int, len(jobs))
	logs := make(map[string]*strings.Builder, len(jobs))
	for i, job := range jobs {
		rows[i] = jobRow{name: job.Name, status: models.StatusPending}
		rowIndex[job.Name] = i
		logs[job.Name] = &strings.Builder{}
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		jobs:     rows,
		rowIndex: rowIndex,
		logs:     logs,
		spin:     s,
		eventsCh: eventsCh,
		cancel:   cancel,
	}
}

// Init starts the spinner and the event pump.
// Required by tea.Model interface.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.waitForEvent())
}

// waitForEvent reads the next runner event off the bus.
func (m Model) waitForEvent() tea.Cmd {
	ch := m.eventsCh
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(ev)
	}
}

// selectedLog returns the accumulated log of the selected job.
func (m Model) selectedLog() string {
	if len(m.jobs) == 0 {
		return ""
	}
	return m.logs[m.jobs[m.selected].name].String()
}

func (m *Model) appendLog(job, text string) {
	b, ok := m.logs[job]
	if !ok {
		return
	}
	b.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}
}

// apply folds a runner event into the display state.
func (m *Model) apply(ev events.Event) {
	switch ev.Type {
	case events.EventJobStarted:
		if i, ok := m.rowIndex[ev.Job]; ok {
			m.jobs[i].status = models.StatusRunning
			m.jobs[i].started = ev.Timestamp
		}
	case events.EventStepStarted:
		m.appendLog(ev.Job, fmt.Sprintf("[%s] $ %s", ev.Phase, ev.Command))
	case events.EventStepFinished:
		if ev.Output != "" {
			m.appendLog(ev.Job, ev.Output)
		}
		if ev.ExitCode != 0 {
			m.appendLog(ev.Job, fmt.Sprintf("(exit %d)", ev.ExitCode))
		}
	case events.EventJobFinished:
		if i, ok := m.rowIndex[ev.Job]; ok {
			m.jobs[i].status = ev.Status
			if !m.jobs[i].started.IsZero() {
				m.jobs[i].duration = ev.Timestamp.Sub(m.jobs[i].started)
			}
		}
	case events.EventRunFinished:
		m.done = true
		m.verdict = ev.Status
	}
}
