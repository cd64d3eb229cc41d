package tui

import (
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/etapa/internal/events"
)

// Update handles all messages and updates the model accordingly
// This implements the "Update" part of the Model-View-Update pattern
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			// Cancel the in-flight run before leaving; harmless once done.
			if m.cancel != nil {
				m.cancel()
			}
			if m.done {
				return m, tea.Quit
			}
			// Keep the view open until the runner reports the canceled
			// jobs; the closed bus quits for us.
			return m, nil
		case "j", "down":
			if m.selected < len(m.jobs)-1 {
				m.selected++
				m.syncViewport()
			}
		case "k", "up":
			if m.selected > 0 {
				m.selected--
				m.syncViewport()
			}
		case "g":
			m.logView.GotoTop()
		case "G":
			m.logView.GotoBottom()
		case "enter":
			if m.done {
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutViewport()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case eventMsg:
		m.apply(events.Event(msg))
		m.syncViewport()
		return m, m.waitForEvent()

	case eventsClosedMsg:
		m.done = true
		return m, nil
	}

	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

// layoutViewport sizes the log pane under the job table.
func (m *Model) layoutViewport() {
	headerHeight := len(m.jobs) + 4 // title + table + separator
	h := m.height - headerHeight - 1
	if h < 3 {
		h = 3
	}
	if !m.viewInit {
		m.logView = viewport.New()
		m.logView.MouseWheelEnabled = true
		m.viewInit = true
	}
	m.logView.SetWidth(max(m.width-2, 10))
	m.logView.SetHeight(h)
	m.syncViewport()
}

// syncViewport refreshes the log pane with the selected job's output.
func (m *Model) syncViewport() {
	if !m.viewInit {
		return
	}
	m.logView.SetContent(m.selectedLog())
	m.logView.GotoBottom()
}
