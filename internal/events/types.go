// Package events carries run lifecycle notifications from the runner to
// its observers (the progress printer and the watch view).
package events

import (
	"time"

	"github.com/thenoetrevino/etapa/internal/models"
)

// EventType indicates which lifecycle edge occurred
type EventType string

const (
	EventRunStarted   EventType = "run_started"
	EventRunFinished  EventType = "run_finished"
	EventJobStarted   EventType = "job_started"
	EventJobFinished  EventType = "job_finished"
	EventStepStarted  EventType = "step_started"
	EventStepFinished EventType = "step_finished"
)

// Event represents one run lifecycle notification
type Event struct {
	Type      EventType
	RunID     string
	Job       string        // empty for run-level events
	Phase     models.Phase  // set for step events
	Command   string        // set for step events
	Status    models.Status // job/run status for finished events
	ExitCode  int
	Output    string // step output for step_finished
	Timestamp time.Time
}

// Publisher defines the interface for emitting run events.
// Depending on behavior rather than the concrete bus keeps the runner
// testable and makes a nil publisher a valid no-op.
type Publisher interface {
	Publish(event Event)
}

// Compile-time verification that *Bus implements Publisher
var _ Publisher = (*Bus)(nil)
