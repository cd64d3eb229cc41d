package models

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a job or run.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusPassed   Status = "passed"
	StatusFailed   Status = "failed"
	StatusErrored  Status = "errored"
	StatusCanceled Status = "canceled"
)

// Phase names the slot of a step within a job.
type Phase string

const (
	PhaseInstall      Phase = "install"
	PhaseBeforeScript Phase = "before_script"
	PhaseScript       Phase = "script"
	PhaseAfterScript  Phase = "after_script"
	PhaseTool         Phase = "tool"
)

// StepResult records one executed command.
type StepResult struct {
	Phase    Phase
	Command  string
	ExitCode int
	Output   string
	Captured string
	Duration time.Duration
}

// JobResult records one finished job.
type JobResult struct {
	Name     string
	Status   Status
	Steps    []StepResult
	Duration time.Duration
	Err      string
}

// RunResult records one pipeline run.
type RunResult struct {
	ID           string
	PipelinePath string
	Verdict      Status
	StartedAt    time.Time
	FinishedAt   time.Time
	Jobs         []JobResult
}

// Verdict folds job statuses into a run verdict. Canceled dominates
// errored, errored dominates failed, failed dominates passed.
func Verdict(jobs []JobResult) Status {
	verdict := StatusPassed
	for _, j := range jobs {
		switch j.Status {
		case StatusCanceled:
			return StatusCanceled
		case StatusErrored:
			verdict = StatusErrored
		case StatusFailed:
			if verdict != StatusErrored {
				verdict = StatusFailed
			}
		}
	}
	return verdict
}

func joinHostPort(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
