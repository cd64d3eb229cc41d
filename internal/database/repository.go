package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thenoetrevino/etapa/internal/models"
)

// ErrRunNotFound is returned when a run id doesn't exist in the history.
var ErrRunNotFound = errors.New("run not found")

// outputTailBytes bounds how much step output the history keeps per step.
const outputTailBytes = 16 * 1024

// Repository provides access to the run history
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repository wrapping the database
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SaveRun persists a finished run with its jobs and steps in one
// transaction.
func (r *Repository) SaveRun(ctx context.Context, run *models.RunResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, pipeline_path, verdict, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.PipelinePath, string(run.Verdict), run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, job := range run.Jobs {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO jobs (run_id, name, status, duration_ms, error)
			 VALUES (?, ?, ?, ?, ?)`,
			run.ID, job.Name, string(job.Status), job.Duration.Milliseconds(), job.Err,
		)
		if err != nil {
			return fmt.Errorf("failed to insert job %q: %w", job.Name, err)
		}
		jobID, err := res.LastInsertId()
		if err != nil {
			return err
		}

		for _, step := range job.Steps {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO steps (job_id, phase, command, exit_code, output, captured, duration_ms)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				jobID, string(step.Phase), step.Command, step.ExitCode,
				tail(step.Output), step.Captured, step.Duration.Milliseconds(),
			)
			if err != nil {
				return fmt.Errorf("failed to insert step: %w", err)
			}
		}
	}

	return tx.Commit()
}

// RunSummary is one row of the run history listing.
type RunSummary struct {
	ID           string
	PipelinePath string
	Verdict      models.Status
	StartedAt    time.Time
	FinishedAt   time.Time
	JobCount     int
}

// GetRecentRuns returns the newest runs, most recent first.
func (r *Repository) GetRecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.pipeline_path, r.verdict, r.started_at, r.finished_at,
		        (SELECT COUNT(*) FROM jobs j WHERE j.run_id = r.id)
		 FROM runs r
		 ORDER BY r.started_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var s RunSummary
		var verdict string
		if err := rows.Scan(&s.ID, &s.PipelinePath, &verdict, &s.StartedAt, &s.FinishedAt, &s.JobCount); err != nil {
			return nil, err
		}
		s.Verdict = models.Status(verdict)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// GetRun loads a full run with jobs and steps. Prefix match on the id lets
// callers use a shortened uuid.
func (r *Repository) GetRun(ctx context.Context, id string) (*models.RunResult, error) {
	run := &models.RunResult{}
	var verdict string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, pipeline_path, verdict, started_at, finished_at
		 FROM runs WHERE id = ? OR id LIKE ? || '%'
		 ORDER BY started_at DESC LIMIT 1`,
		id, id,
	).Scan(&run.ID, &run.PipelinePath, &verdict, &run.StartedAt, &run.FinishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	run.Verdict = models.Status(verdict)

	if err := r.loadJobs(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// GetLatestRun loads the most recent run.
func (r *Repository) GetLatestRun(ctx context.Context) (*models.RunResult, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM runs ORDER BY started_at DESC LIMIT 1`,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.GetRun(ctx, id)
}

func (r *Repository) loadJobs(ctx context.Context, run *models.RunResult) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, status, duration_ms, error
		 FROM jobs WHERE run_id = ? ORDER BY id`,
		run.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	var jobIDs []int64
	for rows.Next() {
		var jobID int64
		var job models.JobResult
		var status string
		var durationMS int64
		var jobErr sql.NullString
		if err := rows.Scan(&jobID, &job.Name, &status, &durationMS, &jobErr); err != nil {
			return err
		}
		job.Status = models.Status(status)
		job.Duration = time.Duration(durationMS) * time.Millisecond
		job.Err = jobErr.String
		run.Jobs = append(run.Jobs, job)
		jobIDs = append(jobIDs, jobID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i, jobID := range jobIDs {
		steps, err := r.loadSteps(ctx, jobID)
		if err != nil {
			return err
		}
		run.Jobs[i].Steps = steps
	}
	return nil
}

func (r *Repository) loadSteps(ctx context.Context, jobID int64) ([]models.StepResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT phase, command, exit_code, output, captured, duration_ms
		 FROM steps WHERE job_id = ? ORDER BY id`,
		jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []models.StepResult
	for rows.Next() {
		var step models.StepResult
		var phase string
		var output, captured sql.NullString
		var durationMS int64
		if err := rows.Scan(&phase, &step.Command, &step.ExitCode, &output, &captured, &durationMS); err != nil {
			return nil, err
		}
		step.Phase = models.Phase(phase)
		step.Output = output.String
		step.Captured = captured.String
		step.Duration = time.Duration(durationMS) * time.Millisecond
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

func tail(s string) string {
	if len(s) <= outputTailBytes {
		return s
	}
	return s[len(s)-outputTailBytes:]
}
