package database

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/thenoetrevino/etapa/internal/models"
)

func sampleRun(id string) *models.RunResult {
	started := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	return &models.RunResult{
		ID:           id,
		PipelinePath: "/repo/.travis.yml",
		Verdict:      models.StatusFailed,
		StartedAt:    started,
		FinishedAt:   started.Add(90 * time.Second),
		Jobs: []models.JobResult{
			{
				Name:     "pytest",
				Status:   models.StatusPassed,
				Duration: 42 * time.Second,
				Steps: []models.StepResult{
					{Phase: models.PhaseInstall, Command: "pip install -r requirements.txt", ExitCode: 0, Duration: 10 * time.Second},
					{Phase: models.PhaseScript, Command: "pytest", ExitCode: 0, Output: "120 passed", Duration: 32 * time.Second},
				},
			},
			{
				Name:     "basic-ea",
				Status:   models.StatusFailed,
				Duration: 48 * time.Second,
				Err:      "script step failed",
				Steps: []models.StepResult{
					{Phase: models.PhaseBeforeScript, Command: "git clone --depth 1 https://example.com/ea.git", ExitCode: 0},
					{Phase: models.PhaseScript, Command: "python basic_ea.py", ExitCode: 1, Output: "Traceback ..."},
					{Phase: models.PhaseTool, Command: "/opt/bin/solve", ExitCode: 0, Captured: "-1178.5392"},
				},
			},
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	saved := sampleRun("11111111-2222-3333-4444-555555555555")
	if err := repo.SaveRun(ctx, saved); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	got, err := repo.GetRun(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}

	if got.Verdict != models.StatusFailed {
		t.Errorf("verdict = %v, want failed", got.Verdict)
	}
	if got.PipelinePath != saved.PipelinePath {
		t.Errorf("pipeline path = %q, want %q", got.PipelinePath, saved.PipelinePath)
	}
	if len(got.Jobs) != 2 {
		t.Fatalf("job count = %d, want 2", len(got.Jobs))
	}

	pytest := got.Jobs[0]
	if pytest.Name != "pytest" || pytest.Status != models.StatusPassed {
		t.Errorf("unexpected first job: %+v", pytest)
	}
	if pytest.Duration != 42*time.Second {
		t.Errorf("duration = %v, want 42s", pytest.Duration)
	}
	if len(pytest.Steps) != 2 || pytest.Steps[1].Output != "120 passed" {
		t.Errorf("steps not round-tripped: %+v", pytest.Steps)
	}

	ea := got.Jobs[1]
	if ea.Err != "script step failed" {
		t.Errorf("job error = %q", ea.Err)
	}
	if len(ea.Steps) != 3 || ea.Steps[2].Captured != "-1178.5392" {
		t.Errorf("captured value not round-tripped: %+v", ea.Steps)
	}
}

func TestGetRunByPrefix(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	if err := repo.SaveRun(ctx, sampleRun("aaaabbbb-0000-0000-0000-000000000000")); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	got, err := repo.GetRun(ctx, "aaaabbbb")
	if err != nil {
		t.Fatalf("GetRun by prefix failed: %v", err)
	}
	if got.ID != "aaaabbbb-0000-0000-0000-000000000000" {
		t.Errorf("wrong run: %s", got.ID)
	}
}

func TestGetRunNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	_, err := repo.GetRun(context.Background(), "deadbeef")
	if !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("err = %v, want ErrRunNotFound", err)
	}

	_, err = repo.GetLatestRun(context.Background())
	if !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("err = %v, want ErrRunNotFound", err)
	}
}

func TestGetRecentRunsOrderAndLimit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		run := sampleRun(strings.Repeat("a", 4) + string(rune('0'+i)) + "-run")
		run.StartedAt = base.Add(time.Duration(i) * time.Hour)
		run.FinishedAt = run.StartedAt.Add(time.Minute)
		if err := repo.SaveRun(ctx, run); err != nil {
			t.Fatalf("SaveRun %d failed: %v", i, err)
		}
	}

	runs, err := repo.GetRecentRuns(ctx, 3)
	if err != nil {
		t.Fatalf("GetRecentRuns failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Error("runs are not ordered newest first")
	}
	if runs[0].JobCount != 2 {
		t.Errorf("job count = %d, want 2", runs[0].JobCount)
	}
}

func TestGetLatestRun(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	older := sampleRun("11111111-old")
	older.StartedAt = time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	newer := sampleRun("22222222-new")
	newer.StartedAt = time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	for _, run := range []*models.RunResult{older, newer} {
		if err := repo.SaveRun(ctx, run); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}

	got, err := repo.GetLatestRun(ctx)
	if err != nil {
		t.Fatalf("GetLatestRun failed: %v", err)
	}
	if got.ID != "22222222-new" {
		t.Errorf("latest run = %s, want 22222222-new", got.ID)
	}
}

func TestOutputTailTruncation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	run := sampleRun("tail-test-run-id")
	run.Jobs[0].Steps[1].Output = strings.Repeat("y", outputTailBytes*2)
	if err := repo.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	got, err := repo.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if len(got.Jobs[0].Steps[1].Output) != outputTailBytes {
		t.Errorf("output length = %d, want %d", len(got.Jobs[0].Steps[1].Output), outputTailBytes)
	}
}
