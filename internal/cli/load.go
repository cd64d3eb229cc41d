package cli

import (
	"fmt"
	"os"

	"github.com/thenoetrevino/etapa/internal/config"
	"github.com/thenoetrevino/etapa/internal/models"
)

// Options are the flags shared by pipeline-reading commands.
type Options struct {
	// File is an explicit pipeline file path; empty means discovery in the
	// current directory.
	File string
}

// loadPipeline finds, parses and returns the pipeline with its path.
func loadPipeline(opts Options) (string, *models.Pipeline, error) {
	path := opts.File
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", nil, err
		}
		path, err = config.FindPipeline(cwd)
		if err != nil {
			return "", nil, err
		}
	}
	p, err := config.LoadPipeline(path)
	if err != nil {
		return "", nil, err
	}
	return path, p, nil
}

// selectJobs filters the expanded matrix down to the requested names.
// No names selects everything.
func selectJobs(jobs []models.Job, names []string) ([]models.Job, error) {
	if len(names) == 0 {
		return jobs, nil
	}
	byName := make(map[string]models.Job, len(jobs))
	for _, j := range jobs {
		byName[j.Name] = j
	}
	selected := make([]models.Job, 0, len(names))
	for _, name := range names {
		job, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown job %q", name)
		}
		selected = append(selected, job)
	}
	return selected, nil
}

// reportValidation prints every validation problem to stderr.
func reportValidation(errs []error) {
	fmt.Fprintf(os.Stderr, "pipeline is invalid (%d problems):\n", len(errs))
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "  - %v\n", err)
	}
}
