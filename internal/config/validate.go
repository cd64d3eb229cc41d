package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/thenoetrevino/etapa/internal/models"
)

var envPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=`)

// Validate checks the pipeline and reports every problem found, not just
// the first one.
func Validate(p *models.Pipeline) []error {
	var errs []error

	seen := make(map[string]bool)
	for i, job := range p.Jobs {
		if job.Name == "" {
			errs = append(errs, fmt.Errorf("jobs.include[%d]: job has no name", i))
			continue
		}
		if seen[job.Name] {
			errs = append(errs, fmt.Errorf("jobs.include[%d]: duplicate job name %q", i, job.Name))
		}
		seen[job.Name] = true

		errs = append(errs, validateEnv(fmt.Sprintf("job %q", job.Name), job.Env)...)
		if tool := resolveTool(p, job); tool != nil {
			errs = append(errs, validateTool(fmt.Sprintf("job %q", job.Name), tool)...)
		} else if len(job.Script) == 0 && len(p.Script) == 0 {
			errs = append(errs, fmt.Errorf("job %q: no script to run", job.Name))
		}
	}

	if len(p.Jobs) == 0 && len(p.Script) == 0 && p.Tool == nil {
		errs = append(errs, fmt.Errorf("pipeline has no script and no jobs"))
	}

	for _, svc := range p.Services {
		if err := validateService(svc); err != nil {
			errs = append(errs, err)
		}
	}

	errs = append(errs, validateEnv("pipeline", p.Env)...)
	if p.Tool != nil {
		errs = append(errs, validateTool("pipeline", p.Tool)...)
	}
	if p.CloneDepth < 0 {
		errs = append(errs, fmt.Errorf("clone_depth must be positive, got %d", p.CloneDepth))
	}
	return errs
}

// validateService rejects declarations that resolved to no port: unknown
// bare names and name:port entries with a bad port.
func validateService(svc models.Service) error {
	if svc.Port > 0 {
		return nil
	}
	if _, portStr, found := strings.Cut(svc.Raw, ":"); found {
		return fmt.Errorf("service %q: invalid port %q", svc.Name, strings.TrimSpace(portStr))
	}
	return fmt.Errorf("service %q: unknown service, declare it as name:port", svc.Name)
}

func validateEnv(scope string, env []string) []error {
	var errs []error
	for _, e := range env {
		if !envPattern.MatchString(e) {
			errs = append(errs, fmt.Errorf("%s: env entry %q is not KEY=VALUE", scope, e))
		}
	}
	return errs
}

func validateTool(scope string, tool *models.ToolStep) []error {
	var errs []error
	if strings.TrimSpace(tool.Binary) == "" {
		errs = append(errs, fmt.Errorf("%s: tool step has no binary", scope))
	}
	if tool.Capture == "" {
		errs = append(errs, fmt.Errorf("%s: tool step has no capture pattern", scope))
	} else if _, err := regexp.Compile(tool.Capture); err != nil {
		errs = append(errs, fmt.Errorf("%s: invalid capture pattern: %w", scope, err))
	}
	if tool.Retries < 0 {
		errs = append(errs, fmt.Errorf("%s: tool retries must be positive, got %d", scope, tool.Retries))
	}
	return errs
}

func resolveTool(p *models.Pipeline, job models.JobSpec) *models.ToolStep {
	if job.Tool != nil {
		return job.Tool
	}
	return p.Tool
}
