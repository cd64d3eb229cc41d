package config

import "github.com/thenoetrevino/etapa/internal/models"

// DefaultJobName is the name of the implicit job when the pipeline has no
// jobs.include matrix.
const DefaultJobName = "default"

// ExpandMatrix turns the jobs.include entries into concrete jobs, merging
// per-job overrides over the top-level phases. A pipeline without a matrix
// yields a single implicit job. Global env comes first so job env wins on
// duplicate keys.
func ExpandMatrix(p *models.Pipeline) []models.Job {
	if len(p.Jobs) == 0 {
		return []models.Job{{
			Name:         DefaultJobName,
			Env:          append([]string(nil), p.Env...),
			Install:      p.Install,
			BeforeScript: p.BeforeScript,
			Script:       p.Script,
			AfterScript:  p.AfterScript,
			Tool:         p.Tool,
			CloneDepth:   p.CloneDepth,
		}}
	}

	jobs := make([]models.Job, 0, len(p.Jobs))
	for _, spec := range p.Jobs {
		job := models.Job{
			Name:         spec.Name,
			Env:          mergeEnv(p.Env, spec.Env),
			Install:      p.Install,
			BeforeScript: override(p.BeforeScript, spec.BeforeScript),
			Script:       override(p.Script, spec.Script),
			AfterScript:  p.AfterScript,
			Tool:         p.Tool,
			CloneDepth:   p.CloneDepth,
		}
		if spec.Tool != nil {
			job.Tool = spec.Tool
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// override returns the job-level phase when present, otherwise the
// top-level one.
func override(base, job []string) []string {
	if len(job) > 0 {
		return job
	}
	return base
}

func mergeEnv(global, job []string) []string {
	merged := make([]string, 0, len(global)+len(job))
	merged = append(merged, global...)
	merged = append(merged, job...)
	return merged
}
