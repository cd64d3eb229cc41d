// Package config loads the pipeline file and the user configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thenoetrevino/etapa/internal/models"
)

// Pipeline file names, checked in order.
var pipelineFileNames = []string{".etapa.yml", ".etapa.yaml", ".travis.yml"}

// commandList accepts either a single scalar or a sequence of scalars,
// the way Travis does for install/script/env entries.
type commandList []string

func (c *commandList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*c = commandList{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*c = commandList(list)
		return nil
	default:
		return fmt.Errorf("expected string or list, got yaml node kind %d", value.Kind)
	}
}

type toolFile struct {
	Binary    string      `yaml:"binary"`
	Args      commandList `yaml:"args"`
	Input     string      `yaml:"input"`
	Capture   string      `yaml:"capture"`
	RetryOn   string      `yaml:"retry_on"`
	Retries   int         `yaml:"retries"`
	Artifacts string      `yaml:"artifacts"`
	OutputDir string      `yaml:"output_dir"`
	Cache     bool        `yaml:"cache"`
}

type jobFile struct {
	Name         string      `yaml:"name"`
	Env          commandList `yaml:"env"`
	BeforeScript commandList `yaml:"before_script"`
	Script       commandList `yaml:"script"`
	Tool         *toolFile   `yaml:"tool"`
}

type pipelineFile struct {
	Language     string      `yaml:"language"`
	Services     commandList `yaml:"services"`
	Env          commandList `yaml:"env"`
	Install      commandList `yaml:"install"`
	BeforeScript commandList `yaml:"before_script"`
	Script       commandList `yaml:"script"`
	AfterScript  commandList `yaml:"after_script"`
	CloneDepth   int         `yaml:"clone_depth"`
	Tool         *toolFile   `yaml:"tool"`
	Jobs         struct {
		Include []jobFile `yaml:"include"`
	} `yaml:"jobs"`
}

// FindPipeline locates the pipeline file in dir.
func FindPipeline(dir string) (string, error) {
	for _, name := range pipelineFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no pipeline file found in %s (looked for %s)",
		dir, strings.Join(pipelineFileNames, ", "))
}

// LoadPipeline parses the pipeline file at path.
func LoadPipeline(path string) (*models.Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline file: %w", err)
	}
	return parsePipeline(data)
}

func parsePipeline(data []byte) (*models.Pipeline, error) {
	var pf pipelineFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline file: %w", err)
	}

	p := &models.Pipeline{
		Language:     pf.Language,
		Env:          pf.Env,
		Install:      pf.Install,
		BeforeScript: pf.BeforeScript,
		Script:       pf.Script,
		AfterScript:  pf.AfterScript,
		CloneDepth:   pf.CloneDepth,
		Tool:         pf.Tool.toModel(),
	}
	if p.CloneDepth == 0 {
		p.CloneDepth = 1
	}

	for _, s := range pf.Services {
		p.Services = append(p.Services, parseService(s))
	}

	for _, j := range pf.Jobs.Include {
		p.Jobs = append(p.Jobs, models.JobSpec{
			Name:         j.Name,
			Env:          j.Env,
			BeforeScript: j.BeforeScript,
			Script:       j.Script,
			Tool:         j.Tool.toModel(),
		})
	}

	applyLanguageDefaults(p)
	return p, nil
}

func (t *toolFile) toModel() *models.ToolStep {
	if t == nil {
		return nil
	}
	return &models.ToolStep{
		Binary:    t.Binary,
		Args:      t.Args,
		Input:     t.Input,
		Capture:   t.Capture,
		RetryOn:   t.RetryOn,
		Retries:   t.Retries,
		Artifacts: t.Artifacts,
		OutputDir: t.OutputDir,
		Cache:     t.Cache,
	}
}

// defaultServicePorts maps the service names the pipeline file may declare
// bare to their conventional ports.
var defaultServicePorts = map[string]int{
	"mongodb":    27017,
	"redis":      6379,
	"postgresql": 5432,
	"mysql":      3306,
	"memcached":  11211,
}

// parseService accepts "mongodb" or "name:port". Unknown names and bad ports
// parse to a zero port so Validate can report them alongside every other
// problem instead of aborting the load.
func parseService(s string) models.Service {
	name, portStr, found := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	svc := models.Service{Raw: s, Name: name}
	if found {
		if port, err := strconv.Atoi(strings.TrimSpace(portStr)); err == nil && port > 0 {
			svc.Port = port
		}
		return svc
	}
	svc.Port = defaultServicePorts[name]
	return svc
}
