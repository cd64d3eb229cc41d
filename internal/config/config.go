package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the user-level tool configuration
type Config struct {
	// Concurrency caps how many matrix jobs run at once.
	Concurrency int `yaml:"concurrency"`
	// HistoryPath is the sqlite database recording past runs.
	HistoryPath string `yaml:"history_path"`
	// ServiceWaitSeconds bounds how long the runner waits for declared
	// services before erroring the run.
	ServiceWaitSeconds int `yaml:"service_wait_seconds"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Concurrency:        runtime.NumCPU(),
		ServiceWaitSeconds: 30,
	}
}

// Load loads config from ~/.etapa/config.yml.
// Returns default config if the file doesn't exist. ETAPA_* environment
// variables override file values.
func Load() (*Config, error) {
	cfg := Default()

	configPath, err := getConfigPath()
	if err == nil {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	applyEnvOverrides(cfg)

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
	if cfg.ServiceWaitSeconds <= 0 {
		cfg.ServiceWaitSeconds = 30
	}
	if cfg.HistoryPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfg.HistoryPath = filepath.Join(home, ".etapa", "history.db")
	}
	return cfg, nil
}

func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".etapa", "config.yml"), nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ETAPA_CONCURRENCY"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.Concurrency = parsed
		}
	}
	if v := os.Getenv("ETAPA_HISTORY"); v != "" {
		cfg.HistoryPath = v
	}
	if v := os.Getenv("ETAPA_SERVICE_WAIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.ServiceWaitSeconds = parsed
		}
	}
}
