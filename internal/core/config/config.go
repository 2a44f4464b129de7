// Package config handles configuration loading and validation for runbook.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/colonyops/runbook/pkg/shellexec"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Runner    RunnerConfig   `yaml:"runner"`
	Scaffold  ScaffoldConfig `yaml:"scaffold"`
	Doctor    DoctorConfig   `yaml:"doctor"`
	History   HistoryConfig  `yaml:"history"`
	Theme     string         `yaml:"theme"`
	Vars      map[string]any `yaml:"vars"`
	VarsFiles []string       `yaml:"vars_files"`
	DataDir   string         `yaml:"-"` // set by caller, not from config file
}

// RunnerConfig controls how commands are executed.
type RunnerConfig struct {
	MaxWorkers int    `yaml:"max_workers"` // parallelism for batch runs
	Output     string `yaml:"output"`      // default output mode for run
}

// ScaffoldConfig controls project generation defaults.
type ScaffoldConfig struct {
	Author            string   `yaml:"author"`
	DefaultComponents []string `yaml:"default_components"`
	ProjectsDir       string   `yaml:"projects_dir"`
}

// DoctorConfig lists the executables doctor verifies.
type DoctorConfig struct {
	Tools []string `yaml:"tools"`
}

// HistoryConfig controls command history retention.
type HistoryConfig struct {
	MaxEntries int `yaml:"max_entries"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Runner: RunnerConfig{
			MaxWorkers: 4,
			Output:     shellexec.ModeStream.String(),
		},
		Scaffold: ScaffoldConfig{
			DefaultComponents: []string{"script"},
		},
		Doctor: DoctorConfig{
			Tools: []string{"sh", "git"},
		},
		History: HistoryConfig{
			MaxEntries: 100,
		},
		Theme: "tokyo-night",
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Runner.MaxWorkers == 0 {
		c.Runner.MaxWorkers = defaults.Runner.MaxWorkers
	}
	if c.Runner.Output == "" {
		c.Runner.Output = defaults.Runner.Output
	}
	if len(c.Doctor.Tools) == 0 {
		c.Doctor.Tools = defaults.Doctor.Tools
	}
	if c.History.MaxEntries == 0 {
		c.History.MaxEntries = defaults.History.MaxEntries
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if len(c.Scaffold.DefaultComponents) == 0 {
		c.Scaffold.DefaultComponents = defaults.Scaffold.DefaultComponents
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Runner.MaxWorkers < 1 {
		return fmt.Errorf("runner.max_workers must be at least 1")
	}

	if _, err := shellexec.ParseOutputMode(c.Runner.Output); err != nil {
		return fmt.Errorf("runner.output: %w", err)
	}

	if c.History.MaxEntries < 1 {
		return fmt.Errorf("history.max_entries must be at least 1")
	}

	for i, tool := range c.Doctor.Tools {
		if tool == "" {
			return fmt.Errorf("doctor.tools[%d] cannot be empty", i)
		}
	}

	return nil
}

// OutputMode returns the configured default output mode. Validate
// guarantees the name parses.
func (c *Config) OutputMode() shellexec.OutputMode {
	mode, _ := shellexec.ParseOutputMode(c.Runner.Output)
	return mode
}

// HistoryPath returns the path to the command history JSON file.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.json")
}

// LogsDir returns the directory where batch run logs are written.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ProjectsDir returns the default destination for scaffolded projects.
// Falls back to the current directory when unset.
func (c *Config) ProjectsDir() string {
	if c.Scaffold.ProjectsDir != "" {
		return c.Scaffold.ProjectsDir
	}
	return "."
}
