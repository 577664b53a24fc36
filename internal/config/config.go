// Package config holds the batch configuration: where the figures live,
// which work units to build and how to write them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up when --config is not given.
const DefaultFile = "autoppt.yaml"

// Error policies for a failing work unit.
const (
	OnErrorAbort = "abort" // stop the batch at the first failing unit
	OnErrorSkip  = "skip"  // log the failure and continue
)

// Config is the complete configuration.
type Config struct {
	// Root is the folder holding one directory per identifier.
	Root string `yaml:"root"`
	// Identifiers lists the work-unit identifiers. Empty means every
	// sub-directory of Root.
	Identifiers []string `yaml:"identifiers"`

	Runs    RunsConfig    `yaml:"runs"`
	Figures FiguresConfig `yaml:"figures"`

	// OutputDir receives "{identifier} - {n}.pptx". Empty means the working directory.
	OutputDir string `yaml:"output_dir"`
	// Template is an optional .pptx whose layouts are used. Empty means built-in.
	Template string `yaml:"template"`

	OnError       string `yaml:"on_error"`
	Jobs          int    `yaml:"jobs"`
	OpenAfterSave bool   `yaml:"open_after_save"`
	Thumbnail     bool   `yaml:"thumbnail"`
	DebugShapes   bool   `yaml:"debug_shapes"`

	Logging LoggingConfig `yaml:"logging"`
}

// RunsConfig is the inclusive range of run numbers per identifier.
type RunsConfig struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// FiguresConfig holds the path conventions below {root}/{identifier}/{n}.
type FiguresConfig struct {
	UXStats          string `yaml:"ux_stats"`
	DataCollectorDir string `yaml:"data_collector_dir"`
	Extension        string `yaml:"extension"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Root: ".",
		Runs: RunsConfig{From: 1, To: 20},
		Figures: FiguresConfig{
			UXStats:          filepath.Join("Last Session Log Analysis", "figures", "uxStats.png"),
			DataCollectorDir: filepath.Join("Data Collector Analysis", "figures"),
			Extension:        "png",
		},
		OnError: OnErrorAbort,
		Jobs:    1,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment variables are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
		// defaults
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("AUTOPPT_ROOT"); v != "" {
		c.Root = v
	}
	if v := os.Getenv("AUTOPPT_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("AUTOPPT_TEMPLATE"); v != "" {
		c.Template = v
	}
	if v := os.Getenv("AUTOPPT_IDENTIFIERS"); v != "" {
		c.Identifiers = SplitList(v)
	}
	if v := os.Getenv("AUTOPPT_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}
}

// SplitList splits a comma separated list, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("root folder not configured (set root or AUTOPPT_ROOT)")
	}
	if c.Runs.From < 0 || c.Runs.To < c.Runs.From {
		return fmt.Errorf("invalid run range %d..%d", c.Runs.From, c.Runs.To)
	}
	if c.Figures.Extension == "" {
		return fmt.Errorf("figures.extension must not be empty")
	}
	if c.Figures.DataCollectorDir == "" {
		return fmt.Errorf("figures.data_collector_dir must not be empty")
	}
	if c.OnError != OnErrorAbort && c.OnError != OnErrorSkip {
		return fmt.Errorf("invalid on_error: %q (valid: %s, %s)", c.OnError, OnErrorAbort, OnErrorSkip)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	for _, id := range c.Identifiers {
		if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
			return fmt.Errorf("invalid identifier %q", id)
		}
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid logging level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid logging format: %s (valid: json, console)", c.Logging.Format)
	}
	return nil
}

// RunNumbers returns the configured run numbers in order.
func (c *Config) RunNumbers() []int {
	var out []int
	for n := c.Runs.From; n <= c.Runs.To; n++ {
		out = append(out, n)
	}
	return out
}
