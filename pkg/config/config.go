// Package config holds the settings of the cutflow command line tool.
//
// Values come from three layers, later ones winning: Default(), a YAML
// file read by Load, and CUTFLOW_* environment variables. Command flags
// are applied by the caller on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ezoic/cutflow/pkg/errors"
)

// Loss names accepted by the loss setting.
const (
	LossCrossEntropy = "cross_entropy"
	LossError        = "error"
	LossBalanced     = "balanced"
)

// ValidLosses lists every loss name.
var ValidLosses = []string{LossCrossEntropy, LossError, LossBalanced}

// Config is the CLI configuration.
type Config struct {
	NBins    int    `yaml:"n_bins"`
	Topology string `yaml:"topology"`
	Loss     string `yaml:"loss"`
	Workers  int    `yaml:"workers"`
	LogLevel string `yaml:"log_level"`
	// PlotDir receives one histogram per feature after fit. Empty disables
	// plotting.
	PlotDir string `yaml:"plot_dir,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		NBins:    100,
		Topology: "parallel",
		Loss:     LossCrossEntropy,
		Workers:  1,
		LogLevel: "info",
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if level := os.Getenv("CUTFLOW_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	if v := os.Getenv("CUTFLOW_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.NewValidationError("CUTFLOW_WORKERS", "must be an integer", v)
		}
		c.Workers = n
	}
	return nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if c.NBins < 2 {
		return errors.NewValidationError("n_bins", "must be at least 2", c.NBins)
	}
	if c.Topology != "parallel" && c.Topology != "sequential" {
		return errors.NewValidationError("topology", "must be parallel or sequential", c.Topology)
	}
	valid := false
	for _, l := range ValidLosses {
		if c.Loss == l {
			valid = true
			break
		}
	}
	if !valid {
		return errors.NewValidationError("loss", fmt.Sprintf("must be one of %v", ValidLosses), c.Loss)
	}
	if c.Workers < 1 {
		return errors.NewValidationError("workers", "must be at least 1", c.Workers)
	}
	return nil
}
