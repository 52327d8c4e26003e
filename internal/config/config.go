// Package config loads qtermsim settings from YAML and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"qtermsim/internal/logging"
	"qtermsim/quantum"
)

// Config contains all qtermsim settings.
type Config struct {
	Logging   LoggingConfig   `json:"logging" yaml:"logging"`
	Simulator SimulatorConfig `json:"simulator" yaml:"simulator"`
	QAOA      QAOAConfig      `json:"qaoa" yaml:"qaoa"`
}

// LoggingConfig configures the stderr logger.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `json:"level" yaml:"level"`
}

// SimulatorConfig configures every circuit the CLI and TUI create.
type SimulatorConfig struct {
	// MaxQubits bounds register size; the state vector holds 2^MaxQubits
	// amplitudes.
	MaxQubits int `json:"max_qubits" yaml:"max_qubits"`

	// Seed makes measurements reproducible. Zero means unseeded.
	Seed uint64 `json:"seed" yaml:"seed"`

	// CheckNormalization panics when a gate leaves the state unnormalized.
	CheckNormalization bool `json:"check_normalization" yaml:"check_normalization"`
}

// QAOAConfig holds optimizer defaults.
type QAOAConfig struct {
	Iterations int     `json:"iterations" yaml:"iterations"`
	Delta      float64 `json:"delta" yaml:"delta"`
	Steps      int     `json:"steps" yaml:"steps"`
	Trials     int     `json:"trials" yaml:"trials"`
}

func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Simulator: SimulatorConfig{
			MaxQubits:          quantum.DefaultMaxQubits,
			CheckNormalization: true,
		},
		QAOA: QAOAConfig{
			Iterations: 100,
			Delta:      0.05,
			Steps:      1,
			Trials:     1,
		},
	}
}

// DefaultPath is ~/.qtermsim/config.yaml, or "" if there is no home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".qtermsim", "config.yaml")
}

// Load reads defaults, then path (or DefaultPath when path is empty) if the
// file exists, then environment overrides. An explicit path that does not
// exist is an error.
func Load(path string) (*Config, error) {
	config := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			fileConfig, err := LoadFromFile(path)
			if err != nil {
				return nil, fmt.Errorf("loading config file: %w", err)
			}
			config = fileConfig
		} else if explicit {
			return nil, fmt.Errorf("loading config file: %w", statErr)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file. Keys the file
// omits keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return config, nil
}

func (c *Config) Validate() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: trace, debug, info, warn, error)", c.Logging.Level)
	}

	if c.Simulator.MaxQubits < 1 || c.Simulator.MaxQubits > quantum.MaxQubitsLimit {
		return fmt.Errorf("max_qubits must be between 1 and %d, got %d", quantum.MaxQubitsLimit, c.Simulator.MaxQubits)
	}

	if c.QAOA.Iterations < 1 {
		return fmt.Errorf("qaoa iterations must be positive, got %d", c.QAOA.Iterations)
	}
	if c.QAOA.Delta <= 0 {
		return fmt.Errorf("qaoa delta must be positive, got %f", c.QAOA.Delta)
	}
	if c.QAOA.Steps < 1 {
		return fmt.Errorf("qaoa steps must be positive, got %d", c.QAOA.Steps)
	}
	if c.QAOA.Trials < 1 {
		return fmt.Errorf("qaoa trials must be positive, got %d", c.QAOA.Trials)
	}
	return nil
}

// CircuitOptions turns the simulator section into circuit options. A zero
// seed leaves the process-wide source in place.
func (c *Config) CircuitOptions() []quantum.Option {
	opts := []quantum.Option{
		quantum.WithMaxQubits(c.Simulator.MaxQubits),
		quantum.WithInvariantChecks(c.Simulator.CheckNormalization),
	}
	if c.Simulator.Seed != 0 {
		opts = append(opts, quantum.WithRand(quantum.NewSeededRand(c.Simulator.Seed)))
	}
	return opts
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("QTERMSIM_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("QTERMSIM_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			config.Simulator.Seed = n
		}
	}

	if v := os.Getenv("QTERMSIM_MAX_QUBITS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulator.MaxQubits = n
		}
	}

	if v := os.Getenv("QTERMSIM_QAOA_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.QAOA.Iterations = n
		}
	}
}
