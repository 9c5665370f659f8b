// Package config loads and validates the YAML configuration that wires the
// CLI: logging, the decomposition provider, and execution defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/louipr/spark/internal/llm"
	"github.com/louipr/spark/internal/types"
)

// Config is the root configuration document.
type Config struct {
	Logging   LoggingConfig      `yaml:"logging"`
	Provider  llm.ProviderConfig `yaml:"provider"`
	Execution ExecutionConfig    `yaml:"execution"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ExecutionConfig carries the run defaults handed to the executor and
// orchestrator.
type ExecutionConfig struct {
	StepTimeout     time.Duration `yaml:"step_timeout"`
	MaxRetries      int           `yaml:"max_retries"`
	RetryBackoff    time.Duration `yaml:"retry_backoff"`
	Exponential     bool          `yaml:"exponential_backoff"`
	Parallel        bool          `yaml:"parallel"`
	RequireApproval bool          `yaml:"require_approval"`
	WorkingDir      string        `yaml:"working_dir"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Provider: llm.ProviderConfig{
			Type: llm.ProviderMock,
		},
		Execution: ExecutionConfig{
			StepTimeout:  30 * time.Second,
			MaxRetries:   3,
			RetryBackoff: time.Second,
			Exponential:  true,
			WorkingDir:   ".",
		},
	}
}

// Load reads the YAML file at path, layers it over DefaultConfig, applies
// environment overrides, and validates the result. A missing file is not an
// error; defaults plus environment apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Fall through to env overrides.
	case err != nil:
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED,
			fmt.Sprintf("reading config file %s failed", path), err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, types.WrapError(types.CONFIG_PARSE_FAILED,
				fmt.Sprintf("parsing config file %s failed", path), err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv layers SPARK_* environment variables over the file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("SPARK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SPARK_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("SPARK_PROVIDER"); v != "" {
		c.Provider.Type = llm.ProviderType(v)
	}
	if v := os.Getenv("SPARK_MODEL"); v != "" {
		c.Provider.Model = v
	}
	if v := os.Getenv("SPARK_WORKING_DIR"); v != "" {
		c.Execution.WorkingDir = v
	}
	if v := os.Getenv("SPARK_PARALLEL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Execution.Parallel = b
		}
	}
	if v := os.Getenv("SPARK_REQUIRE_APPROVAL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Execution.RequireApproval = b
		}
	}
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
var validFormats = map[string]bool{"text": true, "json": true}

var validProviders = map[llm.ProviderType]bool{
	llm.ProviderOpenAI:    true,
	llm.ProviderAnthropic: true,
	llm.ProviderOllama:    true,
	llm.ProviderMock:      true,
}

// Validate reports the first invalid field as a typed error.
func (c *Config) Validate() error {
	if !validLevels[c.Logging.Level] {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("invalid log level %q", c.Logging.Level))
	}
	if !validFormats[c.Logging.Format] {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("invalid log format %q", c.Logging.Format))
	}
	if !validProviders[c.Provider.Type] {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("unknown provider %q", c.Provider.Type))
	}
	if c.Execution.StepTimeout <= 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "step_timeout must be positive")
	}
	if c.Execution.MaxRetries < 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "max_retries must not be negative")
	}
	if c.Execution.RetryBackoff < 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "retry_backoff must not be negative")
	}
	return nil
}
