// Package config provides configuration management for tablechat.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the tablechat configuration.
type Config struct {
	AI    AIConfig    `yaml:"ai"`
	Query QueryConfig `yaml:"query"`
	Log   LogConfig   `yaml:"log"`
}

// AIConfig holds text-generation settings.
type AIConfig struct {
	Provider    string `yaml:"provider"`     // openai, anthropic, or auto
	Model       string `yaml:"model"`        // Provider-specific model (empty = provider default)
	TimeoutSecs int    `yaml:"timeout_secs"` // Max wait per generation call
}

// QueryConfig holds query-synthesis settings.
type QueryConfig struct {
	// MaxRetries is the retry bound for failed SQL executions. A bound
	// of N permits N+1 total execution attempts per question before
	// giving up and returning control to the user.
	MaxRetries int `yaml:"max_retries"`

	// MaxRows is the row-limit hint injected into the synthesis prompt.
	MaxRows int `yaml:"max_rows"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file path (empty = stderr)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider:    "auto",
			Model:       "",
			TimeoutSecs: 60,
		},
		Query: QueryConfig{
			MaxRetries: 3,
			MaxRows:    100,
		},
		Log: LogConfig{
			Level: "info",
			File:  "",
		},
	}
}

// DefaultPath returns the default config file path, following
// XDG_CONFIG_HOME with a ~/.config fallback.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "tablechat", "config.yaml")
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	return LoadFromFile(DefaultPath())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration and fixes recoverable values by
// clamping them to sane bounds. Unknown provider names are an error.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "auto", "openai", "anthropic":
	default:
		return fmt.Errorf("unknown provider %q (want auto, openai, or anthropic)", c.AI.Provider)
	}
	if c.AI.TimeoutSecs <= 0 {
		c.AI.TimeoutSecs = DefaultConfig().AI.TimeoutSecs
	}
	if c.Query.MaxRetries < 0 {
		c.Query.MaxRetries = 0
	}
	if c.Query.MaxRows <= 0 {
		c.Query.MaxRows = DefaultConfig().Query.MaxRows
	}
	return nil
}
