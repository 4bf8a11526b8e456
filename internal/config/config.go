// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/exercise-enricher/internal/llm"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided
// via CLI flags.
type Config struct {
	// Paths
	Input    string `json:"input,omitempty"`    // Path to the exercise catalog JSON file
	Output   string `json:"output,omitempty"`   // Path to the enriched output JSON file
	Progress string `json:"progress,omitempty"` // Path to the progress checkpoint JSON file

	// Provider
	Provider string `json:"provider,omitempty"` // Enrichment provider (gemini)
	Model    string `json:"model,omitempty"`    // Model name for the provider
	APIKey   string `json:"api_key,omitempty"`  // Provider API key

	// Behavior
	DelayMS     int    `json:"delay_ms,omitempty"`     // Delay between provider calls in milliseconds
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL URL; selects the database store backend
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.DelayMS < 0 {
		return fmt.Errorf("config error: 'delay_ms' must be non-negative")
	}

	if c.Provider != "" {
		switch llm.Provider(c.Provider) {
		case llm.ProviderGemini, llm.ProviderOpenAI, llm.ProviderAnthropic:
		default:
			return fmt.Errorf("config error: unknown provider %q", c.Provider)
		}
	}

	if c.Input != "" {
		if _, err := os.Stat(c.Input); os.IsNotExist(err) {
			return fmt.Errorf("config error: input file not found: %s", c.Input)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Input == "" {
		result.Input = defaults.Input
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.Progress == "" {
		result.Progress = defaults.Progress
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.DelayMS == 0 {
		result.DelayMS = defaults.DelayMS
	}

	return result
}

// Delay returns the configured inter-item delay as a duration.
func (c *Config) Delay() time.Duration {
	return time.Duration(c.DelayMS) * time.Millisecond
}

// LLMConfig returns the provider configuration for this run.
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.DefaultConfig()
	if c.Provider != "" {
		cfg.Provider = llm.Provider(c.Provider)
	}
	if c.Model != "" {
		cfg.Model = c.Model
	}
	return cfg
}
