// Package config loads the application configuration from a YAML file with
// environment variable overrides. API keys are never read from or written
// to the file; they come from the environment only.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	GeminiAPIKey string `yaml:"-" env:"GEMINI_API_KEY"`
	OpenAIAPIKey string `yaml:"-" env:"OPENAI_API_KEY"`

	// Provider selects the model backend: "gemini" or "openai".
	Provider string `yaml:"provider" env:"COUNSEL_PROVIDER"`
	Model    string `yaml:"model" env:"COUNSEL_MODEL"`

	MaxOutputTokens int     `yaml:"maxOutputTokens" env:"COUNSEL_MAX_OUTPUT_TOKENS"`
	Temperature     float64 `yaml:"temperature"`
	TopP            float64 `yaml:"topP"`
	TopK            int     `yaml:"topK"`

	// MaxHistoryTurns bounds a session to this many exchanges; the store
	// keeps twice as many turns (a user turn and an assistant turn per
	// exchange), oldest discarded first.
	MaxHistoryTurns int `yaml:"maxHistoryTurns"`

	MaxRetries            int `yaml:"maxRetries"`
	RequestTimeoutSeconds int `yaml:"requestTimeoutSeconds"`

	UI UIConfig `yaml:"ui"`

	Prometheus *PrometheusConfig `yaml:"prometheus,omitempty"`

	LogLevel slog.Level `yaml:"logLevel" env:"LOG_LEVEL"`
}

type UIConfig struct {
	ShowTokenUsage  bool `yaml:"showTokenUsage"`
	ShowSessionInfo bool `yaml:"showSessionInfo"`
}

type PrometheusConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    uint16 `yaml:"port"`
}

// DefaultConfig returns the default config.
func DefaultConfig() *Config {
	return &Config{
		Provider:        "gemini",
		Model:           "",
		MaxOutputTokens: 2048,
		Temperature:     0.7,
		TopP:            0.95,
		TopK:            40,

		MaxHistoryTurns: 20,

		MaxRetries:            2,
		RequestTimeoutSeconds: 30,

		UI: UIConfig{
			ShowTokenUsage:  true,
			ShowSessionInfo: true,
		},

		Prometheus: &PrometheusConfig{
			Enabled: false,
			Port:    8080,
		},

		LogLevel: slog.LevelInfo,
	}
}

// PopulateFromEnvironment populates the config with values from environment
// variables.
func (c *Config) PopulateFromEnvironment() error {
	return env.Parse(c)
}

// Validate checks option values the rest of the program assumes.
func (c *Config) Validate() error {
	switch c.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unknown provider %q: must be \"gemini\" or \"openai\"", c.Provider)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2], got %g", c.Temperature)
	}
	if c.MaxOutputTokens < 0 {
		return fmt.Errorf("maxOutputTokens must be non-negative, got %d", c.MaxOutputTokens)
	}
	if c.MaxHistoryTurns < 0 {
		return fmt.Errorf("maxHistoryTurns must be non-negative, got %d", c.MaxHistoryTurns)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("maxRetries must be non-negative, got %d", c.MaxRetries)
	}
	return nil
}

// APIKey returns the credential for the configured provider, or an error
// naming the missing environment variable. A missing credential is fatal
// at startup.
func (c *Config) APIKey() (string, error) {
	switch c.Provider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return "", errors.New("GEMINI_API_KEY environment variable is not set")
		}
		return c.GeminiAPIKey, nil
	case "openai":
		if c.OpenAIAPIKey == "" {
			return "", errors.New("OPENAI_API_KEY environment variable is not set")
		}
		return c.OpenAIAPIKey, nil
	default:
		return "", fmt.Errorf("unknown provider %q", c.Provider)
	}
}

// RequestTimeout returns the per-attempt timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// CreateConfigIfNotExists makes sure that a config file exists. If it
// doesn't, it is created and populated with the default config.
func CreateConfigIfNotExists(path string) error {
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		return nil
	}

	config := DefaultConfig()
	return config.Store(path)
}

// ReadConfig reads a config file from the specified path. Unknown options
// are rejected.
func ReadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	return config, nil
}

// Store stores the config in the specified path.
// Writes are atomic.
func (c *Config) Store(path string) error {
	file, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(file.Name())
		}
	}()

	encoder := yaml.NewEncoder(file)
	if err := encoder.Encode(&c); err != nil {
		return err
	}

	if err := file.Sync(); err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	return os.Rename(file.Name(), path)
}
