// Package config loads the CLI configuration from YAML. Values of the form
// ${VAR} are expanded from the environment before parsing, so secrets such as
// API keys can stay out of the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider names accepted in Config.Provider.
const (
	ProviderMock      = "mock"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
)

// Storage backends accepted in StorageConfig.Backend.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendS3     = "s3"
)

// Config is the root configuration.
type Config struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	// OutputDir is where saved documents and transcripts go for the file backend.
	OutputDir string `yaml:"output_dir"`
	// MaxTurns bounds model turns per graph run. 0 means unlimited.
	MaxTurns    int           `yaml:"max_turns"`
	MaxParallel int           `yaml:"max_parallel"`
	Stream      bool          `yaml:"stream"`
	Timeout     time.Duration `yaml:"timeout"`

	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// StorageConfig selects where artifacts are written.
type StorageConfig struct {
	Backend  string `yaml:"backend"`
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// RateLimitConfig throttles model calls. RPS <= 0 disables the limiter.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Provider:  ProviderMock,
		OutputDir: "agents",
		Storage:   StorageConfig{Backend: BackendFile},
		Log:       LogConfig{Level: "warn", Format: "text"},
	}
}

// Load reads, expands and validates a YAML file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML from r on top of Default. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	dec := yaml.NewDecoder(strings.NewReader(os.ExpandEnv(string(raw))))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderMock
	}
	if c.OutputDir == "" {
		c.OutputDir = "agents"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendFile
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 1
	}
}

// Validate checks cross field constraints.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderMock, ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderOllama:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	switch c.Storage.Backend {
	case BackendFile, BackendMemory:
	case BackendS3:
		if c.Storage.Bucket == "" {
			return errors.New("storage.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %v out of range [0, 2]", c.Temperature)
	}
	if c.MaxTurns < 0 {
		return errors.New("max_turns must not be negative")
	}
	return nil
}
