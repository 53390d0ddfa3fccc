// Package provider turns a config.Config into the concrete collaborators the
// CLI needs: a model, an artifact store, a logger and a rate limiter.
package provider

import (
	"context"
	"fmt"

	sdkanthropic "github.com/anthropics/anthropic-sdk-go"
	"golang.org/x/time/rate"

	"github.com/hupe1980/agentgraph/artifact"
	s3store "github.com/hupe1980/agentgraph/artifact/s3"
	"github.com/hupe1980/agentgraph/config"
	"github.com/hupe1980/agentgraph/logging"
	"github.com/hupe1980/agentgraph/model"
	"github.com/hupe1980/agentgraph/model/anthropic"
	"github.com/hupe1980/agentgraph/model/gemini"
	"github.com/hupe1980/agentgraph/model/ollama"
	"github.com/hupe1980/agentgraph/model/openai"
)

// NewModel builds the configured provider adapter. Empty model names keep the
// adapter's default.
func NewModel(ctx context.Context, cfg *config.Config) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderMock:
		name := cfg.Model
		if name == "" {
			name = "echo"
		}
		return model.NewMockModel(name, config.ProviderMock), nil
	case config.ProviderOpenAI:
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			o.Temperature = cfg.Temperature
			if cfg.MaxTokens > 0 {
				o.MaxCompletionTokens = int64(cfg.MaxTokens)
			}
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
		}), nil
	case config.ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Model != "" {
				o.Model = sdkanthropic.Model(cfg.Model)
			}
			o.Temperature = cfg.Temperature
			if cfg.MaxTokens > 0 {
				o.MaxTokens = int64(cfg.MaxTokens)
			}
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
		}), nil
	case config.ProviderGemini:
		return gemini.NewModel(ctx, func(o *gemini.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			o.Temperature = float32(cfg.Temperature)
			if cfg.MaxTokens > 0 {
				o.MaxOutputTokens = int32(cfg.MaxTokens)
			}
			o.APIKey = cfg.APIKey
		})
	case config.ProviderOllama:
		return ollama.NewModel(func(o *ollama.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			o.Temperature = cfg.Temperature
			if cfg.MaxTokens > 0 {
				o.NumPredict = cfg.MaxTokens
			}
			o.BaseURL = cfg.BaseURL
		})
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// NewStore builds the artifact store for saved documents and transcripts.
func NewStore(cfg *config.Config) (artifact.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		return artifact.NewFileStore(cfg.OutputDir)
	case config.BackendMemory:
		return artifact.NewInMemoryStore(), nil
	case config.BackendS3:
		client := s3store.NewClient(func(o *s3store.Options) {
			if cfg.Storage.Region != "" {
				o.Region = cfg.Storage.Region
			}
			o.Endpoint = cfg.Storage.Endpoint
		})
		return s3store.New(client, cfg.Storage.Bucket, cfg.Storage.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// NewLogger builds the structured logger.
func NewLogger(cfg *config.Config) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	lc := logging.DefaultLoggerConfig()
	lc.Level = level
	lc.Format = cfg.Log.Format
	lc.Component = "agentgraph"
	return logging.NewLogger(lc), nil
}

// NewLimiter returns nil when rate limiting is disabled.
func NewLimiter(cfg *config.Config) *rate.Limiter {
	return model.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
}
