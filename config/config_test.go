package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ExpandsEnvAndAppliesDefaults(t *testing.T) {
	t.Setenv("AGENTGRAPH_TEST_KEY", "sk-test")

	cfg, err := Parse(strings.NewReader(`
provider: OpenAI
model: gpt-4o-mini
api_key: ${AGENTGRAPH_TEST_KEY}
temperature: 0.2
timeout: 30s
rate_limit:
  rps: 2
log:
  level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "agents", cfg.OutputDir)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, 1, cfg.RateLimit.Burst)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown provider", "provider: foo"},
		{"unknown key", "providr: openai"},
		{"s3 without bucket", "storage:\n  backend: s3"},
		{"bad backend", "storage:\n  backend: ftp"},
		{"bad format", "log:\n  format: xml"},
		{"temperature", "temperature: 3"},
		{"negative turns", "max_turns: -1"},
		{"malformed", "provider: [openai"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agentgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: gemini\nstorage:\n  backend: s3\n  bucket: docs\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "docs", cfg.Storage.Bucket)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
