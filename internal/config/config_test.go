package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
gemini:
  api_key: "test-key"
embed_llm:
  base_url: "http://localhost:11434"
  model: "nomic-embed-text"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, 60, cfg.Gemini.TimeoutSeconds)
	assert.Equal(t, 3, cfg.RAG.TopK)
	assert.Equal(t, 500, cfg.RAG.DocChunkSize)
	assert.Equal(t, 50, cfg.RAG.DocChunkOverlap)
	assert.Equal(t, 1000, cfg.RAG.DataChunkSize)
	assert.Equal(t, 200, cfg.RAG.DataChunkOverlap)
	assert.Equal(t, "Savory Haven", cfg.Restaurant.Name)
	assert.Nil(t, cfg.Gemini.Temperature)
	assert.Nil(t, cfg.Gemini.MaxTokens)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("DEMO_MODE", "true")

	path := writeConfig(t, `
gemini:
  api_key: "file-key"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Gemini.APIKey)
	assert.True(t, cfg.Demo.Enabled)
}

func TestLoadConfigDemoModeSkipsCredentialChecks(t *testing.T) {
	path := writeConfig(t, `
demo:
  enabled: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Demo.Enabled)
}

func TestLoadConfigMissingAPIKey(t *testing.T) {
	path := writeConfig(t, `
embed_llm:
  base_url: "http://localhost:11434"
  model: "nomic-embed-text"
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}

func TestLoadConfigMissingEmbedder(t *testing.T) {
	path := writeConfig(t, `
gemini:
  api_key: "test-key"
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed_llm")
}

func TestLoadConfigOverlapValidation(t *testing.T) {
	path := writeConfig(t, `
gemini:
  api_key: "test-key"
embed_llm:
  base_url: "http://localhost:11434"
  model: "nomic-embed-text"
rag:
  doc_chunk_size: 100
  doc_chunk_overlap: 100
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlap")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
