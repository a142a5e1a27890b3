package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kb-pipeline/internal/domain/model"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LLM_MODE", "LLM_BASE_URL", "LLM_MODEL_NAME", "OLLAMA_HOST", "APP_PORT"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearLLMEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 0\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 1200, cfg.Pipeline.MaxChunkChars)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, model.LLMModeLocal, cfg.LLM.Mode)
	assert.Equal(t, "http://127.0.0.1:11434", cfg.LLM.BaseURL)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfigAppPortOverride(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("APP_PORT", "9090")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 7777\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestDefaultLLMConfigEnvOverrides(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("LLM_MODE", "custom")
	t.Setenv("LLM_BASE_URL", "http://llm.internal")
	t.Setenv("LLM_MODEL_NAME", "m1")

	cfg := DefaultLLMConfig(model.LLMConfig{})
	assert.Equal(t, model.LLMModeCustom, cfg.Mode)
	assert.Equal(t, "http://llm.internal", cfg.BaseURL)
	assert.Equal(t, "m1", cfg.ModelName)
}

func TestDefaultLLMConfigInvalidModeFallsBackToLocal(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("LLM_MODE", "quantum")

	cfg := DefaultLLMConfig(model.LLMConfig{})
	assert.Equal(t, model.LLMModeLocal, cfg.Mode)
}

func TestDefaultLLMConfigKeepsFileSeed(t *testing.T) {
	clearLLMEnv(t)
	seed := model.LLMConfig{Mode: model.LLMModeCustom, BaseURL: "http://from-file", ModelName: "seeded"}

	cfg := DefaultLLMConfig(seed)
	assert.Equal(t, seed, cfg)
}

func TestDiscoverLocalEndpoint(t *testing.T) {
	clearLLMEnv(t)
	assert.Equal(t, "http://127.0.0.1:11434", DiscoverLocalEndpoint())

	t.Setenv("OLLAMA_HOST", "gpu-box")
	assert.Equal(t, "http://gpu-box:11434", DiscoverLocalEndpoint())

	t.Setenv("OLLAMA_HOST", "https://ollama.lan:8443")
	assert.Equal(t, "https://ollama.lan:8443", DiscoverLocalEndpoint())
}
