// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"kb-pipeline/internal/domain/model"
)

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type PipelineConfig struct {
	MaxChunkChars int    `yaml:"max_chunk_chars"` // text unit window size
	Workers       int    `yaml:"workers"`         // concurrent pipeline jobs
	ArtifactDB    string `yaml:"artifact_db"`     // sqlite path; empty disables persistence
}

type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Log      LogConfig       `yaml:"log"`
	Pipeline PipelineConfig  `yaml:"pipeline"`
	LLM      model.LLMConfig `yaml:"llm"`
}

// LoadConfig reads the YAML file at path, applies defaults, then overlays
// the environment-derived LLM settings (env wins over file).
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 7777
	}
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.Server.Port = p
		}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Pipeline.MaxChunkChars <= 0 {
		cfg.Pipeline.MaxChunkChars = 1200
	}
	if cfg.Pipeline.Workers <= 0 {
		cfg.Pipeline.Workers = 4
	}

	cfg.LLM = DefaultLLMConfig(cfg.LLM)
	return &cfg, nil
}

// DefaultLLMConfig resolves the startup LLM configuration from the optional
// file-provided seed plus environment variables:
//
//	LLM_MODE       "local" or "custom" (defaults to local)
//	LLM_BASE_URL   explicit base URL (takes precedence over discovery)
//	LLM_MODEL_NAME model name
//	OLLAMA_HOST    host or full URL of a local model server
//
// In local mode a missing base URL falls back to endpoint discovery.
func DefaultLLMConfig(seed model.LLMConfig) model.LLMConfig {
	cfg := seed
	if m := model.LLMMode(strings.ToLower(os.Getenv("LLM_MODE"))); m.Valid() {
		cfg.Mode = m
	}
	if !cfg.Mode.Valid() {
		cfg.Mode = model.LLMModeLocal
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL_NAME"); v != "" {
		cfg.ModelName = v
	}
	if cfg.Mode == model.LLMModeLocal && cfg.BaseURL == "" {
		cfg.BaseURL = DiscoverLocalEndpoint()
	}
	return cfg
}

// DiscoverLocalEndpoint returns the base URL of a local Ollama-style server.
// OLLAMA_HOST may hold a full URL or a bare host; without it the standard
// loopback candidate is returned and trusted to be running.
func DiscoverLocalEndpoint() string {
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
			return host
		}
		return fmt.Sprintf("http://%s:11434", host)
	}
	return "http://127.0.0.1:11434"
}
