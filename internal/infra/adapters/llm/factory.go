package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"kb-pipeline/internal/domain"
	"kb-pipeline/internal/domain/model"
	"kb-pipeline/internal/domain/ports/adapter"
)

// Validate checks that cfg carries the fields its mode requires. The web
// layer uses it to tell configuration-shape failures apart from everything
// else without re-running construction.
func Validate(cfg model.LLMConfig) error {
	switch cfg.Mode {
	case model.LLMModeLocal:
		if cfg.BaseURL == "" {
			return fmt.Errorf("%w: local mode selected but no base_url set", domain.ErrInvalidArgument)
		}
		if cfg.ModelName == "" {
			return fmt.Errorf("%w: local mode selected but no model_name set", domain.ErrInvalidArgument)
		}
	case model.LLMModeCustom:
		if cfg.BaseURL == "" {
			return fmt.Errorf("%w: custom mode selected but no base_url set", domain.ErrInvalidArgument)
		}
	default:
		return fmt.Errorf("%w: unknown llm mode %q", domain.ErrInvalidArgument, cfg.Mode)
	}
	return nil
}

// New returns the adapter implementation selected by cfg.Mode, failing fast
// when required fields for that mode are missing.
func New(cfg model.LLMConfig) (adapter.LLMClient, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	if cfg.Mode == model.LLMModeLocal {
		return NewOllamaAdapter(cfg.BaseURL, cfg.ModelName)
	}
	return NewCustomAdapter(cfg.BaseURL, cfg.ModelName)
}

// ListOllamaModels queries an Ollama-style server for installed models
// via GET /api/tags.
func ListOllamaModels(ctx context.Context, baseURL string) ([]string, error) {
	url := strings.TrimRight(baseURL, "/") + "/api/tags"
	client := &http.Client{Timeout: 10 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ollama http %d", resp.StatusCode)
	}

	var payload struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(payload.Models))
	for _, m := range payload.Models {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names, nil
}
