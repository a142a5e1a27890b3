package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"kb-pipeline/internal/domain/ports/adapter"
)

// requestTimeout is the fixed per-request timeout shared by all backend
// calls; callers cannot override it per call.
const requestTimeout = 60 * time.Second

// Compile-time assurance this adapter satisfies the port
var _ adapter.LLMClient = (*OllamaAdapter)(nil)

// OllamaAdapter implements adapter.LLMClient against an Ollama-style HTTP
// server (POST /api/chat, POST /api/generate).
type OllamaAdapter struct {
	base   string // e.g., http://127.0.0.1:11434
	model  string
	client *http.Client
}

func NewOllamaAdapter(baseURL, model string) (*OllamaAdapter, error) {
	if baseURL == "" {
		return nil, errors.New("ollama base url empty")
	}
	if model == "" {
		return nil, errors.New("ollama model name empty")
	}
	return &OllamaAdapter{
		base:   strings.TrimRight(baseURL, "/"),
		model:  model,
		client: &http.Client{Timeout: requestTimeout},
	}, nil
}

func (o *OllamaAdapter) Chat(ctx context.Context, messages []adapter.Message, _ adapter.Params) (string, error) {
	reqBody := struct {
		Model    string            `json:"model"`
		Messages []adapter.Message `json:"messages"`
		Stream   bool              `json:"stream"`
	}{Model: o.model, Messages: messages}

	b, _ := json.Marshal(reqBody)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, o.base+"/api/chat", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("ollama http %d", resp.StatusCode)
	}

	var payload struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	return payload.Message.Content, nil
}

func (o *OllamaAdapter) Complete(ctx context.Context, prompt string, _ adapter.Params) (string, error) {
	reqBody := struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
		Stream bool   `json:"stream"`
	}{Model: o.model, Prompt: prompt}

	b, _ := json.Marshal(reqBody)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, o.base+"/api/generate", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("ollama http %d", resp.StatusCode)
	}

	var payload struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	return payload.Response, nil
}
