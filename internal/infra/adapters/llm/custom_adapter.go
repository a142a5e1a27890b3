package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"kb-pipeline/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.LLMClient = (*CustomAdapter)(nil)

// CustomAdapter implements adapter.LLMClient against a generic HTTP
// endpoint exposing POST /chat and POST /complete. The per-call Params
// bag is forwarded verbatim for the backend to interpret.
type CustomAdapter struct {
	base   string
	model  string // optional; omitted from the payload when empty
	client *http.Client
}

func NewCustomAdapter(baseURL, model string) (*CustomAdapter, error) {
	if baseURL == "" {
		return nil, errors.New("custom llm base url empty")
	}
	return &CustomAdapter{
		base:   strings.TrimRight(baseURL, "/"),
		model:  model,
		client: &http.Client{Timeout: requestTimeout},
	}, nil
}

func (c *CustomAdapter) Chat(ctx context.Context, messages []adapter.Message, params adapter.Params) (string, error) {
	if params == nil {
		params = adapter.Params{} // wire shape is always an object, never null
	}
	reqBody := struct {
		Messages []adapter.Message `json:"messages"`
		Params   adapter.Params    `json:"params"`
		Model    string            `json:"model,omitempty"`
	}{Messages: messages, Params: params, Model: c.model}
	return c.post(ctx, c.base+"/chat", reqBody)
}

func (c *CustomAdapter) Complete(ctx context.Context, prompt string, params adapter.Params) (string, error) {
	if params == nil {
		params = adapter.Params{}
	}
	reqBody := struct {
		Prompt string         `json:"prompt"`
		Params adapter.Params `json:"params"`
		Model  string         `json:"model,omitempty"`
	}{Prompt: prompt, Params: params, Model: c.model}
	return c.post(ctx, c.base+"/complete", reqBody)
}

func (c *CustomAdapter) post(ctx context.Context, url string, body any) (string, error) {
	b, _ := json.Marshal(body)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("custom llm http %d", resp.StatusCode)
	}

	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	return payload.Content, nil
}
