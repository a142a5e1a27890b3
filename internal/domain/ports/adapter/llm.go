package adapter

import "context"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Params is an opaque per-call option bag forwarded to the backend to
// interpret. The service itself never inspects it.
type Params map[string]any

// LLMClient is the port for model backends. Implementations return only
// the assistant text; streaming is out of scope.
type LLMClient interface {
	Chat(ctx context.Context, messages []Message, params Params) (string, error)
	Complete(ctx context.Context, prompt string, params Params) (string, error)
}
