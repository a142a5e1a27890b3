package model

// LLMMode selects which backend protocol the service talks to.
type LLMMode string

const (
	// LLMModeLocal targets an Ollama-style local model server
	// (chat/generate/list-models routes under /api).
	LLMModeLocal LLMMode = "local"
	// LLMModeCustom targets any HTTP endpoint implementing the minimal
	// chat/complete contract.
	LLMModeCustom LLMMode = "custom"
)

// Valid reports whether m is a known mode.
func (m LLMMode) Valid() bool {
	return m == LLMModeLocal || m == LLMModeCustom
}

// LLMConfig describes how to reach a model backend. It is an immutable
// value: callers replace it wholesale, never mutate fields in place.
//
// In local mode both BaseURL and ModelName are required before a client
// can be constructed; in custom mode only BaseURL is required.
type LLMConfig struct {
	Mode      LLMMode `json:"mode" yaml:"mode"`
	BaseURL   string  `json:"base_url" yaml:"base_url"`
	ModelName string  `json:"model_name" yaml:"model_name"`
}

// LLMStatus is the serializable snapshot returned by status endpoints.
type LLMStatus struct {
	Mode              LLMMode `json:"mode"`
	BaseURL           string  `json:"base_url"`
	ModelName         string  `json:"model_name"`
	ClientInitialized bool    `json:"client_initialized"`
	LastError         string  `json:"last_error"`
}
