// File: internal/usecase/llm_state_uc.go
package usecase

import (
	"sync"

	"github.com/rs/zerolog"

	"kb-pipeline/internal/domain/model"
	"kb-pipeline/internal/domain/ports/adapter"
)

// ClientFactory builds an LLM client from a configuration.
type ClientFactory func(cfg model.LLMConfig) (adapter.LLMClient, error)

// LLMStateUseCase is the process-wide holder for the active LLM
// configuration and the lazily constructed client. All reads and all
// config/client transitions go through one mutex so a status read never
// observes a config and client that were never paired together.
type LLMStateUseCase struct {
	mu      sync.Mutex
	cfg     model.LLMConfig
	client  adapter.LLMClient
	lastErr string

	factory ClientFactory
	log     *zerolog.Logger
}

func NewLLMStateUseCase(cfg model.LLMConfig, factory ClientFactory, logger *zerolog.Logger) *LLMStateUseCase {
	return &LLMStateUseCase{cfg: cfg, factory: factory, log: logger}
}

// Config returns an independent copy of the active configuration.
func (s *LLMStateUseCase) Config() model.LLMConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Client returns the currently initialized client (may be nil).
func (s *LLMStateUseCase) Client() adapter.LLMClient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client
}

// Status returns a serializable snapshot of the LLM state.
func (s *LLMStateUseCase) Status() model.LLMStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.LLMStatus{
		Mode:              s.cfg.Mode,
		BaseURL:           s.cfg.BaseURL,
		ModelName:         s.cfg.ModelName,
		ClientInitialized: s.client != nil,
		LastError:         s.lastErr,
	}
}

// SetConfig atomically replaces the configuration, clearing the current
// client and error. With initializeClient it synchronously attempts
// construction and reports success; otherwise the client stays unset and
// the new config is accepted as-is.
func (s *LLMStateUseCase) SetConfig(cfg model.LLMConfig, initializeClient bool) bool {
	s.mu.Lock()
	s.cfg = cfg
	s.client = nil
	s.lastErr = ""
	s.mu.Unlock()

	if initializeClient {
		return s.RefreshClient()
	}
	return true
}

// RefreshClient attempts to construct a client from the current
// configuration. Construction happens outside the lock so concurrent
// status reads are never blocked behind it; failures are converted to the
// stored error, never raised.
func (s *LLMStateUseCase) RefreshClient() bool {
	cfg := s.Config()

	client, err := s.factory(cfg)
	if err != nil {
		s.log.Warn().Err(err).
			Str("mode", string(cfg.Mode)).
			Str("base_url", cfg.BaseURL).
			Str("model", cfg.ModelName).
			Msg("failed to initialize LLM client")
		s.mu.Lock()
		s.client = nil
		s.lastErr = err.Error()
		s.mu.Unlock()
		return false
	}

	s.mu.Lock()
	s.client = client
	s.lastErr = ""
	s.mu.Unlock()
	s.log.Info().
		Str("mode", string(cfg.Mode)).
		Str("base_url", cfg.BaseURL).
		Str("model", cfg.ModelName).
		Msg("initialized LLM client")
	return true
}
