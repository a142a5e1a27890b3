package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kb-pipeline/internal/domain/model"
	"kb-pipeline/internal/domain/ports/adapter"
)

// ---- Fakes ----

type fakeClient struct{}

func (fakeClient) Chat(context.Context, []adapter.Message, adapter.Params) (string, error) {
	return "ok", nil
}
func (fakeClient) Complete(context.Context, string, adapter.Params) (string, error) {
	return "ok", nil
}

func okFactory(model.LLMConfig) (adapter.LLMClient, error)  { return fakeClient{}, nil }
func badFactory(model.LLMConfig) (adapter.LLMClient, error) { return nil, errors.New("no backend") }

func newState(factory ClientFactory) *LLMStateUseCase {
	logger := zerolog.Nop()
	cfg := model.LLMConfig{Mode: model.LLMModeLocal, BaseURL: "http://127.0.0.1:11434", ModelName: "llama3"}
	return NewLLMStateUseCase(cfg, factory, &logger)
}

func TestInitialStateHasNoClient(t *testing.T) {
	s := newState(okFactory)
	st := s.Status()
	assert.False(t, st.ClientInitialized)
	assert.Empty(t, st.LastError)
	assert.Nil(t, s.Client())
}

func TestSetConfigPairsConfigAndClient(t *testing.T) {
	s := newState(okFactory)
	cfg := model.LLMConfig{Mode: model.LLMModeCustom, BaseURL: "http://llm.internal", ModelName: "m1"}

	require.True(t, s.SetConfig(cfg, true))

	st := s.Status()
	assert.Equal(t, cfg.Mode, st.Mode)
	assert.Equal(t, cfg.BaseURL, st.BaseURL)
	assert.Equal(t, cfg.ModelName, st.ModelName)
	assert.True(t, st.ClientInitialized)
	assert.Empty(t, st.LastError)
	assert.NotNil(t, s.Client())
}

func TestSetConfigAcceptsButReportsFailure(t *testing.T) {
	s := newState(badFactory)
	cfg := model.LLMConfig{Mode: model.LLMModeCustom, BaseURL: "http://llm.internal"}

	require.False(t, s.SetConfig(cfg, true))

	// Config is kept even though construction failed.
	st := s.Status()
	assert.Equal(t, cfg.BaseURL, st.BaseURL)
	assert.False(t, st.ClientInitialized)
	assert.Equal(t, "no backend", st.LastError)
	assert.Nil(t, s.Client())
}

func TestSetConfigDeferredInitialization(t *testing.T) {
	s := newState(okFactory)
	cfg := model.LLMConfig{Mode: model.LLMModeCustom, BaseURL: "http://llm.internal"}

	require.True(t, s.SetConfig(cfg, false))
	st := s.Status()
	assert.False(t, st.ClientInitialized)
	assert.Empty(t, st.LastError)

	require.True(t, s.RefreshClient())
	assert.True(t, s.Status().ClientInitialized)
}

func TestRefreshClientClearsPreviousError(t *testing.T) {
	var fail bool
	factory := func(cfg model.LLMConfig) (adapter.LLMClient, error) {
		if fail {
			return nil, errors.New("unreachable")
		}
		return fakeClient{}, nil
	}
	s := newState(factory)

	fail = true
	require.False(t, s.RefreshClient())
	assert.Equal(t, "unreachable", s.Status().LastError)

	fail = false
	require.True(t, s.RefreshClient())
	st := s.Status()
	assert.True(t, st.ClientInitialized)
	assert.Empty(t, st.LastError)
}

func TestConcurrentAccessKeepsSnapshotsCoherent(t *testing.T) {
	s := newState(okFactory)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				switch n % 3 {
				case 0:
					s.SetConfig(model.LLMConfig{Mode: model.LLMModeCustom, BaseURL: "http://llm.internal"}, true)
				case 1:
					s.RefreshClient()
				default:
					st := s.Status()
					// An initialized client never coexists with an error.
					if st.ClientInitialized {
						assert.Empty(t, st.LastError)
					}
				}
			}
		}(i)
	}
	wg.Wait()
}
