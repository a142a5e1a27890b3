package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kb-pipeline/internal/domain"
	"kb-pipeline/internal/domain/model"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     model.LLMConfig
		wantErr bool
	}{
		{"local complete", model.LLMConfig{Mode: model.LLMModeLocal, BaseURL: "http://127.0.0.1:11434", ModelName: "llama3"}, false},
		{"local missing base_url", model.LLMConfig{Mode: model.LLMModeLocal, ModelName: "llama3"}, true},
		{"local missing model_name", model.LLMConfig{Mode: model.LLMModeLocal, BaseURL: "http://127.0.0.1:11434"}, true},
		{"custom complete", model.LLMConfig{Mode: model.LLMModeCustom, BaseURL: "http://llm.internal"}, false},
		{"custom without model is fine", model.LLMConfig{Mode: model.LLMModeCustom, BaseURL: "http://llm.internal", ModelName: ""}, false},
		{"custom missing base_url", model.LLMConfig{Mode: model.LLMModeCustom}, true},
		{"unknown mode", model.LLMConfig{Mode: "weird", BaseURL: "http://x"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.cfg)
			if tc.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidArgument)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNewSelectsVariantByMode(t *testing.T) {
	client, err := New(model.LLMConfig{Mode: model.LLMModeLocal, BaseURL: "http://127.0.0.1:11434", ModelName: "llama3"})
	require.NoError(t, err)
	assert.IsType(t, &OllamaAdapter{}, client)

	client, err = New(model.LLMConfig{Mode: model.LLMModeCustom, BaseURL: "http://llm.internal"})
	require.NoError(t, err)
	assert.IsType(t, &CustomAdapter{}, client)

	_, err = New(model.LLMConfig{Mode: model.LLMModeLocal})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestListOllamaModels(t *testing.T) {
	srv := newBackend(t, "/api/tags", `{"models":[{"name":"llama3"},{"name":"mistral"},{"name":""}]}`)
	defer srv.Close()

	models, err := ListOllamaModels(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3", "mistral"}, models)
}

func TestListOllamaModelsTransportFailure(t *testing.T) {
	srv := newBackend(t, "/api/tags", `{}`)
	srv.Close()

	_, err := ListOllamaModels(context.Background(), srv.URL)
	require.Error(t, err)
}
