package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kb-pipeline/internal/domain"
	"kb-pipeline/internal/domain/model"
	llmclient "kb-pipeline/internal/infra/adapters/llm"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"detail": detail})
}

func (s *Server) llmStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.llm.Status())
	}
}

// llmConfigRequest merges onto the current config: omitted fields retain
// their existing values.
type llmConfigRequest struct {
	Mode             *string `json:"mode"`
	BaseURL          *string `json:"base_url"`
	ModelName        *string `json:"model_name"`
	InitializeClient *bool   `json:"initialize_client"`
}

func (s *Server) llmConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req llmConfigRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		cfg := s.llm.Config()
		if req.Mode != nil {
			mode := model.LLMMode(*req.Mode)
			if !mode.Valid() {
				writeError(w, http.StatusBadRequest, "mode must be 'local' or 'custom'")
				return
			}
			cfg.Mode = mode
		}
		if req.BaseURL != nil {
			cfg.BaseURL = *req.BaseURL
		}
		if req.ModelName != nil {
			cfg.ModelName = *req.ModelName
		}
		initialize := true
		if req.InitializeClient != nil {
			initialize = *req.InitializeClient
		}

		ok := s.llm.SetConfig(cfg, initialize)
		status := s.llm.Status()

		// A forced initialization that failed on config shape (missing
		// required fields) is a rejected request; transport-level failures
		// are accepted and reported through the status snapshot.
		if !ok && initialize {
			if err := llmclient.Validate(cfg); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{
					"detail": "failed to initialize LLM client: " + status.LastError,
					"status": status,
				})
				return
			}
		}

		message := "LLM configuration updated"
		if !status.ClientInitialized {
			message = "LLM configuration updated; client not initialized"
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": message,
			"status":  status,
		})
	}
}

func (s *Server) llmRefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ok := s.llm.RefreshClient(); !ok {
			status := s.llm.Status()
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"detail": "failed to initialize LLM client: " + status.LastError,
				"status": status,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "LLM client initialized",
			"status":  s.llm.Status(),
		})
	}
}

func (s *Server) llmModelsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := s.llm.Config()
		if cfg.Mode != model.LLMModeLocal {
			writeError(w, http.StatusBadRequest, "LLM mode is not 'local'")
			return
		}
		if cfg.BaseURL == "" {
			writeError(w, http.StatusBadRequest, "no base_url configured for local backend")
			return
		}

		models, err := llmclient.ListOllamaModels(r.Context(), cfg.BaseURL)
		if err != nil {
			writeError(w, http.StatusBadGateway, "failed to list models: "+err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string][]string{"models": models})
	}
}

type runPipelineRequest struct {
	InputPath      string `json:"input_path"`
	IndexingMethod string `json:"indexing_method"`
}

func (s *Server) pipelineRunHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req runPipelineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.InputPath == "" {
			writeError(w, http.StatusBadRequest, "input_path is required")
			return
		}

		job, err := s.pipeline.Run(req.InputPath, req.IndexingMethod)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to submit pipeline run")
			writeError(w, http.StatusInternalServerError, "failed to submit pipeline run")
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func (s *Server) pipelineStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobID")
		job, err := s.pipeline.Status(jobID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Job not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to read job status")
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"llm":    s.llm.Status(),
		})
	}
}
