package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"kb-pipeline/internal/usecase"
)

// Server exposes the LLM state and pipeline use cases over JSON HTTP.
type Server struct {
	llm      *usecase.LLMStateUseCase
	pipeline *usecase.PipelineUseCase
	log      *zerolog.Logger
	server   *http.Server
}

func NewServer(port int, llm *usecase.LLMStateUseCase, pipeline *usecase.PipelineUseCase, logger *zerolog.Logger) *Server {
	s := &Server{llm: llm, pipeline: pipeline, log: logger}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the route tree. Exposed separately so tests can drive the
// handlers without binding a listener.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Route("/api/llm", func(r chi.Router) {
		r.Get("/status", s.llmStatusHandler())
		r.Post("/config", s.llmConfigHandler())
		r.Post("/refresh", s.llmRefreshHandler())
		r.Get("/models", s.llmModelsHandler())
	})
	r.Route("/api/pipeline", func(r chi.Router) {
		r.Post("/run", s.pipelineRunHandler())
		r.Get("/status/{jobID}", s.pipelineStatusHandler())
	})
	r.Get("/health", s.healthHandler())
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// corsMiddleware keeps the dev frontend unblocked; tighten per deployment.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
