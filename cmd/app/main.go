// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kb-pipeline/internal/config"
	llmclient "kb-pipeline/internal/infra/adapters/llm"
	"kb-pipeline/internal/infra/ingest"
	"kb-pipeline/internal/infra/logging"
	"kb-pipeline/internal/infra/metrics"
	"kb-pipeline/internal/infra/store"
	"kb-pipeline/internal/infra/web"
	"kb-pipeline/internal/infra/worker"
	"kb-pipeline/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log)
	metrics.MustRegister()

	// ---- LLM state ----
	llmState := usecase.NewLLMStateUseCase(cfg.LLM, llmclient.New, logger)
	if ok := llmState.RefreshClient(); !ok {
		// Best effort at startup; the API can reconfigure and refresh later.
		logger.Warn().Msg("LLM client not initialized at startup")
	}

	// ---- Artifact store (optional) ----
	var artifacts store.ArtifactStore
	if cfg.Pipeline.ArtifactDB != "" {
		artifacts, err = store.OpenSQLite(context.Background(), cfg.Pipeline.ArtifactDB)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.Pipeline.ArtifactDB).Msg("open artifact store")
		}
		defer artifacts.Close()
	}

	// ---- Pipeline ----
	pool, err := worker.NewPool(cfg.Pipeline.Workers)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker pool")
	}
	defer pool.Release()

	loader := ingest.NewLoader(logger)
	pipelineUC := usecase.NewPipelineUseCase(llmState, loader, artifacts, pool, cfg.Pipeline.MaxChunkChars, logger)

	// ---- HTTP ----
	server := web.NewServer(cfg.Server.Port, llmState, pipelineUC, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		logger.Error().Err(err).Msg("HTTP server stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
