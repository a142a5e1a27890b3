// File: internal/usecase/pipeline_uc.go
package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"kb-pipeline/internal/domain"
	"kb-pipeline/internal/domain/model"
	"kb-pipeline/internal/infra/ingest"
	"kb-pipeline/internal/infra/metrics"
	"kb-pipeline/internal/infra/store"
	"kb-pipeline/internal/infra/worker"
)

// PipelineUseCase owns the in-memory job registry and executes pipeline
// runs on the worker pool. Each job is mutated only by its own background
// task; the registry map itself is guarded for concurrent status reads.
//
// Completed jobs are never evicted in this version; the registry grows
// without bound for the lifetime of the process.
type PipelineUseCase struct {
	mu   sync.RWMutex
	jobs map[string]*model.PipelineJob

	llm           *LLMStateUseCase
	loader        *ingest.Loader
	artifacts     store.ArtifactStore // optional; nil disables persistence
	pool          *worker.Pool
	maxChunkChars int
	log           *zerolog.Logger
}

func NewPipelineUseCase(
	llm *LLMStateUseCase,
	loader *ingest.Loader,
	artifacts store.ArtifactStore,
	pool *worker.Pool,
	maxChunkChars int,
	logger *zerolog.Logger,
) *PipelineUseCase {
	return &PipelineUseCase{
		jobs:          make(map[string]*model.PipelineJob),
		llm:           llm,
		loader:        loader,
		artifacts:     artifacts,
		pool:          pool,
		maxChunkChars: maxChunkChars,
		log:           logger,
	}
}

// Run creates a pending job and schedules its execution on the pool.
// The returned snapshot is the job's initial status record; callers poll
// Status for completion.
func (p *PipelineUseCase) Run(inputPath, indexingMethod string) (model.PipelineJob, error) {
	if indexingMethod == "" {
		indexingMethod = "standard"
	}

	job := &model.PipelineJob{
		JobID:     uuid.NewString(),
		Status:    model.JobPending,
		Stage:     "queued",
		Message:   "Job queued",
		StartedAt: time.Now(),
	}
	p.mu.Lock()
	p.jobs[job.JobID] = job
	snapshot := *job
	p.mu.Unlock()

	jobID := job.JobID
	if err := p.pool.Submit(func() { p.execute(jobID, inputPath, indexingMethod) }); err != nil {
		// Walk the same pending -> running -> failed path the executor
		// would, so pollers never observe a skipped state.
		now := time.Now()
		p.update(jobID, func(j *model.PipelineJob) {
			j.Status = model.JobRunning
			j.Stage = "initializing"
			j.Progress = 0.01
			j.Message = "Starting pipeline for " + inputPath
		})
		p.update(jobID, func(j *model.PipelineJob) {
			j.Status = model.JobFailed
			j.Stage = "error"
			j.Message = fmt.Sprintf("failed to schedule job: %v", err)
			j.FinishedAt = &now
		})
		metrics.IncJob("failed")
		return p.Status(jobID)
	}
	return snapshot, nil
}

// Status returns a copy of the job's current status record.
func (p *PipelineUseCase) Status(jobID string) (model.PipelineJob, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	job, ok := p.jobs[jobID]
	if !ok {
		return model.PipelineJob{}, fmt.Errorf("%w: job %s", domain.ErrNotFound, jobID)
	}
	return *job, nil
}

// update applies fn to the job under the registry lock. Terminal jobs are
// immutable; late updates against them are dropped.
func (p *PipelineUseCase) update(jobID string, fn func(*model.PipelineJob)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	job, ok := p.jobs[jobID]
	if !ok || job.Status.Terminal() {
		return
	}
	fn(job)
}

func (p *PipelineUseCase) execute(jobID, inputPath, indexingMethod string) {
	p.update(jobID, func(j *model.PipelineJob) {
		j.Status = model.JobRunning
		j.Stage = "initializing"
		j.Progress = 0.01
		j.Message = "Starting pipeline for " + inputPath
	})

	llmCfg := p.llm.Config()
	p.log.Info().
		Str("job_id", jobID).
		Str("llm_mode", string(llmCfg.Mode)).
		Str("llm_model", llmCfg.ModelName).
		Msg("pipeline job started")

	err := p.buildKnowledgeBase(jobID, inputPath, indexingMethod, llmCfg)
	now := time.Now()
	if err != nil {
		metrics.IncJob("failed")
		p.log.Error().Err(err).Str("job_id", jobID).Msg("pipeline job failed")
		p.update(jobID, func(j *model.PipelineJob) {
			j.Status = model.JobFailed
			j.Stage = "error"
			j.Message = err.Error()
			j.FinishedAt = &now
		})
		return
	}

	metrics.IncJob("completed")
	p.update(jobID, func(j *model.PipelineJob) {
		j.Status = model.JobCompleted
		j.Stage = "completed"
		j.Progress = 1.0
		j.Message = "Pipeline completed successfully"
		j.FinishedAt = &now
	})
}

// buildKnowledgeBase advances through the fixed stage order, reporting
// progress after each stage. Only ingestion does real work today; the
// remaining stages are instrumented placeholders so the job's observable
// shape is already stable when real logic replaces them.
func (p *PipelineUseCase) buildKnowledgeBase(jobID, inputDir, indexingMethod string, llmCfg model.LLMConfig) error {
	// No mid-pipeline cancellation exists; a job runs to completion or failure.
	ctx := context.Background()

	update := func(stage string, progress float64, message string) {
		p.log.Info().
			Str("job_id", jobID).
			Str("stage", stage).
			Float64("progress", progress).
			Msg(message)
		p.update(jobID, func(j *model.PipelineJob) {
			j.Stage = stage
			j.Progress = progress
			j.Message = message
		})
	}

	stageStart := time.Now()
	docs, err := p.loader.Load(inputDir)
	if err != nil {
		return err
	}
	metrics.ObserveStage("load_documents", time.Since(stageStart))
	update("load_documents", 0.2, fmt.Sprintf("Loaded %d documents from %s", len(docs), inputDir))

	stageStart = time.Now()
	units, err := ingest.Compose(docs, p.maxChunkChars)
	if err != nil {
		return err
	}
	metrics.ObserveStage("compose_text_units", time.Since(stageStart))
	update("compose_text_units", 0.3, fmt.Sprintf("Composed %d text units", len(units)))

	update("extract_graph", 0.5, fmt.Sprintf("Extracting entities/relationships (method=%s, llm=%s)", indexingMethod, llmCfg.ModelName))
	update("detect_communities", 0.7, "Detecting communities")
	update("summarize_communities", 0.85, "Generating community reports")

	stageStart = time.Now()
	if p.artifacts != nil {
		if err := p.artifacts.SaveRun(ctx, jobID, docs, units); err != nil {
			return fmt.Errorf("store artifacts: %w", err)
		}
	}
	metrics.ObserveStage("embed_and_store", time.Since(stageStart))
	update("embed_and_store", 0.95, "Generating embeddings and storing artifacts")

	update("finalizing", 0.99, "Finalizing pipeline")
	return nil
}
