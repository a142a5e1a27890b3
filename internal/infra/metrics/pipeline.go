// File: internal/infra/metrics/pipeline.go
package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var registerOnce sync.Once

// MustRegister installs the pipeline collectors on the default Prometheus
// registry. Calling it more than once is a no-op.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			pipelineJobsTotal,
			pipelineStageSeconds,
			documentsLoadedTotal,
			documentsSkippedTotal,
			textUnitsComposedTotal,
		)
	})
}

var (
	pipelineJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_jobs_total",
			Help: "Total number of pipeline jobs finished, labeled by status.",
		},
		[]string{"status"}, // 'completed', 'failed'
	)

	pipelineStageSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_seconds",
			Help:    "Pipeline stage duration distribution in seconds.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"stage"},
	)

	documentsLoadedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_documents_loaded_total",
			Help: "Documents successfully loaded across all runs.",
		},
	)

	documentsSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_documents_skipped_total",
			Help: "Files skipped during ingestion, labeled by reason.",
		},
		[]string{"reason"}, // 'unsupported', 'parse_error', 'empty'
	)

	textUnitsComposedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_text_units_composed_total",
			Help: "Text units composed across all runs.",
		},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncJob(status string) {
	pipelineJobsTotal.WithLabelValues(norm(status)).Inc()
}

func ObserveStage(stage string, d time.Duration) {
	pipelineStageSeconds.WithLabelValues(norm(stage)).Observe(d.Seconds())
}

func AddDocumentsLoaded(n int) {
	documentsLoadedTotal.Add(float64(n))
}

func IncDocumentSkipped(reason string) {
	documentsSkippedTotal.WithLabelValues(norm(reason)).Inc()
}

func AddTextUnits(n int) {
	textUnitsComposedTotal.Add(float64(n))
}
