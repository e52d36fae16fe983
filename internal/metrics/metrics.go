// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run instrumentation for:
// - dataset loading (records kept and skipped per dataset)
// - analyzer component durations
// - LLM categorization requests, tokens and circuit breaker state
// - DuckDB export queries

const namespace = "orbitstats"

var (
	// Loader Metrics
	RecordsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_loaded_total",
			Help:      "Total number of records kept after normalization",
		},
		[]string{"dataset"}, // "users", "ideas", "steps", "evaluations"
	)

	RecordsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Total number of records dropped during normalization",
		},
		[]string{"dataset", "reason"},
	)

	// Analysis Metrics
	ComponentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "component_duration_seconds",
			Help:      "Duration of analyzer components in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"component"},
	)

	ComponentErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "component_errors_total",
			Help:      "Total number of analyzer components that failed",
		},
		[]string{"component"},
	)

	AnalysisRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_runs_total",
			Help:      "Total number of pipeline runs",
		},
		[]string{"status"}, // "success", "failure"
	)

	LastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed pipeline run",
		},
	)

	// LLM Categorization Metrics
	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Total number of categorization requests",
		},
		[]string{"status"}, // "success", "retry", "error", "circuit_open"
	)

	LLMTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_total",
			Help:      "Total number of tokens reported by the model",
		},
		[]string{"kind"}, // "input", "output", "total"
	)

	LLMBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_batch_duration_seconds",
			Help:      "Duration of one categorization batch request",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		},
	)

	IdeasCategorized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ideas_categorized_total",
			Help:      "Total number of ideas categorized",
		},
		[]string{"source"}, // "model", "cache"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Export Metrics
	ExportQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_query_duration_seconds",
			Help:      "Duration of DuckDB export statements in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	ExportRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_rows_total",
			Help:      "Total number of rows written to the export store",
		},
		[]string{"table"},
	)
)

// RecordLoad records the outcome of normalizing one dataset.
func RecordLoad(dataset string, kept, skipped int) {
	RecordsLoaded.WithLabelValues(dataset).Add(float64(kept))
	if skipped > 0 {
		RecordsSkipped.WithLabelValues(dataset, "invalid").Add(float64(skipped))
	}
}

// RecordComponent records an analyzer component run
func RecordComponent(component string, duration time.Duration, err error) {
	ComponentDuration.WithLabelValues(component).Observe(duration.Seconds())
	if err != nil {
		ComponentErrors.WithLabelValues(component).Inc()
	}
}

// RecordRun records the completion of a pipeline run.
func RecordRun(err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	AnalysisRuns.WithLabelValues(status).Inc()
	LastRunTimestamp.SetToCurrentTime()
}

// RecordLLMBatch records one categorization request and its token usage.
func RecordLLMBatch(status string, duration time.Duration, inputTokens, outputTokens int32) {
	LLMRequests.WithLabelValues(status).Inc()
	LLMBatchDuration.Observe(duration.Seconds())
	if inputTokens > 0 {
		LLMTokens.WithLabelValues("input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		LLMTokens.WithLabelValues("output").Add(float64(outputTokens))
	}
	if total := inputTokens + outputTokens; total > 0 {
		LLMTokens.WithLabelValues("total").Add(float64(total))
	}
}

// RecordExport records a DuckDB export statement.
func RecordExport(operation, table string, rows int, duration time.Duration) {
	ExportQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if rows > 0 {
		ExportRows.WithLabelValues(table).Add(float64(rows))
	}
}
