package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus метрики ingestion. Регистрируются в default registry,
// отдаются через promhttp на /metrics.
var (
	// JobsTotal — завершённые jobs по терминальному статусу
	// и типу источника.
	JobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conveyor",
		Name:      "jobs_total",
		Help:      "Completed ingestion jobs by terminal status and source kind.",
	}, []string{"status", "source_kind"})

	// RowsProcessedTotal — перенесённые строки по job.
	RowsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conveyor",
		Name:      "rows_processed_total",
		Help:      "Rows transferred per job.",
	}, []string{"job"})

	// JobDuration — длительность jobs в секундах.
	JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "conveyor",
		Name:      "job_duration_seconds",
		Help:      "Job duration from start to terminal status.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14),
	}, []string{"job"})

	// RetriesTotal — retry-попытки по job.
	RetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conveyor",
		Name:      "retries_total",
		Help:      "Retry attempts per job.",
	}, []string{"job"})

	// BreakerState — состояние circuit breaker ресурса:
	// 0 = CLOSED, 1 = HALF_OPEN, 2 = OPEN.
	BreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "conveyor",
		Name:      "breaker_state",
		Help:      "Circuit breaker state per resource (0=closed, 1=half-open, 2=open).",
	}, []string{"resource"})

	// BatchHealthScore — health score последнего завершённого батча.
	BatchHealthScore = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "conveyor",
		Name:      "batch_health_score",
		Help:      "Health score of the most recent batch (0-100).",
	})
)
