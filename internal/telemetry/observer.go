package telemetry

import (
	"github.com/shaiso/Conveyor/internal/metrics"
)

// PromObserver экспортирует события коллектора в Prometheus.
// Реализует metrics.Observer.
type PromObserver struct{}

// JobStarted не делает ничего: Prometheus-счётчики заполняются
// по терминальным статусам.
func (PromObserver) JobStarted(_ *metrics.JobMetrics) {}

// JobCompleted инкрементирует счётчики завершённого job.
func (PromObserver) JobCompleted(m *metrics.JobMetrics) {
	JobsTotal.WithLabelValues(string(m.Status), string(m.SourceKind)).Inc()
	RowsProcessedTotal.WithLabelValues(m.JobName).Add(float64(m.RowsProcessed))
	JobDuration.WithLabelValues(m.JobName).Observe(m.Duration().Seconds())
	if m.RetryCount > 0 {
		RetriesTotal.WithLabelValues(m.JobName).Add(float64(m.RetryCount))
	}
}
