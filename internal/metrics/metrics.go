package metrics

import (
	"time"

	"github.com/shaiso/Conveyor/internal/domain"
)

// JobMetrics — статистика одного job внутри батча.
type JobMetrics struct {
	JobName       string            `json:"job_name"`
	SourceKind    domain.SourceKind `json:"source_kind"`
	Status        domain.JobStatus  `json:"status"`
	StartTime     time.Time         `json:"start_time"`
	EndTime       time.Time         `json:"end_time,omitzero"`
	RowsProcessed int64             `json:"rows_processed"`
	RetryCount    int               `json:"retry_count"`
	ErrorCount    int               `json:"error_count"`
	LastError     string           `json:"last_error,omitempty"`
	Counters      map[string]int64 `json:"counters,omitempty"`
}

// Duration возвращает длительность job; для незавершённого — от старта
// до текущего момента.
func (m *JobMetrics) Duration() time.Duration {
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// Succeeded сообщает, завершился ли job успехом.
func (m *JobMetrics) Succeeded() bool {
	return m.Status == domain.JobStatusSuccess
}

// clone возвращает независимую копию (снимок для читателей).
func (m *JobMetrics) clone() *JobMetrics {
	c := *m
	if m.Counters != nil {
		c.Counters = make(map[string]int64, len(m.Counters))
		for k, v := range m.Counters {
			c.Counters[k] = v
		}
	}
	return &c
}

// Summary — сводка батча по завершённым jobs.
//
// TotalDuration — сумма длительностей jobs (из неё считается
// AvgThroughput); WallDuration — время батча от старта до финиша,
// в параллельном режиме оно меньше суммы.
type Summary struct {
	BatchID        string        `json:"batch_id"`
	TotalJobs      int           `json:"total_jobs"`
	SuccessfulJobs int           `json:"successful_jobs"`
	FailedJobs     int           `json:"failed_jobs"`
	SuccessRate    float64       `json:"success_rate"`
	TotalRows      int64         `json:"total_rows"`
	TotalRetries   int           `json:"total_retries"`
	TotalErrors    int           `json:"total_errors"`
	TotalDuration  time.Duration `json:"total_duration"`
	WallDuration   time.Duration `json:"wall_duration,omitzero"`
	AvgThroughput  float64       `json:"avg_throughput_rows_per_sec"`
	HealthScore    float64       `json:"health_score"`
	Jobs           []*JobMetrics `json:"jobs"`
}
