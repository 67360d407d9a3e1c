package metrics

import (
	"log/slog"
	"sync"
	"time"

	"github.com/shaiso/Conveyor/internal/domain"
)

// Observer получает уведомления о жизненном цикле jobs.
// Реализации не должны блокировать надолго; ошибки/паники наблюдателя
// не влияют на учёт.
type Observer interface {
	// JobStarted вызывается при регистрации job в коллекторе.
	JobStarted(m *JobMetrics)

	// JobCompleted вызывается при переводе job в терминальный статус.
	JobCompleted(m *JobMetrics)
}

// Collector — потокобезопасный агрегатор метрик одного батча.
type Collector struct {
	batchID   string
	logger    *slog.Logger
	observers []Observer

	mu        sync.Mutex
	active    map[string]*JobMetrics
	completed []*JobMetrics

	// now подменяется в тестах.
	now func() time.Time
}

// NewCollector создаёт Collector для батча batchID.
func NewCollector(batchID string, logger *slog.Logger, observers ...Observer) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		batchID:   batchID,
		logger:    logger,
		observers: observers,
		active:    make(map[string]*JobMetrics),
		now:       time.Now,
	}
}

// BatchID возвращает идентификатор батча.
func (c *Collector) BatchID() string { return c.batchID }

// StartJob регистрирует начало обработки job с типом его источника.
func (c *Collector) StartJob(name string, kind domain.SourceKind) {
	c.mu.Lock()
	m := &JobMetrics{
		JobName:    name,
		SourceKind: kind,
		Status:     domain.JobStatusPending,
		StartTime:  c.now(),
	}
	c.active[name] = m
	snapshot := m.clone()
	c.mu.Unlock()

	c.notify(func(o Observer) { o.JobStarted(snapshot) })
}

// UpdateStatus переводит активный job в статус status.
func (c *Collector) UpdateStatus(name string, status domain.JobStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.active[name]; ok {
		m.Status = status
	}
}

// AddRows прибавляет rows к счётчику обработанных строк job.
func (c *Collector) AddRows(name string, rows int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.active[name]; ok {
		m.RowsProcessed += rows
	}
}

// AddRetry фиксирует одну retry-попытку job.
func (c *Collector) AddRetry(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.active[name]; ok {
		m.RetryCount++
	}
}

// AddError фиксирует одну ошибку job (и её текст как последнюю).
func (c *Collector) AddError(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.active[name]; ok {
		m.ErrorCount++
		if err != nil {
			m.LastError = err.Error()
		}
	}
}

// AddCounter прибавляет delta к произвольному именованному счётчику job.
func (c *Collector) AddCounter(name, counter string, delta int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.active[name]; ok {
		if m.Counters == nil {
			m.Counters = make(map[string]int64)
		}
		m.Counters[counter] += delta
	}
}

// CompleteJob переводит job в терминальный статус и фиксирует время
// окончания. Job перемещается из активных в завершённые.
func (c *Collector) CompleteJob(name string, status domain.JobStatus) {
	c.mu.Lock()
	m, ok := c.active[name]
	if !ok {
		c.mu.Unlock()
		c.logger.Warn("complete for unknown job", "batch_id", c.batchID, "job", name)
		return
	}
	delete(c.active, name)
	m.Status = status
	m.EndTime = c.now()
	c.completed = append(c.completed, m)
	snapshot := m.clone()
	c.mu.Unlock()

	c.logger.Info("job completed",
		"batch_id", c.batchID,
		"job", name,
		"status", status,
		"rows", snapshot.RowsProcessed,
		"retries", snapshot.RetryCount,
		"errors", snapshot.ErrorCount,
		"duration", snapshot.Duration().Round(time.Millisecond),
	)

	c.notify(func(o Observer) { o.JobCompleted(snapshot) })
}

// Job возвращает снимок метрик job (активного или завершённого)
// либо nil, если job коллектору неизвестен.
func (c *Collector) Job(name string) *JobMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.active[name]; ok {
		return m.clone()
	}
	for _, m := range c.completed {
		if m.JobName == name {
			return m.clone()
		}
	}
	return nil
}

// Summary строит сводку батча по завершённым jobs.
func (c *Collector) Summary() *Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &Summary{
		BatchID:   c.batchID,
		TotalJobs: len(c.completed),
		Jobs:      make([]*JobMetrics, 0, len(c.completed)),
	}

	for _, m := range c.completed {
		s.Jobs = append(s.Jobs, m.clone())
		s.TotalRows += m.RowsProcessed
		s.TotalRetries += m.RetryCount
		s.TotalErrors += m.ErrorCount
		s.TotalDuration += m.Duration()
		if m.Succeeded() {
			s.SuccessfulJobs++
		} else {
			s.FailedJobs++
		}
	}

	if s.TotalJobs > 0 {
		s.SuccessRate = float64(s.SuccessfulJobs) / float64(s.TotalJobs)
	}
	if secs := s.TotalDuration.Seconds(); secs > 0 {
		s.AvgThroughput = float64(s.TotalRows) / secs
	}
	s.HealthScore = healthScore(s, DefaultHealthPolicy())

	return s
}

// HealthScore считает интегральную оценку здоровья батча
// по заданной политике.
func (c *Collector) HealthScore(policy HealthPolicy) float64 {
	return healthScore(c.Summary(), policy)
}

// notify рассылает событие наблюдателям, изолируя их паники.
func (c *Collector) notify(fn func(Observer)) {
	for _, o := range c.observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error("metrics observer panic",
						"batch_id", c.batchID, "panic", r)
				}
			}()
			fn(o)
		}()
	}
}
