package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/shaiso/Conveyor/internal/domain"
)

func TestCollector_JobLifecycle(t *testing.T) {
	c := NewCollector("batch-1", nil)

	c.StartJob("db.orders", domain.SourcePostgres)
	c.UpdateStatus("db.orders", domain.JobStatusExecuting)
	c.AddRows("db.orders", 1500)
	c.AddRetry("db.orders")
	c.AddError("db.orders", errors.New("timeout"))
	c.CompleteJob("db.orders", domain.JobStatusSuccess)

	m := c.Job("db.orders")
	if m == nil {
		t.Fatal("expected job metrics")
	}
	if m.Status != domain.JobStatusSuccess {
		t.Errorf("expected SUCCESS, got %s", m.Status)
	}
	if m.SourceKind != domain.SourcePostgres {
		t.Errorf("expected source kind postgres, got %s", m.SourceKind)
	}
	if m.RowsProcessed != 1500 {
		t.Errorf("expected 1500 rows, got %d", m.RowsProcessed)
	}
	if m.RetryCount != 1 || m.ErrorCount != 1 {
		t.Errorf("expected 1 retry / 1 error, got %d / %d", m.RetryCount, m.ErrorCount)
	}
	if m.LastError != "timeout" {
		t.Errorf("expected last error recorded, got %q", m.LastError)
	}
	if m.EndTime.IsZero() {
		t.Error("expected end time to be set")
	}
}

func TestCollector_AddCounter(t *testing.T) {
	c := NewCollector("batch-1", nil)

	c.StartJob("db.orders", domain.SourcePostgres)
	c.AddCounter("db.orders", "validation_warnings", 1)
	c.AddCounter("db.orders", "validation_warnings", 2)
	c.CompleteJob("db.orders", domain.JobStatusSuccess)

	m := c.Job("db.orders")
	if m.Counters["validation_warnings"] != 3 {
		t.Errorf("expected counter 3, got %d", m.Counters["validation_warnings"])
	}

	// Job возвращает снимок, мутации не влияют на collector
	m.Counters["validation_warnings"] = 99
	if c.Job("db.orders").Counters["validation_warnings"] != 3 {
		t.Error("counters snapshot must be independent")
	}
}

func TestCollector_UnknownJobIgnored(t *testing.T) {
	c := NewCollector("batch-1", nil)

	// Операции над незарегистрированным job не паникуют
	c.AddRows("ghost", 10)
	c.CompleteJob("ghost", domain.JobStatusFailed)

	if m := c.Job("ghost"); m != nil {
		t.Errorf("expected nil for unknown job, got %+v", m)
	}
}

func TestSummary_Counts(t *testing.T) {
	c := NewCollector("batch-1", nil)

	for _, name := range []string{"a.x", "b.y", "c.z"} {
		c.StartJob(name, domain.SourceMSSQL)
	}
	c.AddRows("a.x", 100)
	c.AddRows("b.y", 200)
	c.CompleteJob("a.x", domain.JobStatusSuccess)
	c.CompleteJob("b.y", domain.JobStatusSuccess)
	c.CompleteJob("c.z", domain.JobStatusValidationFailed)

	s := c.Summary()

	if s.TotalJobs != 3 {
		t.Errorf("expected 3 jobs, got %d", s.TotalJobs)
	}
	if s.SuccessfulJobs != 2 || s.FailedJobs != 1 {
		t.Errorf("expected 2/1, got %d/%d", s.SuccessfulJobs, s.FailedJobs)
	}
	if s.TotalRows != 300 {
		t.Errorf("expected 300 rows, got %d", s.TotalRows)
	}
	want := 2.0 / 3.0
	if s.SuccessRate < want-0.001 || s.SuccessRate > want+0.001 {
		t.Errorf("expected success rate %.3f, got %.3f", want, s.SuccessRate)
	}
}

func TestHealthScore_EmptyBatchIsHealthy(t *testing.T) {
	s := &Summary{}
	if score := healthScore(s, DefaultHealthPolicy()); score != 100 {
		t.Errorf("expected 100 for empty batch, got %.1f", score)
	}
}

func TestHealthScore_PerfectBatch(t *testing.T) {
	s := &Summary{
		TotalJobs:      10,
		SuccessfulJobs: 10,
		SuccessRate:    1.0,
	}
	if score := healthScore(s, DefaultHealthPolicy()); score != 100 {
		t.Errorf("expected 100, got %.1f", score)
	}
}

func TestHealthScore_PartialSuccess(t *testing.T) {
	// 8/10 успехов, без retry и ошибок:
	// 0.8*60 + 20 + 20 = 88
	s := &Summary{
		TotalJobs:      10,
		SuccessfulJobs: 8,
		FailedJobs:     2,
		SuccessRate:    0.8,
	}
	if score := healthScore(s, DefaultHealthPolicy()); score != 88 {
		t.Errorf("expected 88, got %.1f", score)
	}
}

func TestHealthScore_RetriesPenalizeTotals(t *testing.T) {
	// Штрафуется суммарное число retry, без усреднения на jobs:
	// 1.0*60 + max(0, 20-2*20) + 20 = 80
	s := &Summary{
		TotalJobs:      10,
		SuccessfulJobs: 10,
		SuccessRate:    1.0,
		TotalRetries:   20,
	}
	if score := healthScore(s, DefaultHealthPolicy()); score != 80 {
		t.Errorf("expected 80, got %.1f", score)
	}
}

func TestHealthScore_PenaltiesClampAtZero(t *testing.T) {
	// Очень много retry и ошибок: компоненты не уходят в минус
	s := &Summary{
		TotalJobs:    2,
		SuccessRate:  0,
		TotalRetries: 100,
		TotalErrors:  100,
	}
	if score := healthScore(s, DefaultHealthPolicy()); score != 0 {
		t.Errorf("expected 0, got %.1f", score)
	}
}

func TestHealthScore_CustomPolicy(t *testing.T) {
	s := &Summary{
		TotalJobs:      4,
		SuccessfulJobs: 4,
		SuccessRate:    1.0,
		TotalRetries:   1,
	}
	policy := HealthPolicy{
		SuccessWeight: 50,
		RetryWeight:   30,
		RetryPenalty:  10,
		ErrorWeight:   20,
		ErrorPenalty:  5,
	}
	// 50 + (30-10*1) + 20 = 90
	if score := healthScore(s, policy); score != 90 {
		t.Errorf("expected 90, got %.1f", score)
	}
}

// panicObserver всегда паникует — для проверки изоляции.
type panicObserver struct{}

func (panicObserver) JobStarted(*JobMetrics)   { panic("observer boom") }
func (panicObserver) JobCompleted(*JobMetrics) { panic("observer boom") }

func TestCollector_ObserverPanicIsolated(t *testing.T) {
	c := NewCollector("batch-1", nil, panicObserver{})

	c.StartJob("a.x", domain.SourceAPI)
	c.CompleteJob("a.x", domain.JobStatusSuccess)

	// Учёт не пострадал от паникующего наблюдателя
	s := c.Summary()
	if s.TotalJobs != 1 || s.SuccessfulJobs != 1 {
		t.Errorf("expected 1/1, got %d/%d", s.TotalJobs, s.SuccessfulJobs)
	}
}

func TestJobMetrics_Duration(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := &JobMetrics{
		StartTime: start,
		EndTime:   start.Add(90 * time.Second),
	}
	if d := m.Duration(); d != 90*time.Second {
		t.Errorf("expected 90s, got %v", d)
	}
}
