package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/audit"
	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/fault"
	"github.com/shaiso/Conveyor/internal/metrics"
	"github.com/shaiso/Conveyor/internal/mq"
	"github.com/shaiso/Conveyor/internal/secrets"
	"github.com/shaiso/Conveyor/internal/telemetry"
	"github.com/shaiso/Conveyor/internal/transfer"
	"github.com/shaiso/Conveyor/internal/validate"
)

// Default configuration values.
const (
	defaultMaxWorkers      = 3
	defaultDestinationName = "destination"
)

// Orchestrator проводит batch jobs от валидации до терминального статуса.
type Orchestrator struct {
	validator *validate.Validator
	resolver  *secrets.Resolver
	executor  transfer.Executor
	breakers  *fault.Registry

	// Опциональные приёмники. nil — соответствующий канал выключен.
	recorder  audit.Recorder
	publisher *mq.Publisher

	observers       []metrics.Observer
	destinationName string
	retryPolicy     func(domain.SourceKind) fault.RetryConfig
	logger          *slog.Logger
}

// Config — конфигурация Orchestrator.
type Config struct {
	// Validator — валидатор конфигурации jobs (обязателен).
	Validator *validate.Validator

	// Resolver — цепочка разрешения учётных данных (обязателен).
	Resolver *secrets.Resolver

	// Executor — исполнитель переноса данных (обязателен).
	Executor transfer.Executor

	// Breakers — реестр circuit breakers. nil — создаётся свой.
	Breakers *fault.Registry

	// Recorder — audit-журнал (опционален).
	Recorder audit.Recorder

	// Publisher — публикация событий в RabbitMQ (опционален).
	Publisher *mq.Publisher

	// Observers — наблюдатели метрик (Prometheus и т.п.).
	Observers []metrics.Observer

	// DestinationName — имя destination в хранилище секретов
	// (default: "destination").
	DestinationName string

	// RetryPolicy переопределяет retry-конфигурацию по типу источника.
	// nil — стандартные политики БД/API.
	RetryPolicy func(domain.SourceKind) fault.RetryConfig

	// Logger
	Logger *slog.Logger
}

// Options — параметры одного запуска batch.
type Options struct {
	// Parallel — выполнять jobs в пуле воркеров вместо
	// последовательного прохода.
	Parallel bool

	// MaxWorkers — размер пула для Parallel (default: 3).
	MaxWorkers int

	// SkipValidation — пропустить повторную валидацию jobs
	// (если вызывающий уже отфильтровал невалидные).
	SkipValidation bool
}

// New создаёт новый Orchestrator.
func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	breakers := cfg.Breakers
	if breakers == nil {
		breakers = fault.NewRegistry(logger)
	}

	destName := cfg.DestinationName
	if destName == "" {
		destName = defaultDestinationName
	}

	retryPolicy := cfg.RetryPolicy
	if retryPolicy == nil {
		retryPolicy = retryConfigFor
	}

	return &Orchestrator{
		validator:       cfg.Validator,
		resolver:        cfg.Resolver,
		executor:        cfg.Executor,
		breakers:        breakers,
		recorder:        cfg.Recorder,
		publisher:       cfg.Publisher,
		observers:       cfg.Observers,
		destinationName: destName,
		retryPolicy:     retryPolicy,
		logger:          logger,
	}
}

// Run выполняет batch jobs и возвращает сводку.
//
// Порядок:
//  1. Разрешение учётных данных destination — ошибка фатальна.
//  2. Пре-флайт валидация всех jobs (только лог; решение о пропуске
//     каждого job принимается в его собственном прогоне).
//  3. Последовательное или параллельное выполнение jobs.
//  4. Сводка, audit и публикация batch.summary.
//
// Ошибки отдельных jobs не прерывают batch и не попадают в err:
// они видны в сводке и терминальных статусах.
func (o *Orchestrator) Run(ctx context.Context, jobs []domain.Job, opts Options) (*metrics.Summary, error) {
	if len(jobs) == 0 {
		return nil, ErrNoJobs
	}
	if o.executor == nil {
		return nil, ErrNoExecutor
	}

	batchID := uuid.New().String()
	logger := telemetry.WithBatchID(o.logger, batchID)
	collector := metrics.NewCollector(batchID, logger, o.observers...)
	start := time.Now()

	logger.Info("batch started",
		"jobs", len(jobs),
		"parallel", opts.Parallel,
	)

	// 1. Destination обязателен: без него ни один job не исполним.
	dest, err := o.resolver.ResolveDestination(ctx, o.destinationName)
	if err != nil {
		logger.Error("destination credentials unavailable, aborting batch", "error", err)
		return nil, err
	}

	// 2. Пре-флайт: общая картина в лог до старта.
	if !opts.SkipValidation && o.validator != nil {
		allValid, results := o.validator.ValidateAll(jobs)
		if !allValid {
			failing := 0
			for _, r := range results {
				if !r.Passed && r.Severity.IsFatal() {
					failing++
					logger.Warn("pre-flight validation failure",
						"message", r.Message,
						"severity", r.Severity,
					)
				}
			}
			logger.Warn("pre-flight validation found failing jobs, they will be skipped",
				"failing_checks", failing,
			)
		}
	}

	// 3. Выполнение.
	if opts.Parallel {
		o.runParallel(ctx, jobs, dest, collector, opts)
	} else {
		for i := range jobs {
			o.runJob(ctx, &jobs[i], dest, collector, opts)
		}
	}

	// 4. Сводка.
	summary := collector.Summary()
	summary.WallDuration = time.Since(start)

	logger.Info("batch completed",
		"total", summary.TotalJobs,
		"successful", summary.SuccessfulJobs,
		"failed", summary.FailedJobs,
		"rows", summary.TotalRows,
		"health_score", summary.HealthScore,
		"wall_duration", summary.WallDuration.Round(time.Millisecond),
	)

	o.publishSummary(ctx, summary, logger)

	return summary, nil
}

// runParallel выполняет jobs в пуле воркеров фиксированного размера.
func (o *Orchestrator) runParallel(ctx context.Context, jobs []domain.Job, dest secrets.Bundle, collector *metrics.Collector, opts Options) {
	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = defaultMaxWorkers
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	jobCh := make(chan *domain.Job)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				o.runJob(ctx, job, dest, collector, opts)
			}
		}()
	}

	for i := range jobs {
		jobCh <- &jobs[i]
	}
	close(jobCh)
	wg.Wait()
}

// publishSummary отправляет сводку батча в MQ (best-effort).
func (o *Orchestrator) publishSummary(ctx context.Context, s *metrics.Summary, logger *slog.Logger) {
	if o.publisher == nil {
		return
	}

	payload := mq.BatchSummaryPayload{
		BatchID:        s.BatchID,
		TotalJobs:      s.TotalJobs,
		SuccessfulJobs: s.SuccessfulJobs,
		FailedJobs:     s.FailedJobs,
		TotalRows:      s.TotalRows,
		HealthScore:    s.HealthScore,
		DurationMS:     s.WallDuration.Milliseconds(),
	}
	if err := o.publisher.PublishBatchSummary(ctx, payload); err != nil {
		logger.Warn("failed to publish batch summary", "error", err)
	}
}

// Breakers возвращает реестр circuit breakers (для экспорта состояний).
func (o *Orchestrator) Breakers() *fault.Registry {
	return o.breakers
}
