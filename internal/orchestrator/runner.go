package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

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

// runJob проводит один job через машину статусов до терминального.
// Паника в любом месте пути переводится в статус ERROR и не
// распространяется на batch.
func (o *Orchestrator) runJob(ctx context.Context, job *domain.Job, dest secrets.Bundle, collector *metrics.Collector, opts Options) {
	name := job.Name()
	logger := telemetry.WithSource(
		telemetry.WithJob(telemetry.WithBatchID(o.logger, collector.BatchID()), name),
		job.SourceName,
	).With("source_kind", job.SourceKind, "load_mode", job.LoadMode)

	collector.StartJob(name, job.SourceKind)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrJobPanic, r)
			logger.Error("job panicked", "panic", r)
			collector.AddError(name, err)
			o.finishJob(ctx, job, collector, domain.JobStatusError, err, "", logger)
		}
	}()

	// 1. Валидация.
	if !opts.SkipValidation && o.validator != nil {
		collector.UpdateStatus(name, domain.JobStatusValidating)
		results := o.validator.Validate(job)
		if fatal, ok := validate.FirstFatal(results); ok {
			err := fmt.Errorf("validation failed: %s", fatal.Message)
			logger.Warn("job validation failed",
				"message", fatal.Message,
				"severity", fatal.Severity,
			)
			collector.AddError(name, err)
			o.finishJob(ctx, job, collector, domain.JobStatusValidationFailed, err, "", logger)
			return
		}
		for _, r := range results {
			if !r.Passed {
				logger.Warn("job validation warning", "message", r.Message)
				collector.AddCounter(name, "validation_warnings", 1)
			}
		}
	}

	// 2. Учётные данные источника.
	collector.UpdateStatus(name, domain.JobStatusResolvingCredentials)
	src, err := o.resolver.ResolveSource(ctx, job.SourceName)
	if err != nil {
		logger.Warn("source credentials unavailable", "error", err)
		collector.AddError(name, err)
		o.finishJob(ctx, job, collector, domain.JobStatusSecretsInvalid, err, "", logger)
		return
	}

	// 3. Перенос с retry и circuit breaker.
	collector.UpdateStatus(name, domain.JobStatusExecuting)

	breaker := o.breakers.Get(job.SourceName, breakerConfigFor(job.SourceKind))
	retrier := fault.NewRetrier(o.retryPolicy(job.SourceKind), breaker, logger)
	retrier.OnAttempt = func(a fault.Attempt) {
		collector.AddRetry(name)
		collector.AddError(name, a.Err)
	}

	var res transfer.Result
	err = retrier.Execute(ctx, name, func(ctx context.Context) error {
		r, err := o.executor.Transfer(ctx, job, src, dest)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		logger.Error("job transfer failed", "error", err)
		collector.AddError(name, err)
		o.finishJob(ctx, job, collector, domain.JobStatusFailed, err, "", logger)
		return
	}

	collector.AddRows(name, res.Rows)
	o.finishJob(ctx, job, collector, domain.JobStatusSuccess, nil, res.PartitionPath, logger)
}

// finishJob фиксирует терминальный статус и рассылает итог
// в audit-журнал и MQ (best-effort).
func (o *Orchestrator) finishJob(ctx context.Context, job *domain.Job, collector *metrics.Collector, status domain.JobStatus, jobErr error, partition string, logger *slog.Logger) {
	name := job.Name()
	collector.CompleteJob(name, status)

	m := collector.Job(name)
	if m == nil {
		return
	}

	errText := ""
	if jobErr != nil {
		errText = jobErr.Error()
	}

	if o.recorder != nil {
		entry := audit.Entry{
			BatchID:       collector.BatchID(),
			JobName:       name,
			Status:        status,
			RowsProcessed: m.RowsProcessed,
			PartitionPath: partition,
			Duration:      m.Duration(),
			Error:         errText,
			Timestamp:     time.Now(),
		}
		if err := o.recorder.Record(ctx, entry); err != nil {
			logger.Warn("failed to record audit entry", "error", err)
		}
	}

	if o.publisher != nil {
		payload := mq.JobCompletedPayload{
			BatchID:       collector.BatchID(),
			JobName:       name,
			Status:        string(status),
			RowsProcessed: m.RowsProcessed,
			RetryCount:    m.RetryCount,
			ErrorCount:    m.ErrorCount,
			DurationMS:    m.Duration().Milliseconds(),
			Error:         errText,
		}
		if err := o.publisher.PublishJobCompleted(ctx, payload); err != nil {
			logger.Warn("failed to publish job.completed", "error", err)
		}
	}
}

// breakerConfigFor подбирает пороги breaker по типу источника.
func breakerConfigFor(kind domain.SourceKind) fault.BreakerConfig {
	if kind.IsDatabase() {
		return fault.DatabaseBreakerConfig()
	}
	return fault.APIBreakerConfig()
}

// retryConfigFor подбирает retry-политику по типу источника.
func retryConfigFor(kind domain.SourceKind) fault.RetryConfig {
	if kind.IsDatabase() {
		return fault.DatabaseRetryConfig()
	}
	return fault.APIRetryConfig()
}
