package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// BatchFunc — единица работы, запускаемая по расписанию.
type BatchFunc func(ctx context.Context) error

// Scheduler запускает батчи по cron-расписанию.
type Scheduler struct {
	cronExpr string
	timezone string
	logger   *slog.Logger

	// now подменяется в тестах.
	now func() time.Time
}

// Config — конфигурация Scheduler.
type Config struct {
	// CronExpr — стандартное 5-польное cron-выражение.
	CronExpr string

	// Timezone — имя локации (default: UTC).
	Timezone string

	Logger *slog.Logger
}

// New создаёт Scheduler, проверяя выражение заранее.
func New(cfg Config) (*Scheduler, error) {
	if err := ValidateCronExpr(cfg.CronExpr); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		cronExpr: cfg.CronExpr,
		timezone: cfg.Timezone,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Run блокируется и запускает fn при каждом срабатывании расписания,
// пока контекст не отменён. Батчи не перекрываются: следующий тик
// вычисляется после завершения предыдущего запуска.
//
// Ошибка одного запуска логируется и не останавливает цикл.
func (s *Scheduler) Run(ctx context.Context, fn BatchFunc) error {
	for {
		next, err := NextDue(s.cronExpr, s.timezone, s.now())
		if err != nil {
			return fmt.Errorf("compute next run: %w", err)
		}

		wait := next.Sub(s.now())
		s.logger.Info("next scheduled run",
			"cron", s.cronExpr,
			"at", next.Format(time.RFC3339),
			"in", wait.Round(time.Second),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		start := s.now()
		if err := fn(ctx); err != nil {
			s.logger.Error("scheduled run failed",
				"cron", s.cronExpr,
				"duration", s.now().Sub(start).Round(time.Millisecond),
				"error", err,
			)
			continue
		}

		s.logger.Info("scheduled run completed",
			"cron", s.cronExpr,
			"duration", s.now().Sub(start).Round(time.Millisecond),
		)
	}
}
