package fault

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/shaiso/Conveyor/internal/transfer"
)

// minDelay — нижняя граница паузы между попытками после jitter.
const minDelay = 100 * time.Millisecond

// RetryConfig — политика повторов.
type RetryConfig struct {
	// MaxRetries — общее число попыток, включая первую.
	MaxRetries int

	// InitialDelay — пауза перед второй попыткой.
	InitialDelay time.Duration

	// MaxDelay — потолок паузы.
	MaxDelay time.Duration

	// Base — основание экспоненты backoff.
	Base float64

	// Jitter — доля случайного разброса паузы (0.2 = ±20%).
	Jitter float64

	// Retryable решает, ретраить ли ошибку.
	// По умолчанию — transfer.IsTransient.
	Retryable func(error) bool
}

// DatabaseRetryConfig — политика повторов для реляционных источников.
func DatabaseRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		InitialDelay: 2 * time.Second,
		MaxDelay:     30 * time.Second,
		Base:         2.0,
		Jitter:       0.2,
	}
}

// APIRetryConfig — политика повторов для API-источников.
func APIRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   5,
		InitialDelay: 1 * time.Second,
		MaxDelay:     60 * time.Second,
		Base:         2.0,
		Jitter:       0.3,
	}
}

// Attempt — результат одной попытки (для метрик вызывающего).
type Attempt struct {
	Number int
	Err    error
	Delay  time.Duration
}

// Retrier выполняет единицу работы с экспоненциальным backoff,
// согласуя каждую попытку с circuit breaker ресурса.
//
// Открытый breaker прекращает выполнение немедленно, не расходуя
// retry-бюджет: ErrCircuitOpen возвращается без пауз и повторов.
type Retrier struct {
	config  RetryConfig
	breaker *Breaker
	logger  *slog.Logger

	// OnAttempt вызывается после каждой неуспешной попытки,
	// до паузы. Необязателен.
	OnAttempt func(Attempt)
}

// NewRetrier создаёт Retrier. breaker может быть nil —
// тогда попытки не согласуются с breaker.
func NewRetrier(config RetryConfig, breaker *Breaker, logger *slog.Logger) *Retrier {
	if config.Base <= 1 {
		config.Base = 2.0
	}
	if config.Retryable == nil {
		config.Retryable = transfer.IsTransient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retrier{
		config:  config,
		breaker: breaker,
		logger:  logger,
	}
}

// Execute выполняет fn до первого успеха, исчерпания бюджета повторов
// или открытия breaker. Результат каждой попытки фиксируется на breaker.
func (r *Retrier) Execute(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxRetries; attempt++ {
		if r.breaker != nil && !r.breaker.AllowRequest() {
			return fmt.Errorf("%w: resource %s", ErrCircuitOpen, r.breaker.Name())
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			if r.breaker != nil {
				r.breaker.RecordSuccess()
			}
			return nil
		}

		if r.breaker != nil {
			r.breaker.RecordFailure()
		}

		if !r.config.Retryable(lastErr) {
			r.logger.Warn("non-retryable error, giving up",
				"operation", name,
				"attempt", attempt,
				"error", lastErr,
			)
			return lastErr
		}

		if attempt == r.config.MaxRetries {
			break
		}

		delay := r.delay(attempt)
		if r.OnAttempt != nil {
			r.OnAttempt(Attempt{Number: attempt, Err: lastErr, Delay: delay})
		}

		r.logger.Warn("attempt failed, retrying",
			"operation", name,
			"attempt", attempt,
			"max_retries", r.config.MaxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("%w: %s after %d attempts: %v",
		ErrRetriesExhausted, name, r.config.MaxRetries, lastErr)
}

// delay считает паузу перед попыткой attempt+1:
// min(MaxDelay, InitialDelay*Base^(attempt-1)), возмущённую
// равномерным jitter ±Jitter, но не меньше minDelay.
func (r *Retrier) delay(attempt int) time.Duration {
	base := float64(r.config.InitialDelay) * math.Pow(r.config.Base, float64(attempt-1))
	if max := float64(r.config.MaxDelay); r.config.MaxDelay > 0 && base > max {
		base = max
	}

	if r.config.Jitter > 0 {
		spread := base * r.config.Jitter
		base += (rand.Float64()*2 - 1) * spread
	}

	d := time.Duration(base)
	if d < minDelay {
		d = minDelay
	}
	return d
}
