// Conveyor Runner — долгоживущий процесс ingestion-батчей.
//
// Runner:
//   - Загружает реестр jobs из YAML
//   - Разрешает учётные данные через цепочку backends
//   - Выполняет batch (однократно или по cron-расписанию)
//   - Пишет audit-журнал в Postgres или CSV
//   - Публикует события jobs и батчей в RabbitMQ
//   - Экспортирует Prometheus метрики на /metrics
//
// Конфигурация через переменные окружения:
//
//	CONVEYOR_JOBS_FILE    путь реестра jobs (default: config/jobs.yml)
//	CONVEYOR_CRON         cron-выражение; пусто — один запуск и выход
//	CONVEYOR_PARALLEL     "true" — выполнять jobs в пуле воркеров
//	CONVEYOR_MAX_WORKERS  размер пула (default: 3)
//	AUDIT_DB_URL          DSN Postgres для audit-журнала
//	AUDIT_DIR             каталог CSV-журнала (fallback без Postgres)
//	RABBITMQ_URL          адрес RabbitMQ (пусто — события не публикуются)
//	RUNNER_PORT           порт HTTP (default: 8080)
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Conveyor/internal/audit"
	"github.com/shaiso/Conveyor/internal/config"
	"github.com/shaiso/Conveyor/internal/fault"
	"github.com/shaiso/Conveyor/internal/metrics"
	"github.com/shaiso/Conveyor/internal/mq"
	"github.com/shaiso/Conveyor/internal/orchestrator"
	"github.com/shaiso/Conveyor/internal/scheduler"
	"github.com/shaiso/Conveyor/internal/secrets"
	"github.com/shaiso/Conveyor/internal/telemetry"
	"github.com/shaiso/Conveyor/internal/transfer"
	"github.com/shaiso/Conveyor/internal/validate"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting conveyor-runner")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Реестр jobs
	jobsPath := config.JobsPath()
	allJobs, err := config.LoadJobs(jobsPath)
	if err != nil {
		logger.Error("failed to load jobs", "path", jobsPath, "error", err)
		os.Exit(1)
	}
	jobs := config.EnabledJobs(allJobs)
	logger.Info("jobs loaded", "path", jobsPath, "total", len(allJobs), "enabled", len(jobs))

	// Цепочка разрешения секретов
	resolver, err := secrets.NewDefaultResolver(logger)
	if err != nil {
		logger.Error("failed to build secret resolver", "error", err)
		os.Exit(1)
	}

	// Audit: Postgres если задан AUDIT_DB_URL, иначе CSV, иначе выключен
	var recorder audit.Recorder
	if os.Getenv("AUDIT_DB_URL") != "" {
		pool, err := audit.NewPool(ctx)
		if err != nil {
			logger.Error("failed to connect to audit database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		recorder = audit.NewPostgres(pool)
		logger.Info("audit database connected")
	} else if dir := os.Getenv("AUDIT_DIR"); dir != "" {
		csvRec, err := audit.NewCSV(dir)
		if err != nil {
			logger.Error("failed to open audit directory", "dir", dir, "error", err)
			os.Exit(1)
		}
		recorder = csvRec
		logger.Info("audit CSV enabled", "dir", dir)
	}
	if recorder != nil {
		defer recorder.Close()
	}

	// RabbitMQ (опционально)
	var publisher *mq.Publisher
	var mqConn *mq.Connection
	if mqURL := os.Getenv("RABBITMQ_URL"); mqURL != "" {
		mqConn, err = mq.NewConnection(mqURL, logger)
		if err != nil {
			logger.Warn("RabbitMQ not available, events disabled", "error", err)
			mqConn = nil
		} else {
			defer mqConn.Close()
			logger.Info("RabbitMQ connected")

			if err := mq.SetupTopology(ctx, mqConn); err != nil {
				logger.Warn("failed to setup topology", "error", err)
			}

			publisher = mq.NewPublisher(mqConn, logger)
		}
	}

	breakers := fault.NewRegistry(logger)

	orch := orchestrator.New(orchestrator.Config{
		Validator: validate.New(),
		Resolver:  resolver,
		// TODO: подключить реальный transfer-движок вместо dry-run,
		// когда он будет вынесен в отдельный пакет.
		Executor:  transfer.NewDryRun(logger),
		Breakers:  breakers,
		Recorder:  recorder,
		Publisher: publisher,
		Observers: []metrics.Observer{telemetry.PromObserver{}},
		Logger:    logger,
	})

	opts := orchestrator.Options{
		Parallel: os.Getenv("CONVEYOR_PARALLEL") == "true",
	}
	if v := os.Getenv("CONVEYOR_MAX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.MaxWorkers = n
		}
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if mqConn != nil && !mqConn.IsConnected() {
			w.Write([]byte("degraded: mq disconnected"))
			return
		}
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8080"
	if v := os.Getenv("RUNNER_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	runBatch := func(ctx context.Context) error {
		summary, err := orch.Run(ctx, jobs, opts)
		if err != nil {
			return err
		}
		telemetry.BatchHealthScore.Set(summary.HealthScore)
		exportBreakerStates(breakers)
		return nil
	}

	if cronExpr := os.Getenv("CONVEYOR_CRON"); cronExpr != "" {
		sched, err := scheduler.New(scheduler.Config{
			CronExpr: cronExpr,
			Timezone: os.Getenv("CONVEYOR_TIMEZONE"),
			Logger:   logger,
		})
		if err != nil {
			logger.Error("invalid schedule", "error", err)
			os.Exit(1)
		}

		if err := sched.Run(ctx, runBatch); err != nil && ctx.Err() == nil {
			logger.Error("scheduler stopped", "error", err)
			os.Exit(1)
		}
	} else {
		if err := runBatch(ctx); err != nil {
			logger.Error("batch failed", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("conveyor-runner stopped")
}

// exportBreakerStates выгружает состояния breakers в Prometheus gauge.
func exportBreakerStates(breakers *fault.Registry) {
	for name, state := range breakers.States() {
		var v float64
		switch state {
		case fault.StateHalfOpen:
			v = 1
		case fault.StateOpen:
			v = 2
		}
		telemetry.BreakerState.WithLabelValues(name).Set(v)
	}
}
