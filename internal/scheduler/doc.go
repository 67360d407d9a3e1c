// Package scheduler запускает ingestion-батчи по расписанию.
//
// Структура:
//   - cron.go      — парсинг cron-выражений и вычисление следующего времени
//   - scheduler.go — цикл ожидания и запуска батчей
//
// Использование:
//
//	sched, err := scheduler.New(scheduler.Config{
//	    CronExpr: "0 2 * * *",
//	    Logger:   logger,
//	})
//	...
//	sched.Run(ctx, func(ctx context.Context) error {
//	    return runBatch(ctx)
//	})
//
// Scheduler однопроцессный: одновременно выполняется не более одного
// батча, пропущенные во время выполнения тики не накапливаются.
package scheduler
