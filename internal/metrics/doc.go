// Package metrics собирает пооперационную статистику ingestion-прогонов:
// активные и завершённые jobs, сводку батча и интегральный health score.
//
// Collector — чистый in-memory агрегатор; экспорт наружу (Prometheus,
// audit-журнал, MQ) подключается через Observer-хуки и не влияет на
// учёт: ошибки наблюдателей проглатываются с записью в лог.
package metrics
