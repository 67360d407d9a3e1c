// Package mq публикует события ingestion в RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация событий jobs и батчей
//
// Типы сообщений:
//   - job.completed   — job завершён (любой терминальный статус)
//   - batch.summary   — сводка завершённого батча
//
// Exchanges:
//   - conveyor.jobs    — события jobs
//   - conveyor.batches — события батчей
//
// Ядро только публикует; потребители (алёртинг, дашборды) живут
// в отдельных сервисах.
package mq
