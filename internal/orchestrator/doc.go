// Package orchestrator управляет выполнением ingestion-батчей.
//
// Orchestrator отвечает за:
//   - Пре-флайт валидацию конфигурации jobs
//   - Разрешение учётных данных destination (фатально при ошибке)
//   - Проведение каждого job через машину статусов
//     PENDING → VALIDATING → RESOLVING_CREDENTIALS → EXECUTING → терминал
//   - Retry с exponential backoff и circuit breaker по источникам
//   - Сбор метрик, audit-журнал и публикацию событий в MQ
//
// Падение одного job не прерывает batch: каждый job получает
// терминальный статус, итог подводится в сводке.
package orchestrator
