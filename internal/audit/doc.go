// Package audit ведёт append-only журнал завершённых jobs.
//
// Recorder — интерфейс приёмника записей; реализации: Postgres
// (jackc/pgx), CSV-файл с дневной ротацией и in-memory для тестов.
// Журналирование best-effort: ошибка записи логируется, но не влияет
// на результат батча.
package audit
