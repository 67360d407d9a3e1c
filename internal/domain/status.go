package domain

// JobStatus — статус выполнения job внутри batch.
//
// Жизненный цикл:
//
//	PENDING → VALIDATING → RESOLVING_CREDENTIALS → EXECUTING → SUCCESS
//	              ↘ VALIDATION_FAILED      ↘ SECRETS_INVALID      ↘ FAILED
//	                                                              ↘ ERROR
type JobStatus string

const (
	// JobStatusPending — job загружен, но ещё не обрабатывается.
	JobStatusPending JobStatus = "PENDING"

	// JobStatusValidating — идёт валидация конфигурации.
	JobStatusValidating JobStatus = "VALIDATING"

	// JobStatusValidationFailed — валидация провалена (ERROR/CRITICAL).
	JobStatusValidationFailed JobStatus = "VALIDATION_FAILED"

	// JobStatusResolvingCredentials — идёт разрешение учётных данных источника.
	JobStatusResolvingCredentials JobStatus = "RESOLVING_CREDENTIALS"

	// JobStatusSecretsInvalid — учётные данные источника не найдены или неполны.
	JobStatusSecretsInvalid JobStatus = "SECRETS_INVALID"

	// JobStatusExecuting — выполняется перенос данных.
	JobStatusExecuting JobStatus = "EXECUTING"

	// JobStatusSuccess — job успешно завершён.
	JobStatusSuccess JobStatus = "SUCCESS"

	// JobStatusFailed — перенос завершился ошибкой (после всех retry).
	JobStatusFailed JobStatus = "FAILED"

	// JobStatusError — непредвиденная ошибка вне пути переноса.
	JobStatusError JobStatus = "ERROR"
)

// IsTerminal возвращает true, если статус финальный.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusValidationFailed, JobStatusSecretsInvalid,
		JobStatusSuccess, JobStatusFailed, JobStatusError:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление статуса.
func (s JobStatus) String() string {
	return string(s)
}
