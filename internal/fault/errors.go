package fault

import "errors"

// Ошибки пакета.
var (
	// ErrCircuitOpen — ресурс в режиме fail-fast: breaker открыт.
	// Не расходует retry-бюджет.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrRetriesExhausted — все попытки retry исчерпаны.
	ErrRetriesExhausted = errors.New("retry attempts exhausted")
)
