package secrets

import "errors"

// Ошибки разрешения учётных данных.
var (
	// ErrNotFound — учётные данные не найдены ни в одном backend.
	ErrNotFound = errors.New("credentials not found in any backend")

	// ErrDestinationConfig — конфигурация destination отсутствует или неполна.
	// Фатально для всего запуска: без destination ни один job не исполним.
	ErrDestinationConfig = errors.New("destination credentials missing")
)
