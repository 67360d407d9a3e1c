package orchestrator

import "errors"

// Ошибки оркестратора.
var (
	// ErrNoJobs — batch пуст, выполнять нечего.
	ErrNoJobs = errors.New("no jobs to run")

	// ErrNoExecutor — не задан исполнитель переноса.
	ErrNoExecutor = errors.New("transfer executor is not configured")

	// ErrJobPanic — job завершился паникой в пути выполнения.
	ErrJobPanic = errors.New("job panicked")
)
