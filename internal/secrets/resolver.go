package secrets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Resolver разрешает учётные данные из упорядоченной цепочки backends.
type Resolver struct {
	backends []Backend
	logger   *slog.Logger
}

// NewResolver создаёт Resolver с явным списком backends (в порядке приоритета).
func NewResolver(logger *slog.Logger, backends ...Backend) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		backends: backends,
		logger:   logger,
	}
}

// NewDefaultResolver собирает стандартную цепочку backends:
// mount → vault (если задан VAULT_ADDR) → env → файл секретов.
//
// Отсутствие mount-каталога или VAULT_ADDR — не ошибка, backend
// просто не включается в цепочку.
func NewDefaultResolver(logger *slog.Logger) (*Resolver, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var backends []Backend

	if mount, ok := DetectMount(logger); ok {
		backends = append(backends, mount)
	}

	if os.Getenv("VAULT_ADDR") != "" {
		vault, err := NewVaultBackend(logger)
		if err != nil {
			// Недоступный vault — fallback на остальную цепочку.
			logger.Warn("vault init failed, falling back", "error", err)
		} else {
			backends = append(backends, vault)
		}
	}

	backends = append(backends,
		NewEnvBackend(),
		NewFileBackend(secretsFilePath(), logger),
	)

	return NewResolver(logger, backends...), nil
}

// ResolveSource разрешает учётные данные источника по имени.
//
// Backends опрашиваются по порядку; первый заполненный bundle
// выигрывает. Ошибка backend логируется и не прерывает цепочку.
func (r *Resolver) ResolveSource(ctx context.Context, name string) (Bundle, error) {
	return r.resolve(ctx, name)
}

// ResolveDestination разрешает учётные данные destination.
//
// В отличие от источников, destination обязателен: ошибка разрешения
// фатальна для всего запуска. Backends с вложенной формой хранения
// (секция "credentials" в файле секретов) отдают bundle уже
// сплющенным, вызывающим форма хранения не видна.
func (r *Resolver) ResolveDestination(ctx context.Context, name string) (Bundle, error) {
	bundle, err := r.resolve(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDestinationConfig, name)
	}
	return bundle, nil
}

func (r *Resolver) resolve(ctx context.Context, name string) (Bundle, error) {
	for _, b := range r.backends {
		bundle, err := b.TryResolve(ctx, name)
		if err != nil {
			r.logger.Warn("secret backend lookup failed, trying next",
				"backend", b.Name(),
				"name", name,
				"error", err,
			)
			continue
		}
		if len(bundle) > 0 {
			r.logger.Debug("credentials resolved",
				"backend", b.Name(),
				"name", name,
			)
			return bundle, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// secretsFilePath возвращает путь к файлу секретов.
func secretsFilePath() string {
	if path := os.Getenv("CONVEYOR_SECRETS_FILE"); path != "" {
		return path
	}
	return "config/secrets.yml"
}
