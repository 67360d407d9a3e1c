package transfer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/secrets"
	"github.com/shaiso/Conveyor/internal/source"
)

// DryRun — исполнитель, проверяющий прокладку без переноса данных.
//
// Строит DSN из разрешённых учётных данных (ловит неполные bundle)
// и возвращает 0 строк. Используется CLI-командой smoke-прогона.
type DryRun struct {
	logger *slog.Logger
}

// NewDryRun создаёт DryRun executor.
func NewDryRun(logger *slog.Logger) *DryRun {
	if logger == nil {
		logger = slog.Default()
	}
	return &DryRun{logger: logger}
}

// Transfer проверяет, что из bundle собирается DSN, и ничего не переносит.
func (d *DryRun) Transfer(_ context.Context, job *domain.Job, src, _ secrets.Bundle) (Result, error) {
	kind, err := source.ForKind(job.SourceKind)
	if err != nil {
		return Result{}, Permanent(err)
	}

	dsn, err := kind.BuildDSN(src)
	if err != nil {
		return Result{}, Permanent(fmt.Errorf("build dsn for %s: %w", job.Name(), err))
	}

	attrs := []any{
		"job", job.Name(),
		"source_kind", job.SourceKind,
		"dsn_built", dsn != "",
	}
	if job.SourceKind == domain.SourceAPI {
		attrs = append(attrs, "endpoint", job.APIEndpoint())
	} else {
		attrs = append(attrs, "chunk_size", source.EffectiveChunkSize(job.ChunkSize))
	}
	d.logger.Info("dry run: connection wiring OK", attrs...)

	return Result{}, nil
}
