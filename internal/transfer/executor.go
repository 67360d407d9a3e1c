package transfer

import (
	"context"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/secrets"
)

// Result — итог одного переноса.
type Result struct {
	// Rows — количество перенесённых строк.
	Rows int64

	// PartitionPath — путь партиции, записанной в destination
	// (пусто, если исполнитель его не сообщает). Попадает
	// в audit-журнал.
	PartitionPath string
}

// Executor — внешний исполнитель переноса данных.
//
// Один вызов на job. Ошибки должны быть обёрнуты в Transient
// (retryable) или Permanent: необёрнутые ошибки считаются permanent
// и не ретраятся.
//
// Таймаут отдельного вызова — ответственность реализации
// (через переданный ctx).
type Executor interface {
	Transfer(ctx context.Context, job *domain.Job, source, dest secrets.Bundle) (Result, error)
}

// Func — адаптер для использования функции как Executor.
type Func func(ctx context.Context, job *domain.Job, source, dest secrets.Bundle) (Result, error)

// Transfer вызывает f.
func (f Func) Transfer(ctx context.Context, job *domain.Job, source, dest secrets.Bundle) (Result, error) {
	return f(ctx, job, source, dest)
}
