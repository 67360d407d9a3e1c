package audit

import (
	"context"
	"sync"
	"time"

	"github.com/shaiso/Conveyor/internal/domain"
)

// Entry — одна запись аудита: итог обработки job внутри батча.
type Entry struct {
	BatchID       string
	JobName       string
	Status        domain.JobStatus
	RowsProcessed int64
	Duration      time.Duration
	PartitionPath string
	Error         string
	Timestamp     time.Time
}

// Recorder — приёмник записей аудита.
type Recorder interface {
	// Record добавляет запись в журнал.
	Record(ctx context.Context, e Entry) error

	// Close освобождает ресурсы приёмника.
	Close() error
}

// Memory — in-memory Recorder для тестов.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemory создаёт пустой in-memory журнал.
func NewMemory() *Memory {
	return &Memory{}
}

// Record добавляет запись в журнал.
func (m *Memory) Record(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

// Entries возвращает копию накопленных записей.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Close не делает ничего.
func (m *Memory) Close() error { return nil }
