package source

import (
	"errors"
	"fmt"

	"github.com/shaiso/Conveyor/internal/domain"
)

// Ошибки пакета.
var (
	// ErrUnknownKind — тип источника не входит в перечисление.
	ErrUnknownKind = errors.New("unknown source kind")

	// ErrMissingCredential — в bundle нет обязательного ключа.
	ErrMissingCredential = errors.New("missing credential key")
)

// DefaultChunkSize — размер чанка по умолчанию.
const DefaultChunkSize = 100_000

// Пределы допустимого переопределения chunk_size в конфигурации job.
const (
	MinChunkOverride = 1_000
	MaxChunkOverride = 10_000_000
)

// Source — capabilities одного типа источника.
//
// Реализации: Postgres, Oracle, MSSQL, AzureSQL, API.
type Source interface {
	// Kind возвращает тип источника.
	Kind() domain.SourceKind

	// BuildDSN строит строку подключения из учётных данных.
	// creds — разрешённый bundle (host, port, database, username, password
	// для БД; base_url для API).
	BuildDSN(creds map[string]string) (string, error)

	// SupportsSchema — поддерживает ли источник параметр схемы.
	SupportsSchema() bool

	// RequiresSchema — обязательна ли схема в конфигурации job.
	RequiresSchema() bool

	// RecommendChunk возвращает рекомендованный размер чанка
	// для таблицы с оценкой estimatedRows строк.
	RecommendChunk(estimatedRows int64) int
}

// ForKind возвращает реализацию Source для типа.
func ForKind(kind domain.SourceKind) (Source, error) {
	switch kind {
	case domain.SourcePostgres:
		return Postgres{}, nil
	case domain.SourceOracle:
		return Oracle{}, nil
	case domain.SourceMSSQL:
		return MSSQL{}, nil
	case domain.SourceAzureSQL:
		return AzureSQL{}, nil
	case domain.SourceAPI:
		return API{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

// requireKeys проверяет наличие обязательных ключей в bundle.
func requireKeys(creds map[string]string, keys ...string) error {
	for _, k := range keys {
		if creds[k] == "" {
			return fmt.Errorf("%w: %s", ErrMissingCredential, k)
		}
	}
	return nil
}

// EffectiveChunkSize возвращает размер чанка с учётом переопределения
// из конфигурации: значение вне допустимых пределов (и 0 — "не задано")
// заменяется на default.
func EffectiveChunkSize(override int) int {
	if override >= MinChunkOverride && override <= MaxChunkOverride {
		return override
	}
	return DefaultChunkSize
}

// recommendChunk — общая эвристика размера чанка по количеству строк.
func recommendChunk(estimatedRows int64) int {
	switch {
	case estimatedRows < 100_000:
		return 50_000
	case estimatedRows < 1_000_000:
		return 100_000
	case estimatedRows < 10_000_000:
		return 250_000
	case estimatedRows < 50_000_000:
		return 500_000
	default:
		return 1_000_000
	}
}
