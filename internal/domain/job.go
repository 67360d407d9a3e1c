package domain

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceKind — тип источника данных.
type SourceKind string

// Поддерживаемые типы источников.
const (
	SourcePostgres SourceKind = "postgres"
	SourceOracle   SourceKind = "oracle"
	SourceMSSQL    SourceKind = "mssql"
	SourceAzureSQL SourceKind = "azuresql"
	SourceAPI      SourceKind = "api"
)

// Kinds возвращает все поддерживаемые типы источников.
func Kinds() []SourceKind {
	return []SourceKind{SourcePostgres, SourceOracle, SourceMSSQL, SourceAzureSQL, SourceAPI}
}

// IsValid проверяет, входит ли тип в перечисление.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourcePostgres, SourceOracle, SourceMSSQL, SourceAzureSQL, SourceAPI:
		return true
	default:
		return false
	}
}

// IsDatabase возвращает true для реляционных источников.
func (k SourceKind) IsDatabase() bool {
	return k.IsValid() && k != SourceAPI
}

// LoadMode — режим загрузки данных.
type LoadMode string

// Режимы загрузки.
const (
	// LoadFull — полная перезагрузка целевой таблицы.
	LoadFull LoadMode = "FULL"

	// LoadIncremental — догрузка по watermark-колонке.
	LoadIncremental LoadMode = "INCREMENTAL"
)

// IsValid проверяет, входит ли режим в перечисление.
func (m LoadMode) IsValid() bool {
	return m == LoadFull || m == LoadIncremental
}

// Job — декларативное описание одной единицы ингестии.
//
// Job неизменяем: создаётся загрузчиком конфигурации, валидируется
// один раз за запуск и отбрасывается после завершения batch.
//
// Обязательные поля: SourceKind, SourceName, Target, LoadMode, Enabled.
// Остальные поля зависят от типа источника и режима загрузки.
type Job struct {
	// SourceKind — тип источника (postgres, oracle, mssql, azuresql, api).
	SourceKind SourceKind `yaml:"source_kind" json:"source_kind"`

	// SourceName — имя источника в хранилище секретов.
	SourceName string `yaml:"source_name" json:"source_name"`

	// Target — имя целевой таблицы (или сущности для API).
	Target string `yaml:"target" json:"target"`

	// LoadMode — FULL (replace) или INCREMENTAL (merge по watermark).
	LoadMode LoadMode `yaml:"load_mode" json:"load_mode"`

	// Enabled — выключенные jobs не попадают в batch.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// SchemaName — имя схемы (обязательно для oracle).
	SchemaName string `yaml:"schema_name,omitempty" json:"schema_name,omitempty"`

	// WatermarkColumn — колонка-курсор для INCREMENTAL загрузки.
	WatermarkColumn string `yaml:"watermark_column,omitempty" json:"watermark_column,omitempty"`

	// LastWatermark — последнее значение watermark (datetime, int и т.д.).
	LastWatermark string `yaml:"last_watermark,omitempty" json:"last_watermark,omitempty"`

	// Endpoint — путь API-эндпоинта (например, /api/users).
	// Если пуст, используется "/" + Target.
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`

	// Pagination — стратегия пагинации API:
	// offset, cursor, page_number, header_link, json_link, single_page.
	Pagination string `yaml:"pagination,omitempty" json:"pagination,omitempty"`

	// Auth — стратегия аутентификации API: none, api_key, bearer, basic, oauth2.
	Auth string `yaml:"auth,omitempty" json:"auth,omitempty"`

	// PageSize — записей на страницу для API-источников.
	PageSize int `yaml:"page_size,omitempty" json:"page_size,omitempty"`

	// DataSelector — путь к массиву данных в ответе API (например, data.items).
	DataSelector string `yaml:"data_selector,omitempty" json:"data_selector,omitempty"`

	// PrimaryKey — колонка(и) первичного ключа для merge-операций,
	// через запятую.
	PrimaryKey string `yaml:"primary_key,omitempty" json:"primary_key,omitempty"`

	// ChunkSize — переопределение размера чанка для больших таблиц.
	// 0 означает "использовать default".
	ChunkSize int `yaml:"chunk_size,omitempty" json:"chunk_size,omitempty"`

	// Params — дополнительные query-параметры для API.
	Params Params `yaml:"params,omitempty" json:"params,omitempty"`
}

// Params — дополнительные query-параметры API-источника.
//
// В YAML принимает либо вложенный map, либо строку с JSON-объектом —
// формат, в котором параметры приходят из переменных окружения.
type Params map[string]any

// UnmarshalYAML реализует yaml.Unmarshaler.
func (p *Params) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var raw string
		if err := value.Decode(&raw); err != nil {
			return err
		}
		if strings.TrimSpace(raw) == "" {
			*p = nil
			return nil
		}
		return json.Unmarshal([]byte(raw), (*map[string]any)(p))
	}

	var m map[string]any
	if err := value.Decode(&m); err != nil {
		return err
	}
	*p = m
	return nil
}

// Name возвращает уникальное имя job: "<source_name>.<target>".
func (j *Job) Name() string {
	return j.SourceName + "." + j.Target
}

// APIEndpoint возвращает путь эндпоинта с fallback на Target.
func (j *Job) APIEndpoint() string {
	if j.Endpoint != "" {
		return j.Endpoint
	}
	return "/" + j.Target
}

// PrimaryKeys разбирает PrimaryKey в список колонок.
func (j *Job) PrimaryKeys() []string {
	if j.PrimaryKey == "" {
		return nil
	}
	var keys []string
	for _, k := range strings.Split(j.PrimaryKey, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
