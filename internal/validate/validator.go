package validate

import (
	"fmt"
	"regexp"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/source"
)

// Границы допустимого размера чанка (см. internal/source).
const (
	MinChunkSize = source.MinChunkOverride
	MaxChunkSize = source.MaxChunkOverride
)

// identifierPattern — допустимый формат имени целевой таблицы
// (защита от SQL-инъекций через конфигурацию).
var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validator валидирует конфигурацию jobs перед выполнением.
type Validator struct{}

// New создаёт новый Validator.
func New() *Validator {
	return &Validator{}
}

// Validate проверяет один job и возвращает упорядоченный список результатов.
//
// Порядок проверок:
//  1. Обязательные поля присутствуют и непусты (CRITICAL; дальнейшие
//     проверки пропускаются).
//  2. Тип источника и режим загрузки входят в перечисления (ERROR).
//  3. INCREMENTAL требует watermark-колонку (ERROR); без первичного
//     ключа merge невозможен — будет append (WARNING).
//  4. Имя целевой таблицы соответствует формату идентификатора (WARNING).
//  5. Переопределение chunk_size в пределах [1 000, 10 000 000] (WARNING —
//     при нарушении используется default).
//  6. Тип источника, требующий схему, должен её указывать (ERROR).
func (v *Validator) Validate(job *domain.Job) []Result {
	var results []Result

	// 1. Обязательные поля
	required := []struct {
		name  string
		value string
	}{
		{"source_kind", string(job.SourceKind)},
		{"source_name", job.SourceName},
		{"target", job.Target},
		{"load_mode", string(job.LoadMode)},
	}
	for _, f := range required {
		if f.value == "" {
			results = append(results, Result{
				Passed:   false,
				Message:  fmt.Sprintf("missing required field: %s", f.name),
				Severity: SeverityCritical,
			})
		}
	}
	if len(results) > 0 {
		return results
	}

	// 2. Перечисления
	if !job.SourceKind.IsValid() {
		results = append(results, Result{
			Passed:   false,
			Message:  fmt.Sprintf("invalid source_kind: %s (must be one of %v)", job.SourceKind, domain.Kinds()),
			Severity: SeverityError,
		})
	}
	if !job.LoadMode.IsValid() {
		results = append(results, Result{
			Passed:   false,
			Message:  fmt.Sprintf("invalid load_mode: %s (must be FULL or INCREMENTAL)", job.LoadMode),
			Severity: SeverityError,
		})
	}

	// 3. INCREMENTAL требует watermark и первичный ключ для merge
	if job.LoadMode == domain.LoadIncremental {
		if job.WatermarkColumn == "" {
			results = append(results, Result{
				Passed:   false,
				Message:  "INCREMENTAL load requires a watermark column",
				Severity: SeverityError,
			})
		}
		if len(job.PrimaryKeys()) == 0 {
			results = append(results, Result{
				Passed:   false,
				Message:  "INCREMENTAL load without a primary key falls back to append",
				Severity: SeverityWarning,
			})
		}
	}

	// 4. Формат имени целевой таблицы
	if !identifierPattern.MatchString(job.Target) {
		results = append(results, Result{
			Passed:   false,
			Message:  fmt.Sprintf("invalid target name format: %s", job.Target),
			Severity: SeverityWarning,
			Details:  map[string]any{"pattern": identifierPattern.String()},
		})
	}

	// 5. Переопределение chunk_size
	if job.ChunkSize != 0 && (job.ChunkSize < MinChunkSize || job.ChunkSize > MaxChunkSize) {
		results = append(results, Result{
			Passed:   false,
			Message:  fmt.Sprintf("chunk_size %d out of range [%d, %d], default will be used", job.ChunkSize, MinChunkSize, MaxChunkSize),
			Severity: SeverityWarning,
			Details:  map[string]any{"chunk_size": job.ChunkSize},
		})
	}

	// 6. Обязательная схема
	if src, err := source.ForKind(job.SourceKind); err == nil {
		if src.RequiresSchema() && job.SchemaName == "" {
			results = append(results, Result{
				Passed:   false,
				Message:  fmt.Sprintf("%s source requires a schema name", job.SourceKind),
				Severity: SeverityError,
			})
		}
	}

	if len(results) == 0 {
		results = append(results, Result{
			Passed:   true,
			Message:  fmt.Sprintf("job configuration valid: %s", job.Name()),
			Severity: SeverityInfo,
		})
	}

	return results
}

// ValidateAll проверяет все jobs.
//
// allValid=false, если хотя бы один job имеет падающий результат
// уровня ERROR/CRITICAL. Jobs при этом не мутируются и не отбрасываются —
// решение (пропустить job или прервать batch) принимает оркестратор.
func (v *Validator) ValidateAll(jobs []domain.Job) (bool, []Result) {
	var all []Result
	allValid := true

	for i := range jobs {
		results := v.Validate(&jobs[i])
		all = append(all, results...)

		if !Executable(results) {
			allValid = false
		}
	}

	return allValid, all
}
