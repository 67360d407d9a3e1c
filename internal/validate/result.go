package validate

// Severity — уровень серьёзности результата валидации.
type Severity string

// Уровни серьёзности.
const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// IsFatal возвращает true для уровней, делающих job неисполнимым.
func (s Severity) IsFatal() bool {
	return s == SeverityError || s == SeverityCritical
}

// Result — результат одной проверки.
type Result struct {
	// Passed — прошла ли проверка.
	Passed bool `json:"passed"`

	// Message — человекочитаемое описание.
	Message string `json:"message"`

	// Severity — уровень серьёзности (для падающих результатов).
	Severity Severity `json:"severity"`

	// Details — опциональные структурированные детали.
	Details map[string]any `json:"details,omitempty"`
}

// Executable возвращает true, если по результатам job исполним:
// нет падающих результатов уровня ERROR/CRITICAL.
func Executable(results []Result) bool {
	for _, r := range results {
		if !r.Passed && r.Severity.IsFatal() {
			return false
		}
	}
	return true
}

// FirstFatal возвращает первый падающий ERROR/CRITICAL результат.
func FirstFatal(results []Result) (Result, bool) {
	for _, r := range results {
		if !r.Passed && r.Severity.IsFatal() {
			return r, true
		}
	}
	return Result{}, false
}
