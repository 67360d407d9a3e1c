package secrets

import (
	"context"
	"os"
	"strings"
)

// envPrefix — префикс переменных окружения с учётными данными.
const envPrefix = "CONVEYOR"

// EnvBackend читает учётные данные из переменных окружения.
//
// Формат: CONVEYOR_<SOURCE>_<KEY>, например
// CONVEYOR_PROD_POSTGRES_HOST, CONVEYOR_PROD_POSTGRES_PASSWORD.
type EnvBackend struct{}

// NewEnvBackend создаёт EnvBackend.
func NewEnvBackend() *EnvBackend {
	return &EnvBackend{}
}

// Name возвращает имя backend.
func (e *EnvBackend) Name() string { return "env" }

// TryResolve собирает bundle из переменных CONVEYOR_<NAME>_<KEY>.
func (e *EnvBackend) TryResolve(_ context.Context, name string) (Bundle, error) {
	prefix := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_")) + "_"

	bundle := Bundle{}
	for _, key := range commonKeys {
		if value := os.Getenv(prefix + strings.ToUpper(key)); value != "" {
			bundle[key] = value
		}
	}

	if len(bundle) == 0 {
		return nil, nil
	}
	return bundle, nil
}
