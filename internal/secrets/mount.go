package secrets

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// defaultMountDir — каталог, куда хостинговая платформа монтирует секреты.
const defaultMountDir = "/var/run/conveyor/secrets"

// MountBackend читает секреты из примонтированного платформой каталога.
//
// Формат: один файл на секрет, имя файла "{source}-{key}"
// (ключи с дефисами: prod-postgres-host, prod-postgres-password).
// Go-аналог нативного хранилища секретов хостинговой платформы:
// наличие каталога и есть runtime handle.
type MountBackend struct {
	dir    string
	logger *slog.Logger
}

// DetectMount проверяет наличие mount-каталога.
// Отсутствие — не ошибка, просто backend недоступен.
func DetectMount(logger *slog.Logger) (*MountBackend, bool) {
	dir := os.Getenv("CONVEYOR_SECRET_MOUNT")
	if dir == "" {
		dir = defaultMountDir
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, false
	}

	logger.Info("platform secret mount detected", "dir", dir)
	return &MountBackend{dir: dir, logger: logger}, true
}

// Name возвращает имя backend.
func (m *MountBackend) Name() string { return "mount" }

// TryResolve читает файлы "{name}-{key}" для всех известных ключей.
func (m *MountBackend) TryResolve(_ context.Context, name string) (Bundle, error) {
	prefix := strings.ReplaceAll(name, "_", "-")

	bundle := Bundle{}
	for _, key := range commonKeys {
		file := filepath.Join(m.dir, prefix+"-"+strings.ReplaceAll(key, "_", "-"))
		data, err := os.ReadFile(file)
		if err != nil {
			continue // отсутствующий ключ — опциональный
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			bundle[key] = value
		}
	}

	if len(bundle) == 0 {
		return nil, nil
	}
	return bundle, nil
}
