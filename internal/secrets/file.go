package secrets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileBackend читает секреты из статического локального YAML-файла.
//
// Последний backend в цепочке (локальная разработка). Файл читается
// один раз и кэшируется на всё время жизни процесса.
//
// Формат:
//
//	sources:
//	  prod_postgres:
//	    host: localhost
//	    port: "5432"
//	    ...
//	destination:
//	  filesystem:
//	    bucket_url: abfss://raw@lake.dfs.core.windows.net
//	    credentials:
//	      storage_account: lake
//	      storage_key: "..."
type FileBackend struct {
	path   string
	logger *slog.Logger

	once sync.Once
	data *secretsFile
	err  error
}

// secretsFile — разобранное содержимое файла секретов.
type secretsFile struct {
	Sources     map[string]map[string]string `yaml:"sources"`
	Destination map[string]destEntry         `yaml:"destination"`
}

// destEntry — секция destination с опциональной вложенной
// секцией credentials.
type destEntry struct {
	Values      map[string]string `yaml:",inline"`
	Credentials map[string]string `yaml:"credentials"`
}

// NewFileBackend создаёт FileBackend. Файл не читается до первого запроса.
func NewFileBackend(path string, logger *slog.Logger) *FileBackend {
	return &FileBackend{path: path, logger: logger}
}

// Name возвращает имя backend.
func (f *FileBackend) Name() string { return "file" }

// TryResolve ищет имя в секции sources, затем в destination.
//
// Для destination вложенная секция credentials сплющивается на
// верхний уровень bundle.
func (f *FileBackend) TryResolve(_ context.Context, name string) (Bundle, error) {
	data, err := f.load()
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	if src, ok := data.Sources[name]; ok && len(src) > 0 {
		bundle := Bundle{}
		for k, v := range src {
			bundle[k] = v
		}
		return bundle, nil
	}

	if dest, ok := data.Destination[name]; ok {
		bundle := Bundle{}
		for k, v := range dest.Values {
			bundle[k] = v
		}
		// Сплющиваем credentials; явные верхнеуровневые значения
		// имеют приоритет.
		for k, v := range dest.Credentials {
			if _, exists := bundle[k]; !exists {
				bundle[k] = v
			}
		}
		if len(bundle) > 0 {
			return bundle, nil
		}
	}

	return nil, nil
}

// load читает и разбирает файл (один раз).
// Отсутствующий файл — не ошибка: backend просто пуст.
func (f *FileBackend) load() (*secretsFile, error) {
	f.once.Do(func() {
		raw, err := os.ReadFile(f.path)
		if err != nil {
			if !os.IsNotExist(err) {
				f.err = fmt.Errorf("read secrets file: %w", err)
			} else if f.logger != nil {
				f.logger.Debug("secrets file not found", "path", f.path)
			}
			return
		}

		var data secretsFile
		if err := yaml.Unmarshal(raw, &data); err != nil {
			f.err = fmt.Errorf("parse secrets file %s: %w", f.path, err)
			return
		}
		f.data = &data
	})

	return f.data, f.err
}
