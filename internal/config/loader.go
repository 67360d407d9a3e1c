package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shaiso/Conveyor/internal/domain"
)

// DefaultJobsPath — путь реестра jobs по умолчанию.
const DefaultJobsPath = "config/jobs.yml"

// jobsFile — корневая структура YAML-файла.
type jobsFile struct {
	Jobs []domain.Job `yaml:"jobs"`
}

// JobsPath возвращает путь реестра jobs: CONVEYOR_JOBS_FILE
// или DefaultJobsPath.
func JobsPath() string {
	if path := os.Getenv("CONVEYOR_JOBS_FILE"); path != "" {
		return path
	}
	return DefaultJobsPath
}

// LoadJobs читает реестр jobs из YAML-файла.
// Возвращаются все jobs, включая выключенные.
func LoadJobs(path string) ([]domain.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jobs file: %w", err)
	}

	var file jobsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse jobs file %s: %w", path, err)
	}

	names := make(map[string]bool, len(file.Jobs))
	for i := range file.Jobs {
		name := file.Jobs[i].Name()
		if names[name] {
			return nil, fmt.Errorf("duplicate job %s in %s", name, path)
		}
		names[name] = true
	}

	return file.Jobs, nil
}

// EnabledJobs возвращает только включённые jobs, сохраняя порядок файла.
func EnabledJobs(jobs []domain.Job) []domain.Job {
	enabled := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.Enabled {
			enabled = append(enabled, j)
		}
	}
	return enabled
}
