package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shaiso/Conveyor/internal/domain"
)

func writeJobsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJobs_ParsesFields(t *testing.T) {
	path := writeJobsFile(t, `
jobs:
  - source_kind: postgres
    source_name: billing-db
    target: invoices
    load_mode: INCREMENTAL
    watermark_column: updated_at
    enabled: true
    chunk_size: 250000
  - source_kind: api
    source_name: crm
    target: contacts
    load_mode: FULL
    endpoint: /api/v2/contacts
    pagination: cursor
    auth: bearer
    page_size: 500
    enabled: false
`)

	jobs, err := LoadJobs(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	first := jobs[0]
	if first.SourceKind != domain.SourcePostgres {
		t.Errorf("unexpected source kind: %s", first.SourceKind)
	}
	if first.LoadMode != domain.LoadIncremental || first.WatermarkColumn != "updated_at" {
		t.Errorf("unexpected incremental fields: %+v", first)
	}
	if first.ChunkSize != 250000 {
		t.Errorf("expected chunk 250000, got %d", first.ChunkSize)
	}
	if first.Name() != "billing-db.invoices" {
		t.Errorf("unexpected name: %s", first.Name())
	}

	second := jobs[1]
	if second.Endpoint != "/api/v2/contacts" || second.PageSize != 500 {
		t.Errorf("unexpected api fields: %+v", second)
	}
	if second.Enabled {
		t.Error("second job must be disabled")
	}
}

func TestLoadJobs_ParamsAsMapOrJSONString(t *testing.T) {
	path := writeJobsFile(t, `
jobs:
  - source_kind: api
    source_name: crm
    target: contacts
    load_mode: FULL
    enabled: true
    params:
      status: active
  - source_kind: api
    source_name: crm
    target: deals
    load_mode: FULL
    enabled: true
    params: '{"stage": "won", "limit": 100}'
`)

	jobs, err := LoadJobs(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if jobs[0].Params["status"] != "active" {
		t.Errorf("unexpected map params: %v", jobs[0].Params)
	}
	// params в виде JSON-строки разбираются в тот же map
	if jobs[1].Params["stage"] != "won" {
		t.Errorf("unexpected json params: %v", jobs[1].Params)
	}
	if v, ok := jobs[1].Params["limit"].(float64); !ok || v != 100 {
		t.Errorf("unexpected limit param: %v", jobs[1].Params["limit"])
	}
}

func TestLoadJobs_DuplicateNames(t *testing.T) {
	path := writeJobsFile(t, `
jobs:
  - source_kind: postgres
    source_name: db
    target: orders
    load_mode: FULL
    enabled: true
  - source_kind: postgres
    source_name: db
    target: orders
    load_mode: FULL
    enabled: true
`)

	if _, err := LoadJobs(path); err == nil {
		t.Fatal("expected duplicate job error")
	}
}

func TestLoadJobs_MalformedYAML(t *testing.T) {
	path := writeJobsFile(t, "jobs: [giberish")
	if _, err := LoadJobs(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadJobs_MissingFile(t *testing.T) {
	if _, err := LoadJobs(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatal("expected read error")
	}
}

func TestEnabledJobs_FiltersAndKeepsOrder(t *testing.T) {
	jobs := []domain.Job{
		{SourceName: "a", Target: "x", Enabled: true},
		{SourceName: "b", Target: "y", Enabled: false},
		{SourceName: "c", Target: "z", Enabled: true},
	}

	enabled := EnabledJobs(jobs)
	if len(enabled) != 2 {
		t.Fatalf("expected 2 enabled jobs, got %d", len(enabled))
	}
	if enabled[0].SourceName != "a" || enabled[1].SourceName != "c" {
		t.Errorf("order not preserved: %+v", enabled)
	}
}

func TestJobsPath_EnvOverride(t *testing.T) {
	t.Setenv("CONVEYOR_JOBS_FILE", "/tmp/custom.yml")
	if JobsPath() != "/tmp/custom.yml" {
		t.Errorf("expected env override, got %s", JobsPath())
	}

	t.Setenv("CONVEYOR_JOBS_FILE", "")
	if JobsPath() != DefaultJobsPath {
		t.Errorf("expected default, got %s", JobsPath())
	}
}
