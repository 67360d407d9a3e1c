package secrets

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// discardLogger — логгер без вывода для тестов.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubBackend — управляемый backend для тестов цепочки.
type stubBackend struct {
	name   string
	bundle Bundle
	err    error
	calls  int
}

func (s *stubBackend) Name() string { return s.name }

func (s *stubBackend) TryResolve(_ context.Context, _ string) (Bundle, error) {
	s.calls++
	return s.bundle, s.err
}

func TestResolver_FirstNonEmptyWins(t *testing.T) {
	first := &stubBackend{name: "first", bundle: Bundle{"host": "a"}}
	second := &stubBackend{name: "second", bundle: Bundle{"host": "b"}}

	r := NewResolver(nil, first, second)

	bundle, err := r.ResolveSource(context.Background(), "db")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle["host"] != "a" {
		t.Errorf("expected first backend to win, got %q", bundle["host"])
	}
	if second.calls != 0 {
		t.Error("second backend should not be consulted")
	}
}

func TestResolver_ErrorFallsThrough(t *testing.T) {
	// Недоступный backend (например, vault без токена) не прерывает
	// цепочку — следующий backend отвечает.
	broken := &stubBackend{name: "vault", err: errors.New("connection refused")}
	env := &stubBackend{name: "env", bundle: Bundle{"host": "fallback"}}

	r := NewResolver(nil, broken, env)

	bundle, err := r.ResolveSource(context.Background(), "db")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle["host"] != "fallback" {
		t.Errorf("expected fallback value, got %q", bundle["host"])
	}
}

func TestResolver_EmptyBundleSkipped(t *testing.T) {
	empty := &stubBackend{name: "mount"} // (nil, nil) — ничего нет
	file := &stubBackend{name: "file", bundle: Bundle{"host": "x"}}

	r := NewResolver(nil, empty, file)

	bundle, err := r.ResolveSource(context.Background(), "db")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle["host"] != "x" {
		t.Errorf("expected file backend value, got %q", bundle["host"])
	}
}

func TestResolver_NotFound(t *testing.T) {
	r := NewResolver(nil, &stubBackend{name: "env"})

	_, err := r.ResolveSource(context.Background(), "missing-db")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolver_DestinationFailureIsFatal(t *testing.T) {
	r := NewResolver(nil, &stubBackend{name: "env"})

	_, err := r.ResolveDestination(context.Background(), "filesystem")
	if !errors.Is(err, ErrDestinationConfig) {
		t.Errorf("expected ErrDestinationConfig, got %v", err)
	}
}

func TestEnvBackend_ResolvesPrefixedVars(t *testing.T) {
	t.Setenv("CONVEYOR_PROD_POSTGRES_HOST", "db.internal")
	t.Setenv("CONVEYOR_PROD_POSTGRES_PASSWORD", "s3cret")

	b := NewEnvBackend()
	bundle, err := b.TryResolve(context.Background(), "prod_postgres")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle["host"] != "db.internal" || bundle["password"] != "s3cret" {
		t.Errorf("unexpected bundle: %+v", bundle)
	}

	// Имя с дефисами нормализуется к underscore-формату переменных
	bundle, err = b.TryResolve(context.Background(), "prod-postgres")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle["host"] != "db.internal" {
		t.Errorf("expected dash name to resolve, got %+v", bundle)
	}
}

func TestEnvBackend_NothingFound(t *testing.T) {
	b := NewEnvBackend()
	bundle, err := b.TryResolve(context.Background(), "nonexistent_source")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle != nil {
		t.Errorf("expected nil bundle, got %+v", bundle)
	}
}

func TestFileBackend_SourcesAndDestination(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secrets.yml")
	content := `
sources:
  prod_postgres:
    host: localhost
    port: "5432"
    username: etl
    password: pw
destination:
  filesystem:
    bucket_url: abfss://raw@lake.dfs.core.windows.net
    credentials:
      storage_account: lake
      storage_key: key123
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	b := NewFileBackend(path, nil)

	src, err := b.TryResolve(context.Background(), "prod_postgres")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src["host"] != "localhost" || src["password"] != "pw" {
		t.Errorf("unexpected source bundle: %+v", src)
	}

	// Destination: credentials сплющиваются на верхний уровень
	dest, err := b.TryResolve(context.Background(), "filesystem")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest["bucket_url"] == "" {
		t.Error("expected top-level value present")
	}
	if dest["storage_account"] != "lake" || dest["storage_key"] != "key123" {
		t.Errorf("expected flattened credentials, got %+v", dest)
	}
}

func TestFileBackend_MissingFileIsEmpty(t *testing.T) {
	b := NewFileBackend(filepath.Join(t.TempDir(), "nope.yml"), nil)

	bundle, err := b.TryResolve(context.Background(), "anything")
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if bundle != nil {
		t.Errorf("expected nil bundle, got %+v", bundle)
	}
}

func TestMountBackend_ReadsKeyFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONVEYOR_SECRET_MOUNT", dir)

	writeFile := func(name, value string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(value+"\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	writeFile("prod-postgres-host", "db.internal")
	writeFile("prod-postgres-password", "pw")

	mount, ok := DetectMount(discardLogger())
	if !ok {
		t.Fatal("expected mount to be detected")
	}

	bundle, err := mount.TryResolve(context.Background(), "prod_postgres")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle["host"] != "db.internal" {
		t.Errorf("expected trimmed host value, got %q", bundle["host"])
	}
	if bundle["password"] != "pw" {
		t.Errorf("unexpected bundle: %+v", bundle)
	}
}

func TestDetectMount_MissingDir(t *testing.T) {
	t.Setenv("CONVEYOR_SECRET_MOUNT", filepath.Join(t.TempDir(), "absent"))

	if _, ok := DetectMount(discardLogger()); ok {
		t.Error("expected no mount for missing directory")
	}
}
