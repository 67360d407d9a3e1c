package source

import (
	"errors"
	"testing"

	"github.com/shaiso/Conveyor/internal/domain"
)

func dbCreds() map[string]string {
	return map[string]string{
		"host":     "db.internal",
		"port":     "5432",
		"database": "billing",
		"username": "etl",
		"password": "pw",
	}
}

func TestForKind_AllKinds(t *testing.T) {
	for _, kind := range domain.Kinds() {
		src, err := ForKind(kind)
		if err != nil {
			t.Errorf("ForKind(%s): unexpected error %v", kind, err)
			continue
		}
		if src.Kind() != kind {
			t.Errorf("ForKind(%s) returned %s", kind, src.Kind())
		}
	}
}

func TestForKind_Unknown(t *testing.T) {
	_, err := ForKind("mysql")
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestPostgres_BuildDSN(t *testing.T) {
	dsn, err := Postgres{}.BuildDSN(dbCreds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "postgres://etl:pw@db.internal:5432/billing"
	if dsn != want {
		t.Errorf("expected %q, got %q", want, dsn)
	}
}

func TestPostgres_BuildDSN_MissingKey(t *testing.T) {
	creds := dbCreds()
	delete(creds, "password")

	_, err := Postgres{}.BuildDSN(creds)
	if !errors.Is(err, ErrMissingCredential) {
		t.Errorf("expected ErrMissingCredential, got %v", err)
	}
}

func TestOracle_BuildDSN_SIDOrServiceName(t *testing.T) {
	creds := map[string]string{
		"host": "ora.internal", "port": "1521",
		"username": "etl", "password": "pw",
	}

	// Ни sid, ни service_name
	if _, err := (Oracle{}).BuildDSN(creds); !errors.Is(err, ErrMissingCredential) {
		t.Errorf("expected ErrMissingCredential, got %v", err)
	}

	creds["service_name"] = "ORCLPDB"
	dsn, err := Oracle{}.BuildDSN(creds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dsn != "oracle://etl:pw@ora.internal:1521/ORCLPDB" {
		t.Errorf("unexpected dsn: %q", dsn)
	}

	// sid имеет приоритет
	creds["sid"] = "ORCL"
	dsn, _ = Oracle{}.BuildDSN(creds)
	if dsn != "oracle://etl:pw@ora.internal:1521/ORCL" {
		t.Errorf("expected sid to win, got %q", dsn)
	}
}

func TestAzureSQL_ForcesEncryption(t *testing.T) {
	mssqlDSN, err := MSSQL{}.BuildDSN(dbCreds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	azureDSN, err := AzureSQL{}.BuildDSN(dbCreds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if azureDSN != mssqlDSN+"&encrypt=true" {
		t.Errorf("expected forced encryption suffix, got %q", azureDSN)
	}
}

func TestAPI_BuildDSN(t *testing.T) {
	dsn, err := API{}.BuildDSN(map[string]string{"base_url": "https://api.example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dsn != "https://api.example.com" {
		t.Errorf("unexpected dsn: %q", dsn)
	}

	if _, err := (API{}).BuildDSN(map[string]string{}); !errors.Is(err, ErrMissingCredential) {
		t.Errorf("expected ErrMissingCredential, got %v", err)
	}
}

func TestRecommendChunk_Thresholds(t *testing.T) {
	cases := []struct {
		rows int64
		want int
	}{
		{0, 50_000},
		{99_999, 50_000},
		{100_000, 100_000},
		{999_999, 100_000},
		{1_000_000, 250_000},
		{9_999_999, 250_000},
		{10_000_000, 500_000},
		{49_999_999, 500_000},
		{50_000_000, 1_000_000},
		{500_000_000, 1_000_000},
	}

	src := Postgres{}
	for _, tc := range cases {
		if got := src.RecommendChunk(tc.rows); got != tc.want {
			t.Errorf("RecommendChunk(%d) = %d, want %d", tc.rows, got, tc.want)
		}
	}
}

func TestEffectiveChunkSize(t *testing.T) {
	cases := []struct {
		override int
		want     int
	}{
		{0, DefaultChunkSize},
		{500, DefaultChunkSize},
		{MinChunkOverride, MinChunkOverride},
		{250_000, 250_000},
		{MaxChunkOverride, MaxChunkOverride},
		{20_000_000, DefaultChunkSize},
	}

	for _, tc := range cases {
		if got := EffectiveChunkSize(tc.override); got != tc.want {
			t.Errorf("EffectiveChunkSize(%d) = %d, want %d", tc.override, got, tc.want)
		}
	}
}

func TestAPI_RecommendChunkIsDefault(t *testing.T) {
	if got := (API{}).RecommendChunk(500_000_000); got != DefaultChunkSize {
		t.Errorf("expected default chunk for API, got %d", got)
	}
}

func TestSchemaCapabilities(t *testing.T) {
	if !(Oracle{}).RequiresSchema() {
		t.Error("oracle must require schema")
	}
	if (Postgres{}).RequiresSchema() {
		t.Error("postgres must not require schema")
	}
	if (API{}).SupportsSchema() {
		t.Error("api must not support schema")
	}
}
