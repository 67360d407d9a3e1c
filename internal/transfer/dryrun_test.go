package transfer

import (
	"context"
	"errors"
	"testing"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/secrets"
)

func TestDryRun_CompleteBundle(t *testing.T) {
	job := &domain.Job{
		SourceKind: domain.SourcePostgres,
		SourceName: "db",
		Target:     "orders",
		LoadMode:   domain.LoadFull,
	}
	src := secrets.Bundle{
		"host": "db", "port": "5432", "database": "d",
		"username": "u", "password": "p",
	}

	res, err := NewDryRun(nil).Transfer(context.Background(), job, src, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Rows != 0 {
		t.Errorf("dry run must report 0 rows, got %d", res.Rows)
	}
}

func TestDryRun_IncompleteBundleIsPermanent(t *testing.T) {
	job := &domain.Job{
		SourceKind: domain.SourcePostgres,
		SourceName: "db",
		Target:     "orders",
		LoadMode:   domain.LoadFull,
	}
	src := secrets.Bundle{"host": "db"} // неполный bundle

	_, err := NewDryRun(nil).Transfer(context.Background(), job, src, nil)
	if err == nil {
		t.Fatal("expected error for incomplete bundle")
	}

	var permanent *PermanentError
	if !errors.As(err, &permanent) {
		t.Errorf("bundle error must be permanent (not retryable), got %v", err)
	}
}
