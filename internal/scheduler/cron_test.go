package scheduler

import (
	"testing"
	"time"
)

func TestNextDue_DailyAtTwo(t *testing.T) {
	from := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

	next, err := NextDue("0 2 * * *", "", from)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2025, 6, 2, 2, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("expected %v, got %v", want, next)
	}
}

func TestNextDue_EveryFifteenMinutes(t *testing.T) {
	from := time.Date(2025, 6, 1, 12, 7, 0, 0, time.UTC)

	next, err := NextDue("*/15 * * * *", "", from)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2025, 6, 1, 12, 15, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("expected %v, got %v", want, next)
	}
}

func TestNextDue_InvalidTimezoneFallsBackToUTC(t *testing.T) {
	from := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	next, err := NextDue("0 2 * * *", "Not/AZone", from)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 6, 2, 2, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("expected UTC fallback %v, got %v", want, next)
	}
}

func TestNextDue_InvalidExpression(t *testing.T) {
	if _, err := NextDue("not a cron", "", time.Now()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateCronExpr(t *testing.T) {
	if err := ValidateCronExpr("30 4 * * 1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateCronExpr("61 * * * *"); err == nil {
		t.Error("expected error for out-of-range minute")
	}
}

func TestNew_RejectsInvalidExpression(t *testing.T) {
	if _, err := New(Config{CronExpr: "bogus"}); err == nil {
		t.Fatal("expected error for invalid expression")
	}
}
