package clock

import (
	"testing"
	"time"
)

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}
	return loc
}

func TestNewRejectsUnknownTimezone(t *testing.T) {
	if _, err := New("Atlantis/Nowhere"); err == nil {
		t.Fatal("expected error for unknown timezone")
	}

	clk, err := New("Europe/Moscow")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if clk.Location().String() != "Europe/Moscow" {
		t.Errorf("unexpected location %s", clk.Location())
	}
}

func TestSameDayRespectsLocation(t *testing.T) {
	msk := mustLocation(t, "Europe/Moscow")

	morning := time.Date(2024, 5, 14, 0, 30, 0, 0, msk)
	evening := time.Date(2024, 5, 14, 23, 45, 0, 0, msk)
	nextDay := time.Date(2024, 5, 15, 0, 15, 0, 0, msk)

	if !SameDay(morning, evening, msk) {
		t.Error("expected same calendar day")
	}
	if SameDay(evening, nextDay, msk) {
		t.Error("expected different calendar days")
	}

	// 22:30 UTC on the 14th is 01:30 MSK on the 15th
	utcLate := time.Date(2024, 5, 14, 22, 30, 0, 0, time.UTC)
	if SameDay(evening, utcLate, msk) {
		t.Error("expected 22:30 UTC to land on the next MSK day")
	}
}

func TestStartOfDay(t *testing.T) {
	msk := mustLocation(t, "Europe/Moscow")

	at := time.Date(2024, 5, 14, 18, 22, 11, 0, msk)
	want := time.Date(2024, 5, 14, 0, 0, 0, 0, msk)
	if got := StartOfDay(at, msk); !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}
}

func TestISOWeekBoundary(t *testing.T) {
	msk := mustLocation(t, "Europe/Moscow")

	sunday := time.Date(2024, 5, 12, 23, 59, 0, 0, msk)
	monday := time.Date(2024, 5, 13, 0, 1, 0, 0, msk)

	_, weekBefore := ISOWeek(sunday, msk)
	_, weekAfter := ISOWeek(monday, msk)
	if weekAfter != weekBefore+1 {
		t.Errorf("expected week rollover, got %d -> %d", weekBefore, weekAfter)
	}
}
