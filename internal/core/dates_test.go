package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-07-15")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.July || d.Day() != 15 {
		t.Errorf("Expected 2024-07-15, got %v", d)
	}

	if _, err := ParseDate("15/07/2024"); err == nil {
		t.Error("Expected error for malformed date")
	}
}

func TestDaysBetween(t *testing.T) {
	a, _ := ParseDate("2024-07-15")
	b, _ := ParseDate("2024-07-20")

	if got := DaysBetween(a, b); got != 5 {
		t.Errorf("Expected 5 days, got %d", got)
	}
	if got := DaysBetween(b, a); got != -5 {
		t.Errorf("Expected -5 days, got %d", got)
	}
	if got := DaysBetween(a, a); got != 0 {
		t.Errorf("Expected 0 days, got %d", got)
	}
}

func TestDateOnly(t *testing.T) {
	instant := time.Date(2024, 7, 15, 18, 42, 3, 0, time.UTC)
	d := DateOnly(instant)
	if d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 {
		t.Errorf("Expected midnight, got %v", d)
	}
	if !SameDate(instant, d) {
		t.Error("Expected instant and its DateOnly to share a date")
	}
}
