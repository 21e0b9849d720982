package services

import (
	"testing"
	"time"
)

func TestValidateStayDatesValid(t *testing.T) {
	start := time.Now().AddDate(0, 0, 7)
	end := start.AddDate(0, 1, 0)

	if err := ValidateStayDates(start, end); err != nil {
		t.Fatalf("expected valid dates, got %v", err)
	}
}

func TestValidateStayDatesTodayStart(t *testing.T) {
	// A check-in later today is fine, only full days in the past are rejected.
	start := time.Now()
	end := start.AddDate(0, 0, 3)

	if err := ValidateStayDates(start, end); err != nil {
		t.Fatalf("same-day start should be accepted, got %v", err)
	}
}

func TestValidateStayDatesPastStart(t *testing.T) {
	start := time.Now().AddDate(0, 0, -2)
	end := time.Now().AddDate(0, 0, 5)

	err := ValidateStayDates(start, end)
	if err == nil {
		t.Fatal("expected error for past start date")
	}
	if KindOf(err) != KindValidation {
		t.Fatalf("expected validation error, got kind %v", KindOf(err))
	}
}

func TestValidateStayDatesEndNotAfterStart(t *testing.T) {
	start := time.Now().AddDate(0, 0, 10)

	if err := ValidateStayDates(start, start); err == nil {
		t.Fatal("expected error when end equals start")
	}
	if err := ValidateStayDates(start, start.AddDate(0, 0, -1)); err == nil {
		t.Fatal("expected error when end precedes start")
	}
}

func TestValidateStayDatesZero(t *testing.T) {
	err := ValidateStayDates(time.Time{}, time.Time{})
	if err == nil {
		t.Fatal("expected error for zero dates")
	}
	if KindOf(err) != KindValidation {
		t.Fatalf("expected validation error, got kind %v", KindOf(err))
	}
}
