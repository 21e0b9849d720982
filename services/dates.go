package services

import (
	"time"
)

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ValidateStayDates is the shared date guard for bookings and rental
// agreements: the start day must not be in the past and the end must be
// strictly after the start.
func ValidateStayDates(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ValidationError("start and end dates are required")
	}
	if startOfDay(start).Before(startOfDay(time.Now())) {
		return ValidationError("start date must not be in the past")
	}
	if !end.After(start) {
		return ValidationError("end date must be after start date")
	}
	return nil
}
