package validation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrInvalidUUID      = fmt.Errorf("invalid UUID format")
	ErrInvalidDateRange = fmt.Errorf("invalid date range")
)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}

// ParseDateRange parses optional start/end query values in YYYY-MM-DD form.
// Empty values yield zero times; a start after the end is rejected.
func ParseDateRange(start, end string) (time.Time, time.Time, error) {
	var startDate, endDate time.Time
	var err error

	if start != "" {
		if startDate, err = time.Parse("2006-01-02", start); err != nil {
			return time.Time{}, time.Time{}, &Error{Fields: map[string]string{"startDate": "must be YYYY-MM-DD"}}
		}
	}
	if end != "" {
		if endDate, err = time.Parse("2006-01-02", end); err != nil {
			return time.Time{}, time.Time{}, &Error{Fields: map[string]string{"endDate": "must be YYYY-MM-DD"}}
		}
	}
	if !startDate.IsZero() && !endDate.IsZero() && startDate.After(endDate) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return startDate, endDate, nil
}
