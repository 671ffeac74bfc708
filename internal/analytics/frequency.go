// Package analytics turns a holdings snapshot into chart data.
//
// Every function here is pure: it takes already-loaded rows and never
// touches storage. Empty or unusable input yields empty, non-nil slices.
package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
)

// Frequency is the spacing of a resampled calendar grid.
type Frequency string

const (
	Daily     Frequency = "D"
	Weekly    Frequency = "W" // anchored on Sundays
	Monthly   Frequency = "M" // month ends
	Quarterly Frequency = "Q" // quarter ends
)

// ParseFrequency accepts D, W, M or Q in either case. Empty means daily.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(strings.ToUpper(strings.TrimSpace(s))); f {
	case "":
		return Daily, nil
	case Daily, Weekly, Monthly, Quarterly:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidFrequency, s)
	}
}

// grid returns every grid point of f within [first, last], inclusive.
// Daily starts on first; the others start at the first anchor on or after it.
func grid(f Frequency, first, last time.Time) []time.Time {
	points := []time.Time{}
	for t := firstAnchor(f, first); !t.After(last); t = nextAnchor(f, t) {
		points = append(points, t)
	}
	return points
}

func firstAnchor(f Frequency, t time.Time) time.Time {
	switch f {
	case Weekly:
		return t.AddDate(0, 0, (7-int(t.Weekday()))%7)
	case Monthly:
		return monthEnd(t)
	case Quarterly:
		return quarterEnd(t)
	default:
		return t
	}
}

func nextAnchor(f Frequency, t time.Time) time.Time {
	switch f {
	case Weekly:
		return t.AddDate(0, 0, 7)
	case Monthly:
		return monthEnd(t.AddDate(0, 0, 1))
	case Quarterly:
		return quarterEnd(t.AddDate(0, 0, 1))
	default:
		return t.AddDate(0, 0, 1)
	}
}

func monthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

func quarterEnd(t time.Time) time.Time {
	endMonth := ((int(t.Month())-1)/3 + 1) * 3
	return time.Date(t.Year(), time.Month(endMonth)+1, 0, 0, 0, 0, 0, time.UTC)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
