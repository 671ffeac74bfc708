package importer

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. ISO forms come first because they are
// unambiguous; everything after is day-first. Single-digit layout elements
// also accept zero-padded input.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/1/2",
	"2.1.2006",
	"2.1.2006 15:04",
	"2.1.2006 15:04:05",
	"2/1/2006",
	"2-1-2006",
	"2.1.06",
	"2/1/06",
}

// ParseDate parses a day-first date. The result is midnight UTC.
// Unparseable input returns ok=false.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ParseDatePtr is ParseDate returning nil for unparseable input.
func ParseDatePtr(s string) *time.Time {
	t, ok := ParseDate(s)
	if !ok {
		return nil
	}
	return &t
}
