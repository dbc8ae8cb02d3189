package parse

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical storage form of a booking date.
const DateLayout = "2006-01-02"

// Date normalises "2024-05-01", "2024-05-01T00:00:00" or an RFC3339 timestamp to "2024-05-01".
// Timestamps keep their own calendar date; no timezone conversion is applied.
func Date(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.Format(DateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(DateLayout), nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.Format(DateLayout), nil
	}
	return "", fmt.Errorf("invalid date: %q", raw)
}

// Today returns the calendar date of now in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return now.In(loc).Format(DateLayout)
}
