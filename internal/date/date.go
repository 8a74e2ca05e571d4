// Package date parses and formats task due dates.
package date

import (
	"errors"
	"strings"
	"time"
)

// Display layouts.
const (
	LayoutDate    = "2006-01-02"
	LayoutMinutes = "2006-01-02 15:04"
	LayoutSeconds = "2006-01-02 15:04:05"
)

// ErrInvalid is returned when a due date matches none of the accepted layouts.
var ErrInvalid = errors.New("invalid date format: use YYYY-MM-DD or YYYY-MM-DD HH:MM")

// layouts are tried most specific first.
var layouts = []string{LayoutSeconds, LayoutMinutes, LayoutDate}

// Parse parses s as a due date in loc. Fields absent from the input default
// to zero, so "2025-01-05" is midnight of that day.
func Parse(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalid
}

// Format renders t the way task lists display due dates.
func Format(t time.Time) string {
	return t.Format(LayoutMinutes)
}

// FormatInput renders t for an edit buffer. Seconds are kept only when set
// so that re-saving an unchanged buffer yields the same instant.
func FormatInput(t time.Time) string {
	if t.Second() != 0 {
		return t.Format(LayoutSeconds)
	}
	return t.Format(LayoutMinutes)
}

// FromUnix converts a stored unix timestamp to local time.
func FromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).In(time.Local)
}
