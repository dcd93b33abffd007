// Package shared holds helpers used across domain packages.
package shared

import (
	"fmt"
	"time"
)

// DayFormat is the wire format for calendar-day query parameters.
const DayFormat = "2006-01-02"

// DayWindow is the half-open interval [From, To) covering one calendar day in
// the business timezone. Timestamped rows belong to the day when
// From <= ts < To.
type DayWindow struct {
	From time.Time
	To   time.Time
}

// Contains reports whether ts falls inside the window.
func (w DayWindow) Contains(ts time.Time) bool {
	return !ts.Before(w.From) && ts.Before(w.To)
}

// Day returns the calendar-day string the window covers.
func (w DayWindow) Day() string {
	return w.From.Format(DayFormat)
}

// ParseDay parses a YYYY-MM-DD string in the given location.
func ParseDay(day string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DayFormat, day, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("shared: parse day %q: %w", day, err)
	}
	return t, nil
}

// WindowForDay builds the day window for a YYYY-MM-DD string. An empty day
// selects today in the given location.
func WindowForDay(day string, loc *time.Location) (DayWindow, error) {
	if loc == nil {
		loc = time.Local
	}
	var start time.Time
	if day == "" {
		now := time.Now().In(loc)
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	} else {
		parsed, err := ParseDay(day, loc)
		if err != nil {
			return DayWindow{}, err
		}
		start = parsed
	}
	return DayWindow{From: start, To: start.AddDate(0, 0, 1)}, nil
}
