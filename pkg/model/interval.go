package model

import (
	"fmt"
	"time"
)

const (
	DateLayout    = "2006-01-02"
	MinutesPerDay = 24 * 60
)

// TimeInterval is a half-open [Start, End) range of minutes from midnight,
// always within a single day.
type TimeInterval struct {
	Start int `json:"start_min" bson:"start_min" validate:"min=0,max=1439"`
	End   int `json:"end_min" bson:"end_min" validate:"min=1,max=1440,gtfield=Start"`
}

// Overlaps reports whether two half-open intervals share any minute.
// Intervals that merely touch (a.End == b.Start) do not overlap.
func (a TimeInterval) Overlaps(b TimeInterval) bool {
	return a.Start < b.End && b.Start < a.End
}

// Contains reports whether b lies entirely inside a.
func (a TimeInterval) Contains(b TimeInterval) bool {
	return a.Start <= b.Start && b.End <= a.End
}

func (a TimeInterval) Duration() int {
	return a.End - a.Start
}

func (a TimeInterval) Valid() bool {
	return a.Start >= 0 && a.End <= MinutesPerDay && a.Start < a.End
}

func (a TimeInterval) String() string {
	return fmt.Sprintf("%s-%s", FormatClock(a.Start), FormatClock(a.End))
}

// ParseClock converts an "HH:MM" wall-clock string into minutes from midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%2d:%2d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock value %q: expected HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid clock value %q: expected HH:MM", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes from midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate validates a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// DayOfWeek returns the weekday name ("Monday", ...) for a YYYY-MM-DD date.
func DayOfWeek(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.Weekday().String(), nil
}
