package model

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
// Valid values are 0 (00:00) through 1439 (23:59). The canonical
// external representation is "HH:MM" in 24-hour format; documents
// store the integer form.
type TimeOfDay int

const (
	MinutesPerDay = 24 * 60

	// DateLayout is the canonical calendar-date form used at every
	// boundary (HTTP parameters, document keys, event payloads).
	DateLayout = "2006-01-02"

	timeLayout = "15:04"
)

// ParseTimeOfDay parses a canonical "HH:MM" string. Zero-padding is
// required: "9:00" is rejected so that string comparison of stored
// values stays consistent.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Valid reports whether t falls inside a single calendar day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < MinutesPerDay
}

// ParseDate validates a canonical YYYY-MM-DD date string and returns
// its parsed form. The string, not the time.Time, is what documents
// key on.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// TimeRange is a half-open interval [Start, End) within one day.
type TimeRange struct {
	Start TimeOfDay `json:"start" bson:"start"`
	End   TimeOfDay `json:"end" bson:"end"`
}

// Overlaps reports whether two half-open ranges intersect.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start < o.End && o.Start < r.End
}

// Duration returns the range length in minutes.
func (r TimeRange) Duration() int {
	return int(r.End - r.Start)
}

func (r TimeRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}
