package model

import "time"

// DayHours is the resolved opening state of the facility for one day.
type DayHours struct {
	Open     TimeOfDay `json:"open" bson:"open"`
	Close    TimeOfDay `json:"close" bson:"close"`
	IsClosed bool      `json:"is_closed" bson:"is_closed"`
}

// DaysPerWeek entries, Monday first. A WeekSchedule is always fully
// populated; there is no notion of a missing weekday.
const DaysPerWeek = 7

type WeekSchedule [DaysPerWeek]DayHours

// WeekdayIndex maps time.Weekday (Sunday-first) onto the Monday-first
// layout used by WeekSchedule.
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % DaysPerWeek
}

// ForDate returns the weekday entry covering the given date.
func (w WeekSchedule) ForDate(date time.Time) DayHours {
	return w[WeekdayIndex(date.Weekday())]
}

// DefaultWeek is the document holding the facility-wide default weekly
// hours. Exactly one such document exists; administrators replace it
// wholesale.
type DefaultWeek struct {
	ID        string       `json:"id,omitempty" bson:"_id,omitempty"`
	Week      WeekSchedule `json:"week" bson:"week" validate:"required,week_schedule"`
	UpdatedAt time.Time    `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// SeasonalPeriod overrides the default week for an inclusive date
// range. Periods may overlap in the store; resolution picks a single
// deterministic winner.
type SeasonalPeriod struct {
	ID        string       `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	StartDate string       `json:"start_date" bson:"start_date" validate:"required,calendar_date"`
	EndDate   string       `json:"end_date" bson:"end_date" validate:"required,calendar_date,gtefield=StartDate"`
	Label     string       `json:"label" bson:"label" validate:"required,min=2,max=100"`
	Week      WeekSchedule `json:"week" bson:"week" validate:"required,week_schedule"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Covers reports whether the period's inclusive date range contains
// the given canonical date string. Canonical dates compare correctly
// as strings.
func (p *SeasonalPeriod) Covers(date string) bool {
	return p.StartDate <= date && date <= p.EndDate
}

// DateOverride is a one-off exception keyed by calendar date. It takes
// precedence over both seasonal and default hours. When IsClosed is
// false, Open/Close replace the base hours; an override that is not
// closed but carries no hours is treated as absent.
type DateOverride struct {
	Date     string     `json:"date" bson:"_id" validate:"required,calendar_date"`
	IsClosed bool       `json:"is_closed" bson:"is_closed"`
	Open     *TimeOfDay `json:"open,omitempty" bson:"open,omitempty" validate:"omitempty,time_of_day"`
	Close    *TimeOfDay `json:"close,omitempty" bson:"close,omitempty" validate:"omitempty,time_of_day"`
	Reason   string     `json:"reason,omitempty" bson:"reason,omitempty" validate:"omitempty,max=200"`
}

// HasHours reports whether the override carries a usable replacement
// range.
func (o *DateOverride) HasHours() bool {
	return o.Open != nil && o.Close != nil && *o.Open < *o.Close
}
