package model

import "time"

// Booking statuses. A cancelled booking is retained for audit but
// never occupies time in any availability computation.
const (
	StatusBooked    = "booked"
	StatusCancelled = "cancelled"
)

type Booking struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	LaneID      string    `json:"lane_id" bson:"lane_id" validate:"required,mongodb"`
	Date        string    `json:"date" bson:"date" validate:"required,calendar_date"`
	Start       TimeOfDay `json:"start" bson:"start" validate:"time_of_day"`
	End         TimeOfDay `json:"end" bson:"end" validate:"time_of_day,gtfield=Start"`
	Status      string    `json:"status" bson:"status" validate:"required,oneof=booked cancelled"`
	RequesterID string    `json:"requester_id" bson:"requester_id" validate:"required,min=1,max=100"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Range returns the occupied span as a TimeRange.
func (b *Booking) Range() TimeRange {
	return TimeRange{Start: b.Start, End: b.End}
}

// BookingRequest is the inbound shape of a booking attempt. Times and
// the date arrive in canonical string form and are parsed at the
// handler boundary before the committer sees them.
type BookingRequest struct {
	LaneID      string `json:"lane_id" validate:"required,mongodb"`
	Date        string `json:"date" validate:"required,calendar_date"`
	Start       string `json:"start" validate:"required"`
	DurationMin int    `json:"duration_min" validate:"required,min=1,max=480"`
	RequesterID string `json:"requester_id" validate:"required,min=1,max=100"`
}
