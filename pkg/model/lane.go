package model

import "time"

// Lane types. A lane is one bookable physical unit of the facility.
const (
	LaneTypeIndoor  = "indoor"
	LaneTypeOutdoor = "outdoor"
)

type Lane struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Type      string    `json:"type" bson:"type" validate:"required,oneof=indoor outdoor"`
	IsActive  bool      `json:"is_active" bson:"is_active"`
	SortOrder int       `json:"sort_order" bson:"sort_order" validate:"min=0,max=1000"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// LaneUpdate carries partial changes; nil/zero fields are left alone.
// Lanes are never hard-deleted, only disabled via IsActive.
type LaneUpdate struct {
	Name      string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Type      string `json:"type,omitempty" validate:"omitempty,oneof=indoor outdoor"`
	IsActive  *bool  `json:"is_active,omitempty"`
	SortOrder *int   `json:"sort_order,omitempty" validate:"omitempty,min=0,max=1000"`
}

// BlockedInterval is administrator-imposed unavailability for one lane
// on one date, independent of bookings.
type BlockedInterval struct {
	ID     string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	LaneID string    `json:"lane_id" bson:"lane_id" validate:"required,mongodb"`
	Date   string    `json:"date" bson:"date" validate:"required,calendar_date"`
	Start  TimeOfDay `json:"start" bson:"start" validate:"time_of_day"`
	End    TimeOfDay `json:"end" bson:"end" validate:"time_of_day,gtfield=Start"`
	Reason string    `json:"reason,omitempty" bson:"reason,omitempty" validate:"omitempty,max=200"`
}

// Range returns the blocked span as a TimeRange.
func (b *BlockedInterval) Range() TimeRange {
	return TimeRange{Start: b.Start, End: b.End}
}
