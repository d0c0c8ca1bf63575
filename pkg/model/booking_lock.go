package model

import (
	"fmt"
	"time"
)

// BookingLock is an advisory lock document preventing two concurrent
// commit attempts for the same slot. The unique _id insert is the only
// compare-and-swap the store offers across arbitrary queries, so the
// lock ID encodes the slot coordinates.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// SlotLockID builds the lock document key for one lane/date/start slot.
func SlotLockID(laneID, date string, start TimeOfDay) string {
	return fmt.Sprintf("slot_%s_%s_%d", laneID, date, int(start))
}

// Expired reports whether the lock's TTL has elapsed at the given time.
func (l *BookingLock) Expired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}
