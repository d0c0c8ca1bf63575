package service

import (
	"context"
	"time"

	"lanebook/pkg/kafka"
	"lanebook/pkg/model"
)

// Booking lifecycle event types published to the booking events topic.
const (
	EventBookingCommitted = "booking.committed"
	EventBookingCancelled = "booking.cancelled"

	eventSource        = "lanebook"
	eventSchemaVersion = "1"
)

// EventPublisher is the slice of the Kafka producer the committer
// needs. A nil publisher disables event publishing.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// bookingEvent is the payload shape for both lifecycle events.
type bookingEvent struct {
	BookingID   string `json:"booking_id"`
	LaneID      string `json:"lane_id"`
	Date        string `json:"date"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Status      string `json:"status"`
	RequesterID string `json:"requester_id"`
	OccurredAt  string `json:"occurred_at"`
}

// publishEvent emits a lifecycle event keyed by lane so per-lane
// ordering holds. Publishing is best-effort: a broker failure is logged
// and never alters the outcome already committed to the store.
func (s *bookingService) publishEvent(ctx context.Context, eventType string, booking *model.Booking) {
	if s.publisher == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(booking.LaneID).
		WithEventType(eventType).
		WithSource(eventSource).
		WithSchemaVersion(eventSchemaVersion).
		WithValue(bookingEvent{
			BookingID:   booking.ID,
			LaneID:      booking.LaneID,
			Date:        booking.Date,
			Start:       booking.Start.String(),
			End:         booking.End.String(),
			Status:      booking.Status,
			RequesterID: booking.RequesterID,
			OccurredAt:  time.Now().UTC().Format(time.RFC3339),
		}).
		Build()

	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
