package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"lanebook/internal/bookings/validator"
	"lanebook/pkg/kafka"
)

type memPublisher struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (p *memPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func newPublishingService(publisher EventPublisher) BookingService {
	cfg := testConfig()
	return NewBookingService(
		newMemBookingRepo(),
		newMemLockRepo(),
		&mockLaneRepo{},
		&mockHoursService{},
		validator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)
}

func TestLifecycleEventsPublished(t *testing.T) {
	pub := &memPublisher{}
	svc := newPublishingService(pub)

	booking, err := svc.Attempt(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Attempt(): %v", err)
	}
	if _, err := svc.Cancel(context.Background(), booking.ID); err != nil {
		t.Fatalf("Cancel(): %v", err)
	}
	// Second cancel is a no-op transition and must not re-publish.
	if _, err := svc.Cancel(context.Background(), booking.ID); err != nil {
		t.Fatalf("second Cancel(): %v", err)
	}

	if len(pub.msgs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(pub.msgs))
	}

	wantTypes := []string{EventBookingCommitted, EventBookingCancelled}
	for i, msg := range pub.msgs {
		if got := msg.Headers[kafka.HeaderEventType]; got != wantTypes[i] {
			t.Errorf("event %d type = %s, want %s", i, got, wantTypes[i])
		}
		if msg.Key != testLaneID {
			t.Errorf("event %d key = %s, want lane ID for per-lane ordering", i, msg.Key)
		}
		if msg.Headers[kafka.HeaderEventID] == "" {
			t.Errorf("event %d missing event ID header", i)
		}
	}
}

func TestPublishFailureDoesNotFailCommit(t *testing.T) {
	pub := &memPublisher{err: errors.New("broker unreachable")}
	svc := newPublishingService(pub)

	booking, err := svc.Attempt(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Attempt() must succeed despite publish failure: %v", err)
	}
	if booking.ID == "" {
		t.Error("booking must be committed")
	}
}
