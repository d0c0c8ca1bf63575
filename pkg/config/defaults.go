package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "lanebook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Booking grid: candidate starts advance in 30-minute steps.
	DefaultSlotStepMin = 30

	// Advisory slot locks auto-expire so a crashed committer cannot
	// wedge a slot.
	DefaultSlotLockTTL = 10 * time.Second

	// Read-path snapshot cache. Commit-time validation never uses it.
	DefaultAvailabilityCacheTTL = 5 * time.Second

	// Fallback hours applied when no default week document has been
	// configured yet.
	DefaultOpen  = "09:00"
	DefaultClose = "18:00"

	DefaultKafkaEnabled       = false
	DefaultBookingEventsTopic = "lane-booking-events"

	DefaultPaginationLimit = 100
)

// DefaultAllowedDurationsMin is the caller-selectable set of booking
// lengths, in minutes.
var DefaultAllowedDurationsMin = []int{30, 60, 90, 120}
