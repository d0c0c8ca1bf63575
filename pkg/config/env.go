package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSlotStepMin          = "SLOT_STEP_MIN"
	EnvAllowedDurationsMin  = "ALLOWED_DURATIONS_MIN"
	EnvSlotLockTTL          = "SLOT_LOCK_TTL"
	EnvAvailabilityCacheTTL = "AVAILABILITY_CACHE_TTL"

	EnvDefaultOpen  = "DEFAULT_OPEN"
	EnvDefaultClose = "DEFAULT_CLOSE"

	EnvKafkaEnabled       = "KAFKA_ENABLED"
	EnvBookingEventsTopic = "BOOKING_EVENTS_TOPIC"
)
