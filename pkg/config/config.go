package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"lanebook/pkg/client"
	"lanebook/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	SlotStepMin          int
	AllowedDurationsMin  []int
	SlotLockTTL          time.Duration
	AvailabilityCacheTTL time.Duration

	DefaultOpen  string
	DefaultClose string

	KafkaEnabled       bool
	BookingEventsTopic string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		SlotStepMin:          getEnvNum(EnvSlotStepMin, DefaultSlotStepMin),
		AllowedDurationsMin:  getEnvIntList(EnvAllowedDurationsMin, DefaultAllowedDurationsMin),
		SlotLockTTL:          getEnvDuration(EnvSlotLockTTL, DefaultSlotLockTTL),
		AvailabilityCacheTTL: getEnvDuration(EnvAvailabilityCacheTTL, DefaultAvailabilityCacheTTL),

		DefaultOpen:  getEnvStr(EnvDefaultOpen, DefaultOpen),
		DefaultClose: getEnvStr(EnvDefaultClose, DefaultClose),

		KafkaEnabled:       getEnvBool(EnvKafkaEnabled, DefaultKafkaEnabled),
		BookingEventsTopic: getEnvStr(EnvBookingEventsTopic, DefaultBookingEventsTopic),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.FormatJSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

var (
	timeRegex     = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	mongoURIRegex = regexp.MustCompile(`^mongodb(\+srv)?://`)
)

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" || !mongoURIRegex.MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}

	for name, d := range map[string]time.Duration{
		"MongoConnTimeout":     cfg.MongoConnTimeout,
		"RateLimitWindow":      cfg.RateLimitWindow,
		"RequestTimeout":       cfg.RequestTimeout,
		"IdempotencyTTL":       cfg.IdempotencyTTL,
		"ReadTimeout":          cfg.ReadTimeout,
		"WriteTimeout":         cfg.WriteTimeout,
		"IdleTimeout":          cfg.IdleTimeout,
		"ShutdownTimeout":      cfg.ShutdownTimeout,
		"SlotLockTTL":          cfg.SlotLockTTL,
		"AvailabilityCacheTTL": cfg.AvailabilityCacheTTL,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.SlotStepMin <= 0 || cfg.SlotStepMin > 240 {
		errs = append(errs, fmt.Sprintf("SlotStepMin must be within 1..240, got: %d", cfg.SlotStepMin))
	}
	if len(cfg.AllowedDurationsMin) == 0 {
		errs = append(errs, "AllowedDurationsMin cannot be empty")
	}
	for _, d := range cfg.AllowedDurationsMin {
		if d <= 0 {
			errs = append(errs, fmt.Sprintf("AllowedDurationsMin entries must be positive, got: %d", d))
		} else if cfg.SlotStepMin > 0 && d%cfg.SlotStepMin != 0 {
			errs = append(errs, fmt.Sprintf("AllowedDurationsMin entry %d must be a multiple of SlotStepMin %d", d, cfg.SlotStepMin))
		}
	}

	if !timeRegex.MatchString(cfg.DefaultOpen) {
		errs = append(errs, fmt.Sprintf("DefaultOpen must be in HH:MM format (00:00-23:59), got: %s", cfg.DefaultOpen))
	}
	if !timeRegex.MatchString(cfg.DefaultClose) {
		errs = append(errs, fmt.Sprintf("DefaultClose must be in HH:MM format (00:00-23:59), got: %s", cfg.DefaultClose))
	}
	if timeRegex.MatchString(cfg.DefaultOpen) && timeRegex.MatchString(cfg.DefaultClose) && cfg.DefaultOpen >= cfg.DefaultClose {
		errs = append(errs, fmt.Sprintf("DefaultOpen (%s) must be before DefaultClose (%s)", cfg.DefaultOpen, cfg.DefaultClose))
	}

	if cfg.KafkaEnabled && cfg.BookingEventsTopic == "" {
		errs = append(errs, "BookingEventsTopic cannot be empty when Kafka is enabled")
	}

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, e := range errs {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

// IsAllowedDuration reports whether the requested booking length is in
// the configured set.
func (cfg *Config) IsAllowedDuration(durationMin int) bool {
	for _, d := range cfg.AllowedDurationsMin {
		if d == durationMin {
			return true
		}
	}
	return false
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"slot_step_min", cfg.SlotStepMin,
		"allowed_durations_min", cfg.AllowedDurationsMin,
		"slot_lock_ttl", cfg.SlotLockTTL,
		"availability_cache_ttl", cfg.AvailabilityCacheTTL,
		"default_open", cfg.DefaultOpen,
		"default_close", cfg.DefaultClose,
		"kafka_enabled", cfg.KafkaEnabled,
		"booking_events_topic", cfg.BookingEventsTopic,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvIntList(key string, fallback []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []int
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fallback
		}
		out = append(out, n)
	}
	return out
}
