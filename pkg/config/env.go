package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvKafkaBrokers      = "KAFKA_BROKERS"
	EnvBookingEventTopic = "BOOKING_EVENT_TOPIC"
	EnvBookingEventDLQ   = "BOOKING_EVENT_DLQ_TOPIC"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvHoldTTL              = "HOLD_TTL"
	EnvSlotLockTTL          = "SLOT_LOCK_TTL"
	EnvHoldSweepInterval    = "HOLD_SWEEP_INTERVAL"
	EnvSlotIntervalMin      = "SLOT_INTERVAL_MIN"
	EnvAvailabilityCacheTTL = "AVAILABILITY_CACHE_TTL"
	EnvBookingWindowDays    = "BOOKING_WINDOW_DAYS"
)
