package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "slotify"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultBookingEventTopic = "booking-events"
	DefaultBookingEventDLQ   = "booking-events-dlq"

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Abandoned checkouts are reclaimed after this window unless the
	// store overrides it per tenant.
	DefaultHoldTTL = 600 * time.Second

	// Advisory bucket locks only bridge the conflict-check-then-write
	// window, so they expire fast.
	DefaultSlotLockTTL = 10 * time.Second

	DefaultHoldSweepInterval    = 1 * time.Minute
	DefaultSlotIntervalMin      = 15
	DefaultAvailabilityCacheTTL = 5 * time.Minute
	DefaultBookingWindowDays    = 30

	DefaultPaginationLimit = 100
)
