package service

import (
	"context"
	"time"

	"slotify/internal/reservations/repository"
	"slotify/pkg/config"
	apperrors "slotify/pkg/errors"
	"slotify/pkg/model"
)

const (
	ConflictSourceBooking = "booking"
	ConflictSourceHold    = "hold"
)

// Conflict identifies what occupies a requested slot. It is a value
// handed back to callers, who decide whether to surface it or retry
// with a different slot.
type Conflict struct {
	Source   string             `json:"source"`
	ID       string             `json:"id"`
	Interval model.TimeInterval `json:"interval"`
}

// ConflictQuery narrows the check to one (store, resource, date) bucket.
// The exclusions cover update scenarios and the orchestrator re-check,
// where the caller's own booking or lease must not count against it.
type ConflictQuery struct {
	StoreID          string
	ResourceID       string
	Date             string
	Interval         model.TimeInterval
	ExcludeBookingID string
	ExcludeHoldToken string
}

type ConflictDetector interface {
	HasConflict(ctx context.Context, query ConflictQuery) (*Conflict, error)
}

type conflictDetector struct {
	bookingRepo repository.BookingRepository
	holdRepo    repository.HoldRepository
	cfg         *config.Config
}

func NewConflictDetector(
	bookingRepo repository.BookingRepository,
	holdRepo repository.HoldRepository,
	cfg *config.Config,
) ConflictDetector {
	return &conflictDetector{
		bookingRepo: bookingRepo,
		holdRepo:    holdRepo,
		cfg:         cfg,
	}
}

// HasConflict returns the first active booking or live lease overlapping
// the queried interval, or nil when the slot is free. Store I/O failures
// are surfaced as unavailability: uncertainty never reads as "free".
func (d *conflictDetector) HasConflict(ctx context.Context, query ConflictQuery) (*Conflict, error) {
	bookings, err := d.bookingRepo.FindOverlapping(
		ctx,
		query.StoreID, query.ResourceID, query.Date,
		query.Interval,
		model.ActiveBookingStatuses,
	)
	if err != nil {
		d.cfg.Log.Error("Conflict check failed against bookings", "error", err)
		return nil, apperrors.Unavailable("Booking store", err)
	}
	for _, booking := range bookings {
		if query.ExcludeBookingID != "" && booking.ID == query.ExcludeBookingID {
			continue
		}
		return &Conflict{
			Source:   ConflictSourceBooking,
			ID:       booking.ID,
			Interval: booking.Interval,
		}, nil
	}

	now := time.Now().UTC()
	leases, err := d.holdRepo.FindLive(
		ctx,
		query.StoreID, query.ResourceID, query.Date,
		query.Interval,
		now,
	)
	if err != nil {
		d.cfg.Log.Error("Conflict check failed against hold leases", "error", err)
		return nil, apperrors.Unavailable("Lease store", err)
	}
	for _, lease := range leases {
		if query.ExcludeHoldToken != "" && lease.Token == query.ExcludeHoldToken {
			continue
		}
		if !lease.Live(now) {
			continue
		}
		return &Conflict{
			Source:   ConflictSourceHold,
			ID:       lease.Token,
			Interval: lease.Interval,
		}, nil
	}

	return nil, nil
}
