package service

import (
	"context"
	"errors"
	"time"

	catalogerrors "slotify/internal/catalog/errors"
	catalogrepo "slotify/internal/catalog/repository"
	reserrors "slotify/internal/reservations/errors"
	"slotify/internal/reservations/repository"
	"slotify/pkg/cache"
	"slotify/pkg/config"
	apperrors "slotify/pkg/errors"
	"slotify/pkg/kafka"
	"slotify/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is the payload published on booking lifecycle changes,
// consumed by the notification collaborator.
type BookingEvent struct {
	BookingID  string `json:"booking_id"`
	StoreID    string `json:"store_id"`
	ResourceID string `json:"resource_id"`
	MenuID     string `json:"menu_id"`
	CustomerID string `json:"customer_id,omitempty"`
	Date       string `json:"date"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Status     string `json:"status"`
	TotalPrice int64  `json:"total_price"`
}

// EventPublisher is the slice of the Kafka producer the orchestrator
// needs. Publishing is fire-and-forget: a publish failure never rolls
// back a committed booking.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, storeID string, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, storeID, id string) (*model.Booking, error)
	CancelBooking(ctx context.Context, storeID, id string) error
}

type bookingService struct {
	bookingRepo  repository.BookingRepository
	lockRepo     repository.SlotLockRepository
	holds        HoldService
	conflicts    ConflictDetector
	storeRepo    catalogrepo.StoreRepository
	menuRepo     catalogrepo.MenuRepository
	resourceRepo catalogrepo.ResourceRepository
	publisher    EventPublisher
	cache        *cache.ScopedCache
	cfg          *config.Config
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	lockRepo repository.SlotLockRepository,
	holds HoldService,
	conflicts ConflictDetector,
	storeRepo catalogrepo.StoreRepository,
	menuRepo catalogrepo.MenuRepository,
	resourceRepo catalogrepo.ResourceRepository,
	publisher EventPublisher,
	availabilityCache *cache.ScopedCache,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		lockRepo:     lockRepo,
		holds:        holds,
		conflicts:    conflicts,
		storeRepo:    storeRepo,
		menuRepo:     menuRepo,
		resourceRepo: resourceRepo,
		publisher:    publisher,
		cache:        availabilityCache,
		cfg:          cfg,
	}
}

// CreateBooking commits a reservation. The advisory slot lock
// serializes writers on the (store, resource, date) bucket, and the
// whole sequence runs inside one transaction: hold validation and
// consumption, conflict re-check, hours check, persist. Under
// concurrent attempts on overlapping intervals exactly one commits;
// the rest observe a conflict.
func (s *bookingService) CreateBooking(ctx context.Context, storeID string, req *model.BookingRequest) (*model.Booking, error) {
	store, menu, resource, err := s.resolveCatalog(ctx, storeID, req.MenuID, req.ResourceID)
	if err != nil {
		return nil, err
	}

	if _, err := model.ParseDate(req.Date); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	start, err := model.ParseClock(req.Start)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	interval := model.TimeInterval{Start: start, End: start + menu.TotalDurationMin()}
	if !interval.Valid() {
		return nil, apperrors.Validation("Requested slot extends past end of day", map[string]any{
			"start":        req.Start,
			"duration_min": menu.TotalDurationMin(),
		})
	}

	lockID := repository.SlotLockID(storeID, req.ResourceID, req.Date)
	if err := s.lockRepo.Acquire(ctx, lockID, s.cfg.SlotLockTTL); err != nil {
		if errors.Is(err, reserrors.ErrLockHeld) {
			return nil, apperrors.Conflict("The requested slot is being processed by another request")
		}
		return nil, apperrors.Unavailable("Booking store", err)
	}
	defer func() {
		if releaseErr := s.lockRepo.Release(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	var booking *model.Booking
	err = s.bookingRepo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if req.HoldToken != "" {
			if _, err := s.holds.ValidateHold(sessCtx, storeID, req.HoldToken, req.ResourceID, req.Date, interval); err != nil {
				return err
			}
			if _, err := s.holds.ReleaseHold(sessCtx, req.HoldToken); err != nil {
				return err
			}
		}

		// Re-check guards against a lease that expired between hold
		// validation and commit, and against out-of-band bookings.
		conflict, err := s.conflicts.HasConflict(sessCtx, ConflictQuery{
			StoreID:          storeID,
			ResourceID:       req.ResourceID,
			Date:             req.Date,
			Interval:         interval,
			ExcludeHoldToken: req.HoldToken,
		})
		if err != nil {
			return err
		}
		if conflict != nil {
			return apperrors.Conflict("The requested time slot is no longer available").WithDetails(map[string]any{
				"source":   conflict.Source,
				"interval": conflict.Interval.String(),
			})
		}

		if err := s.checkHours(store, resource, req.Date, interval); err != nil {
			return err
		}

		pricing := ComputePrice(menu, req.OptionIDs, resource)

		status := model.BookingStatusPending
		if store.AutoApproval {
			status = model.BookingStatusConfirmed
		}

		booking = &model.Booking{
			StoreID:    storeID,
			ResourceID: req.ResourceID,
			MenuID:     req.MenuID,
			OptionIDs:  req.OptionIDs,
			CustomerID: req.CustomerID,
			Date:       req.Date,
			Interval:   interval,
			Status:     status,
			TotalPrice: pricing.Total,
			Pricing:    pricing,
		}
		if err := s.bookingRepo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"store_id", storeID,
			"resource_id", req.ResourceID,
			"date", req.Date,
			"error", err,
		)
		return nil, err
	}

	s.cache.Invalidate(availabilityScope(storeID, req.Date))
	s.publishEvent(EventBookingCreated, booking)

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"store_id", storeID,
		"resource_id", req.ResourceID,
		"date", req.Date,
		"interval", interval.String(),
		"status", booking.Status,
		"total_price", booking.TotalPrice,
	)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, storeID, id string) (*model.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reserrors.ErrNotFound) || errors.Is(err, reserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Unavailable("Booking store", err)
	}
	if booking.StoreID != storeID {
		return nil, apperrors.NotFoundWithID("Booking", id)
	}
	return booking, nil
}

// CancelBooking moves a pending or confirmed booking to cancelled and
// frees its slot. The status transition is conditional at the store
// layer, so a concurrent completion or cancellation cannot be undone.
func (s *bookingService) CancelBooking(ctx context.Context, storeID, id string) error {
	booking, err := s.GetByID(ctx, storeID, id)
	if err != nil {
		return err
	}

	cancellable := false
	for _, status := range model.ActiveBookingStatuses {
		if booking.Status == status {
			cancellable = true
			break
		}
	}
	if !cancellable {
		return apperrors.Validation("Booking cannot be cancelled in its current state", map[string]any{
			"status": booking.Status,
		})
	}

	err = s.bookingRepo.UpdateStatus(ctx, id, model.ActiveBookingStatuses, model.BookingStatusCancelled)
	if err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return apperrors.Conflict("Booking changed state concurrently")
		}
		return apperrors.Internal("Failed to cancel booking", err)
	}

	s.cache.Invalidate(availabilityScope(storeID, booking.Date))

	booking.Status = model.BookingStatusCancelled
	s.publishEvent(EventBookingCancelled, booking)

	s.cfg.Log.Info("Booking cancelled", "id", id, "store_id", storeID, "date", booking.Date)
	return nil
}

func (s *bookingService) resolveCatalog(ctx context.Context, storeID, menuID, resourceID string) (*model.Store, *model.Menu, *model.Resource, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) || errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, nil, nil, apperrors.NotFoundWithID("Store", storeID)
		}
		return nil, nil, nil, apperrors.Unavailable("Catalog store", err)
	}

	menu, err := s.menuRepo.FindByID(ctx, storeID, menuID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) || errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, nil, nil, apperrors.NotFoundWithID("Menu", menuID)
		}
		return nil, nil, nil, apperrors.Unavailable("Catalog store", err)
	}
	if !menu.IsActive {
		return nil, nil, nil, apperrors.NotFoundWithID("Menu", menuID)
	}

	resource, err := s.resourceRepo.FindByID(ctx, storeID, resourceID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) || errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, nil, nil, apperrors.NotFoundWithID("Resource", resourceID)
		}
		return nil, nil, nil, apperrors.Unavailable("Catalog store", err)
	}
	if !resource.IsActive {
		return nil, nil, nil, apperrors.ResourceInactive(resourceID)
	}

	return store, menu, resource, nil
}

// checkHours verifies the interval sits inside both the store's open
// window and the resource's working window for the date.
func (s *bookingService) checkHours(store *model.Store, resource *model.Resource, date string, interval model.TimeInterval) error {
	open, isOpen, err := store.OpenWindow(date)
	if err != nil {
		return apperrors.Internal("Failed to resolve business hours", err)
	}
	if !isOpen || !open.Contains(interval) {
		return apperrors.OutsideBusinessHours("Requested time is outside business hours")
	}

	day, err := model.DayOfWeek(date)
	if err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	working, ok, err := resource.WorkingWindow(day)
	if err != nil {
		return apperrors.Internal("Failed to resolve working hours", err)
	}
	if !ok || !working.Contains(interval) {
		return apperrors.OutsideBusinessHours("Requested time is outside the resource's working hours")
	}

	return nil
}

func (s *bookingService) publishEvent(eventType string, booking *model.Booking) {
	if s.publisher == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(booking.StoreID).
		WithValue(BookingEvent{
			BookingID:  booking.ID,
			StoreID:    booking.StoreID,
			ResourceID: booking.ResourceID,
			MenuID:     booking.MenuID,
			CustomerID: booking.CustomerID,
			Date:       booking.Date,
			Start:      model.FormatClock(booking.Interval.Start),
			End:        model.FormatClock(booking.Interval.End),
			Status:     booking.Status,
			TotalPrice: booking.TotalPrice,
		}).
		WithEventType(eventType).
		WithSource("reservations").
		Build()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
