package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	reserrors "slotify/internal/reservations/errors"
	apperrors "slotify/pkg/errors"
	"slotify/pkg/kafka"
	"slotify/pkg/model"
)

type bookingDeps struct {
	bookingRepo  *mockBookingRepository
	holdRepo     *mockHoldRepository
	lockRepo     *mockSlotLockRepository
	storeRepo    *mockStoreRepository
	menuRepo     *mockMenuRepository
	resourceRepo *mockResourceRepository
	publisher    EventPublisher
}

func newBookingServiceUnderTest(d bookingDeps) BookingService {
	if d.bookingRepo == nil {
		d.bookingRepo = &mockBookingRepository{}
	}
	if d.holdRepo == nil {
		d.holdRepo = &mockHoldRepository{}
	}
	if d.lockRepo == nil {
		d.lockRepo = &mockSlotLockRepository{}
	}
	if d.storeRepo == nil {
		d.storeRepo = &mockStoreRepository{}
	}
	if d.menuRepo == nil {
		d.menuRepo = &mockMenuRepository{}
	}
	if d.resourceRepo == nil {
		d.resourceRepo = &mockResourceRepository{}
	}

	cfg := newTestConfig()
	availabilityCache := newTestCache()
	detector := NewConflictDetector(d.bookingRepo, d.holdRepo, cfg)
	holds := NewHoldService(d.holdRepo, d.lockRepo, detector, d.storeRepo, d.menuRepo, d.resourceRepo, availabilityCache, cfg)

	return NewBookingService(
		d.bookingRepo,
		d.lockRepo,
		holds,
		detector,
		d.storeRepo,
		d.menuRepo,
		d.resourceRepo,
		d.publisher,
		availabilityCache,
		cfg,
	)
}

func TestCreateBooking_AutoApprovalConfirms(t *testing.T) {
	publisher := &mockPublisher{}
	service := newBookingServiceUnderTest(bookingDeps{publisher: publisher})

	booking, err := service.CreateBooking(context.Background(), "store-1", &model.BookingRequest{
		MenuID:     "menu-1",
		ResourceID: "res-1",
		OptionIDs:  []string{"opt-1"},
		Date:       tomorrow(),
		Start:      "10:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != model.BookingStatusConfirmed {
		t.Errorf("auto-approval store must confirm, got %s", booking.Status)
	}
	want := model.TimeInterval{Start: 600, End: 660}
	if booking.Interval != want {
		t.Errorf("interval: expected %v, got %v", want, booking.Interval)
	}
	if booking.TotalPrice != 4800 {
		t.Errorf("total price: expected 4800, got %d", booking.TotalPrice)
	}

	if len(publisher.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(publisher.published))
	}
	msg := publisher.published[0]
	if msg.Headers[kafka.HeaderEventType] != EventBookingCreated {
		t.Errorf("event type: expected %s, got %s", EventBookingCreated, msg.Headers[kafka.HeaderEventType])
	}
	var event BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if event.Start != "10:00" || event.End != "11:00" || event.TotalPrice != 4800 {
		t.Errorf("unexpected event payload: %+v", event)
	}
}

func TestCreateBooking_ManualApprovalStaysPending(t *testing.T) {
	store := testStore()
	store.AutoApproval = false
	storeRepo := &mockStoreRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Store, error) {
			return store, nil
		},
	}
	service := newBookingServiceUnderTest(bookingDeps{storeRepo: storeRepo})

	booking, err := service.CreateBooking(context.Background(), "store-1", &model.BookingRequest{
		MenuID:     "menu-1",
		ResourceID: "res-1",
		Date:       tomorrow(),
		Start:      "10:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.BookingStatusPending {
		t.Errorf("expected pending without auto-approval, got %s", booking.Status)
	}
}

func TestCreateBooking_ConsumesHold(t *testing.T) {
	date := tomorrow()
	var mu sync.Mutex
	leases := map[string]*model.HoldLease{
		"token-1": {
			Token:      "token-1",
			StoreID:    "store-1",
			ResourceID: "res-1",
			Date:       date,
			Interval:   model.TimeInterval{Start: 600, End: 660},
			MenuID:     "menu-1",
			ExpiresAt:  time.Now().UTC().Add(5 * time.Minute),
		},
	}
	holdRepo := &mockHoldRepository{
		findByTokenFunc: func(ctx context.Context, token string) (*model.HoldLease, error) {
			mu.Lock()
			defer mu.Unlock()
			lease, ok := leases[token]
			if !ok {
				return nil, reserrors.ErrLeaseGone
			}
			return lease, nil
		},
		deleteFunc: func(ctx context.Context, token string) (bool, error) {
			mu.Lock()
			defer mu.Unlock()
			_, ok := leases[token]
			delete(leases, token)
			return ok, nil
		},
	}
	service := newBookingServiceUnderTest(bookingDeps{holdRepo: holdRepo})

	booking, err := service.CreateBooking(context.Background(), "store-1", &model.BookingRequest{
		MenuID:     "menu-1",
		ResourceID: "res-1",
		Date:       date,
		Start:      "10:00",
		HoldToken:  "token-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking == nil {
		t.Fatal("expected a booking")
	}

	mu.Lock()
	defer mu.Unlock()
	if _, ok := leases["token-1"]; ok {
		t.Error("the consumed lease must be released")
	}
}

func TestCreateBooking_ExpiredHoldAborts(t *testing.T) {
	persisted := false
	bookingRepo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			persisted = true
			return nil
		},
	}
	holdRepo := &mockHoldRepository{
		findByTokenFunc: func(ctx context.Context, token string) (*model.HoldLease, error) {
			return nil, reserrors.ErrLeaseGone
		},
	}
	service := newBookingServiceUnderTest(bookingDeps{bookingRepo: bookingRepo, holdRepo: holdRepo})

	_, err := service.CreateBooking(context.Background(), "store-1", &model.BookingRequest{
		MenuID:     "menu-1",
		ResourceID: "res-1",
		Date:       tomorrow(),
		Start:      "10:00",
		HoldToken:  "token-1",
	})
	if !apperrors.IsCode(err, apperrors.CodeHoldExpired) {
		t.Fatalf("expected %s, got %v", apperrors.CodeHoldExpired, err)
	}
	if persisted {
		t.Error("no booking may be persisted when the hold is invalid")
	}
}

func TestCreateBooking_HoldMismatchAborts(t *testing.T) {
	date := tomorrow()
	holdRepo := &mockHoldRepository{
		findByTokenFunc: func(ctx context.Context, token string) (*model.HoldLease, error) {
			return &model.HoldLease{
				Token:      token,
				StoreID:    "store-1",
				ResourceID: "res-1",
				Date:       date,
				Interval:   model.TimeInterval{Start: 720, End: 780},
				ExpiresAt:  time.Now().UTC().Add(5 * time.Minute),
			}, nil
		},
	}
	service := newBookingServiceUnderTest(bookingDeps{holdRepo: holdRepo})

	_, err := service.CreateBooking(context.Background(), "store-1", &model.BookingRequest{
		MenuID:     "menu-1",
		ResourceID: "res-1",
		Date:       date,
		Start:      "10:00",
		HoldToken:  "token-1",
	})
	if !apperrors.IsCode(err, apperrors.CodeHoldMismatch) {
		t.Fatalf("expected %s, got %v", apperrors.CodeHoldMismatch, err)
	}
}

func TestCreateBooking_ConflictOnRecheck(t *testing.T) {
	persisted := false
	bookingRepo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			persisted = true
			return nil
		},
		findOverlappingFunc: func(ctx context.Context, storeID, resourceID, date string, interval model.TimeInterval, statuses []string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: "existing", Status: model.BookingStatusConfirmed, Interval: model.TimeInterval{Start: 630, End: 690}},
			}, nil
		},
	}
	service := newBookingServiceUnderTest(bookingDeps{bookingRepo: bookingRepo})

	_, err := service.CreateBooking(context.Background(), "store-1", &model.BookingRequest{
		MenuID:     "menu-1",
		ResourceID: "res-1",
		Date:       tomorrow(),
		Start:      "10:00",
	})
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected %s, got %v", apperrors.CodeConflict, err)
	}
	if persisted {
		t.Error("no booking may be persisted on conflict")
	}
}

func TestCreateBooking_OutsideBusinessHours(t *testing.T) {
	service := newBookingServiceUnderTest(bookingDeps{})

	_, err := service.CreateBooking(context.Background(), "store-1", &model.BookingRequest{
		MenuID:     "menu-1",
		ResourceID: "res-1",
		Date:       tomorrow(),
		Start:      "08:00",
	})
	if !apperrors.IsCode(err, apperrors.CodeOutsideHours) {
		t.Fatalf("expected %s, got %v", apperrors.CodeOutsideHours, err)
	}
}

func TestCreateBooking_PublishFailureDoesNotRollBack(t *testing.T) {
	publisher := &mockPublisher{
		publishFunc: func(ctx context.Context, msg kafka.Message) error {
			return errors.New("broker unreachable")
		},
	}
	service := newBookingServiceUnderTest(bookingDeps{publisher: publisher})

	booking, err := service.CreateBooking(context.Background(), "store-1", &model.BookingRequest{
		MenuID:     "menu-1",
		ResourceID: "res-1",
		Date:       tomorrow(),
		Start:      "10:00",
	})
	if err != nil {
		t.Fatalf("publish failure must not fail the booking: %v", err)
	}
	if booking == nil {
		t.Fatal("expected a booking")
	}
}

// Fire concurrent bookings for the same slot through stateful in-memory
// stores: the advisory lock plus the conflict re-check must let exactly
// one commit.
func TestCreateBooking_ConcurrentSameSlot(t *testing.T) {
	var storeMu sync.Mutex
	var committed []*model.Booking
	seq := 0

	bookingRepo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			storeMu.Lock()
			defer storeMu.Unlock()
			seq++
			booking.ID = fmt.Sprintf("booking-%d", seq)
			committed = append(committed, booking)
			return nil
		},
		findOverlappingFunc: func(ctx context.Context, storeID, resourceID, date string, interval model.TimeInterval, statuses []string) ([]*model.Booking, error) {
			storeMu.Lock()
			defer storeMu.Unlock()
			var out []*model.Booking
			for _, b := range committed {
				if b.StoreID != storeID || b.ResourceID != resourceID || b.Date != date {
					continue
				}
				if b.Interval.Overlaps(interval) {
					out = append(out, b)
				}
			}
			return out, nil
		},
	}

	var lockMu sync.Mutex
	locks := map[string]bool{}
	lockRepo := &mockSlotLockRepository{
		acquireFunc: func(ctx context.Context, lockID string, ttl time.Duration) error {
			lockMu.Lock()
			defer lockMu.Unlock()
			if locks[lockID] {
				return reserrors.ErrLockHeld
			}
			locks[lockID] = true
			return nil
		},
		releaseFunc: func(ctx context.Context, lockID string) error {
			lockMu.Lock()
			defer lockMu.Unlock()
			delete(locks, lockID)
			return nil
		},
	}

	service := newBookingServiceUnderTest(bookingDeps{bookingRepo: bookingRepo, lockRepo: lockRepo})

	const attempts = 16
	date := tomorrow()
	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, results[n] = service.CreateBooking(context.Background(), "store-1", &model.BookingRequest{
				MenuID:     "menu-1",
				ResourceID: "res-1",
				Date:       date,
				Start:      "10:00",
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		if !apperrors.IsCode(err, apperrors.CodeConflict) {
			t.Errorf("losers must observe a conflict, got %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("exactly one concurrent booking must win, got %d", successes)
	}
	if len(committed) != 1 {
		t.Fatalf("exactly one booking may be committed, got %d", len(committed))
	}
}

func TestCancelBooking_FreesSlot(t *testing.T) {
	date := tomorrow()
	var transition string
	bookingRepo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{
				ID:       id,
				StoreID:  "store-1",
				Date:     date,
				Status:   model.BookingStatusConfirmed,
				Interval: model.TimeInterval{Start: 600, End: 660},
			}, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, fromStatuses []string, to string) error {
			transition = to
			return nil
		},
	}
	publisher := &mockPublisher{}
	service := newBookingServiceUnderTest(bookingDeps{bookingRepo: bookingRepo, publisher: publisher})

	if err := service.CancelBooking(context.Background(), "store-1", "booking-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transition != model.BookingStatusCancelled {
		t.Errorf("expected transition to cancelled, got %q", transition)
	}
	if len(publisher.published) != 1 || publisher.published[0].Headers[kafka.HeaderEventType] != EventBookingCancelled {
		t.Error("expected a booking.cancelled event")
	}
}

func TestCancelBooking_TerminalStateRejected(t *testing.T) {
	bookingRepo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{
				ID:      id,
				StoreID: "store-1",
				Status:  model.BookingStatusCompleted,
			}, nil
		},
	}
	service := newBookingServiceUnderTest(bookingDeps{bookingRepo: bookingRepo})

	err := service.CancelBooking(context.Background(), "store-1", "booking-1")
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected %s, got %v", apperrors.CodeValidation, err)
	}
}

func TestCancelBooking_OtherStoreHidden(t *testing.T) {
	bookingRepo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{
				ID:      id,
				StoreID: "store-2",
				Status:  model.BookingStatusConfirmed,
			}, nil
		},
	}
	service := newBookingServiceUnderTest(bookingDeps{bookingRepo: bookingRepo})

	err := service.CancelBooking(context.Background(), "store-1", "booking-1")
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected %s, got %v", apperrors.CodeNotFound, err)
	}
}
