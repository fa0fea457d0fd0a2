package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	apperrors "slotify/pkg/errors"
	"slotify/pkg/model"
)

type availabilityDeps struct {
	storeRepo    *mockStoreRepository
	menuRepo     *mockMenuRepository
	resourceRepo *mockResourceRepository
	bookingRepo  *mockBookingRepository
	holdRepo     *mockHoldRepository
}

func newAvailabilityServiceUnderTest(d availabilityDeps) AvailabilityService {
	if d.storeRepo == nil {
		d.storeRepo = &mockStoreRepository{}
	}
	if d.menuRepo == nil {
		d.menuRepo = &mockMenuRepository{}
	}
	if d.resourceRepo == nil {
		d.resourceRepo = &mockResourceRepository{}
	}
	if d.bookingRepo == nil {
		d.bookingRepo = &mockBookingRepository{}
	}
	if d.holdRepo == nil {
		d.holdRepo = &mockHoldRepository{}
	}

	return NewAvailabilityService(
		d.storeRepo,
		d.menuRepo,
		d.resourceRepo,
		d.bookingRepo,
		d.holdRepo,
		newTestCache(),
		newTestConfig(),
	)
}

func slotStarts(slots []*model.Slot) map[string]bool {
	starts := make(map[string]bool, len(slots))
	for _, slot := range slots {
		starts[slot.Start] = true
	}
	return starts
}

// Store open 09:00-18:00, 60-minute menu, one resource with a confirmed
// booking 10:00-11:00: the 09:00 and 11:00 slots survive, every start
// whose interval touches the booking does not.
func TestGetAvailableSlots_BookedSlotExcluded(t *testing.T) {
	bookingRepo := &mockBookingRepository{
		findOverlappingFunc: func(ctx context.Context, storeID, resourceID, date string, interval model.TimeInterval, statuses []string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: "booking-1", Status: model.BookingStatusConfirmed, Interval: model.TimeInterval{Start: 600, End: 660}},
			}, nil
		},
	}
	service := newAvailabilityServiceUnderTest(availabilityDeps{bookingRepo: bookingRepo})

	slots, err := service.GetAvailableSlots(context.Background(), "store-1", tomorrow(), "menu-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	starts := slotStarts(slots)
	for _, want := range []string{"09:00", "11:00", "17:00"} {
		if !starts[want] {
			t.Errorf("expected slot at %s", want)
		}
	}
	for _, taken := range []string{"09:15", "09:30", "09:45", "10:00", "10:15", "10:30", "10:45"} {
		if starts[taken] {
			t.Errorf("slot at %s overlaps the booking and must be excluded", taken)
		}
	}
	if starts["17:15"] {
		t.Error("slot at 17:15 would run past closing and must be excluded")
	}

	for i := 1; i < len(slots); i++ {
		if slots[i-1].Interval.Start >= slots[i].Interval.Start {
			t.Fatal("slots must be ordered by start time ascending")
		}
	}
}

func TestGetAvailableSlots_LiveLeaseExcludesResource(t *testing.T) {
	holdRepo := &mockHoldRepository{
		findLiveFunc: func(ctx context.Context, storeID, resourceID, date string, interval model.TimeInterval, now time.Time) ([]*model.HoldLease, error) {
			return []*model.HoldLease{
				{Token: "held", Interval: model.TimeInterval{Start: 660, End: 720}, ExpiresAt: time.Now().UTC().Add(5 * time.Minute)},
			}, nil
		},
	}
	service := newAvailabilityServiceUnderTest(availabilityDeps{holdRepo: holdRepo})

	slots, err := service.GetAvailableSlots(context.Background(), "store-1", tomorrow(), "menu-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	starts := slotStarts(slots)
	if starts["11:00"] {
		t.Error("slot at 11:00 is held by a live lease and must be excluded")
	}
	if !starts["12:00"] {
		t.Error("expected slot at 12:00 after the lease")
	}
}

func TestGetAvailableSlots_ClosedOverride(t *testing.T) {
	date := tomorrow()
	store := testStore()
	store.CalendarOverrides = map[string]model.CalendarOverride{
		date: {IsClosed: true},
	}
	storeRepo := &mockStoreRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Store, error) {
			return store, nil
		},
	}
	service := newAvailabilityServiceUnderTest(availabilityDeps{storeRepo: storeRepo})

	slots, err := service.GetAvailableSlots(context.Background(), "store-1", date, "menu-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("a closed override must short-circuit to empty, got %d slots", len(slots))
	}
}

func TestGetAvailableSlots_SpecialHoursOverrideWins(t *testing.T) {
	date := tomorrow()
	store := testStore()
	store.CalendarOverrides = map[string]model.CalendarOverride{
		date: {SpecialHours: &model.DayHours{Open: "13:00", Close: "15:00"}},
	}
	storeRepo := &mockStoreRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Store, error) {
			return store, nil
		},
	}
	service := newAvailabilityServiceUnderTest(availabilityDeps{storeRepo: storeRepo})

	slots, err := service.GetAvailableSlots(context.Background(), "store-1", date, "menu-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	starts := slotStarts(slots)
	if starts["09:00"] {
		t.Error("weekly hours must not apply when special hours override the day")
	}
	if !starts["13:00"] || !starts["14:00"] {
		t.Errorf("expected slots inside the special window, got %v", starts)
	}
}

func TestGetAvailableSlots_OutsideBookingWindow(t *testing.T) {
	service := newAvailabilityServiceUnderTest(availabilityDeps{})

	farOut := time.Now().UTC().AddDate(0, 0, 90).Format(model.DateLayout)
	_, err := service.GetAvailableSlots(context.Background(), "store-1", farOut, "menu-1", "")
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected %s, got %v", apperrors.CodeValidation, err)
	}
}

func TestGetAvailableSlots_ResourceOutsideWorkingHours(t *testing.T) {
	// Resource works 12:00-18:00; morning slots have no one to serve them.
	resource := testResource()
	resource.WorkingHours = allWeekHours("12:00", "18:00")
	resourceRepo := &mockResourceRepository{
		findActiveByStoreFunc: func(ctx context.Context, storeID string) ([]*model.Resource, error) {
			return []*model.Resource{resource}, nil
		},
	}
	service := newAvailabilityServiceUnderTest(availabilityDeps{resourceRepo: resourceRepo})

	slots, err := service.GetAvailableSlots(context.Background(), "store-1", tomorrow(), "menu-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	starts := slotStarts(slots)
	if starts["09:00"] || starts["11:30"] {
		t.Error("slots before the resource starts working must be excluded")
	}
	if !starts["12:00"] {
		t.Error("expected slot at 12:00 when the resource comes on shift")
	}
}

func TestGetAvailableSlots_CachesPerScope(t *testing.T) {
	var queries int64
	bookingRepo := &mockBookingRepository{
		findOverlappingFunc: func(ctx context.Context, storeID, resourceID, date string, interval model.TimeInterval, statuses []string) ([]*model.Booking, error) {
			atomic.AddInt64(&queries, 1)
			return []*model.Booking{}, nil
		},
	}
	service := newAvailabilityServiceUnderTest(availabilityDeps{bookingRepo: bookingRepo})

	date := tomorrow()
	if _, err := service.GetAvailableSlots(context.Background(), "store-1", date, "menu-1", ""); err != nil {
		t.Fatalf("first call: %v", err)
	}
	first := atomic.LoadInt64(&queries)
	if first == 0 {
		t.Fatal("first call must hit the store")
	}

	if _, err := service.GetAvailableSlots(context.Background(), "store-1", date, "menu-1", ""); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if atomic.LoadInt64(&queries) != first {
		t.Error("second call must be served from cache")
	}
}

func TestGetAvailabilityCalendar_SummarizesDays(t *testing.T) {
	bookingRepo := &mockBookingRepository{
		findOverlappingFunc: func(ctx context.Context, storeID, resourceID, date string, interval model.TimeInterval, statuses []string) ([]*model.Booking, error) {
			return []*model.Booking{}, nil
		},
	}
	service := newAvailabilityServiceUnderTest(availabilityDeps{bookingRepo: bookingRepo})

	calendar, err := service.GetAvailabilityCalendar(context.Background(), "store-1", "menu-1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calendar) != 3 {
		t.Fatalf("expected 3 days, got %d", len(calendar))
	}

	for date, day := range calendar {
		if !day.Available {
			t.Errorf("%s: expected availability on an open day", date)
		}
		if day.FirstAvailable != "09:00" {
			t.Errorf("%s: expected first slot 09:00, got %q", date, day.FirstAvailable)
		}
		if day.SlotsCount != 33 {
			t.Errorf("%s: expected 33 slots for 09:00-18:00 with a 60m menu, got %d", date, day.SlotsCount)
		}
	}
}
