package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogerrors "slotify/internal/catalog/errors"
	catalogrepo "slotify/internal/catalog/repository"
	"slotify/internal/reservations/repository"
	"slotify/pkg/cache"
	"slotify/pkg/config"
	apperrors "slotify/pkg/errors"
	"slotify/pkg/model"
)

// availabilityScope is the cache scope every hold or booking mutation
// for a (store, date) pair invalidates. Sibling dates and stores are
// untouched.
func availabilityScope(storeID, date string) string {
	return storeID + ":" + date
}

type AvailabilityService interface {
	GetAvailableSlots(ctx context.Context, storeID, date, menuID, resourceID string) ([]*model.Slot, error)
	GetAvailabilityCalendar(ctx context.Context, storeID, menuID string, days int) (map[string]model.DayAvailability, error)
}

type availabilityService struct {
	storeRepo    catalogrepo.StoreRepository
	menuRepo     catalogrepo.MenuRepository
	resourceRepo catalogrepo.ResourceRepository
	bookingRepo  repository.BookingRepository
	holdRepo     repository.HoldRepository
	cache        *cache.ScopedCache
	cfg          *config.Config
}

func NewAvailabilityService(
	storeRepo catalogrepo.StoreRepository,
	menuRepo catalogrepo.MenuRepository,
	resourceRepo catalogrepo.ResourceRepository,
	bookingRepo repository.BookingRepository,
	holdRepo repository.HoldRepository,
	availabilityCache *cache.ScopedCache,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		storeRepo:    storeRepo,
		menuRepo:     menuRepo,
		resourceRepo: resourceRepo,
		bookingRepo:  bookingRepo,
		holdRepo:     holdRepo,
		cache:        availabilityCache,
		cfg:          cfg,
	}
}

// GetAvailableSlots lists every bookable start time for a menu on a
// date, stepping from the store's opening by the configured slot
// interval. A slot is included only when at least one candidate
// resource is free for the whole interval and working those hours.
func (s *availabilityService) GetAvailableSlots(ctx context.Context, storeID, date, menuID, resourceID string) ([]*model.Slot, error) {
	store, err := s.findStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	target, err := model.ParseDate(date)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	today := s.storeToday(store)
	if target.Before(today) || target.After(today.AddDate(0, 0, s.windowDays(store))) {
		return nil, apperrors.Validation("Date is outside the store's booking window", map[string]any{
			"date":                date,
			"booking_window_days": s.windowDays(store),
		})
	}

	menu, err := s.findMenu(ctx, storeID, menuID)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("slots|%s|%s", menuID, resourceID)
	scope := availabilityScope(storeID, date)
	if cached, ok := s.cache.Get(scope, cacheKey); ok {
		if slots, ok := cached.([]*model.Slot); ok {
			return slots, nil
		}
	}

	slots, err := s.slotsForDay(ctx, store, menu, date, resourceID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(scope, cacheKey, slots)
	return slots, nil
}

// GetAvailabilityCalendar summarizes the next `days` days for the
// booking widget. Days beyond the store's booking window report as
// unavailable without being computed.
func (s *availabilityService) GetAvailabilityCalendar(ctx context.Context, storeID, menuID string, days int) (map[string]model.DayAvailability, error) {
	if days <= 0 {
		return nil, apperrors.InvalidInput("Days must be positive")
	}

	store, err := s.findStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	menu, err := s.findMenu(ctx, storeID, menuID)
	if err != nil {
		return nil, err
	}

	today := s.storeToday(store)
	window := s.windowDays(store)
	calendar := make(map[string]model.DayAvailability, days)

	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, i).Format(model.DateLayout)
		if i > window {
			calendar[date] = model.DayAvailability{}
			continue
		}

		slots, err := s.cachedSlotsForDay(ctx, store, menu, date)
		if err != nil {
			return nil, err
		}

		day := model.DayAvailability{
			Available:  len(slots) > 0,
			SlotsCount: len(slots),
		}
		if len(slots) > 0 {
			day.FirstAvailable = slots[0].Start
		}
		calendar[date] = day
	}

	return calendar, nil
}

func (s *availabilityService) cachedSlotsForDay(ctx context.Context, store *model.Store, menu *model.Menu, date string) ([]*model.Slot, error) {
	cacheKey := fmt.Sprintf("slots|%s|", menu.ID)
	scope := availabilityScope(store.ID, date)
	if cached, ok := s.cache.Get(scope, cacheKey); ok {
		if slots, ok := cached.([]*model.Slot); ok {
			return slots, nil
		}
	}

	slots, err := s.slotsForDay(ctx, store, menu, date, "")
	if err != nil {
		return nil, err
	}
	s.cache.Set(scope, cacheKey, slots)
	return slots, nil
}

// slotsForDay does the actual generation: resolve the open window with
// calendar overrides winning over the weekly schedule, resolve the
// candidate resources working that day, prefetch each resource's
// commitments once, then step candidate intervals across the day.
func (s *availabilityService) slotsForDay(ctx context.Context, store *model.Store, menu *model.Menu, date, resourceID string) ([]*model.Slot, error) {
	open, isOpen, err := store.OpenWindow(date)
	if err != nil {
		return nil, apperrors.Internal("Failed to resolve business hours", err)
	}
	if !isOpen {
		return []*model.Slot{}, nil
	}

	resources, err := s.candidateResources(ctx, store.ID, resourceID)
	if err != nil {
		return nil, err
	}

	day, err := model.DayOfWeek(date)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	type worker struct {
		resource *model.Resource
		working  model.TimeInterval
		busy     []model.TimeInterval
	}

	now := time.Now().UTC()
	fullDay := model.TimeInterval{Start: 0, End: model.MinutesPerDay}
	var workers []worker

	for _, resource := range resources {
		working, ok, err := resource.WorkingWindow(day)
		if err != nil {
			return nil, apperrors.Internal("Failed to resolve working hours", err)
		}
		if !ok {
			continue
		}

		bookings, err := s.bookingRepo.FindOverlapping(ctx, store.ID, resource.ID, date, fullDay, model.ActiveBookingStatuses)
		if err != nil {
			return nil, apperrors.Unavailable("Booking store", err)
		}
		leases, err := s.holdRepo.FindLive(ctx, store.ID, resource.ID, date, fullDay, now)
		if err != nil {
			return nil, apperrors.Unavailable("Lease store", err)
		}

		busy := make([]model.TimeInterval, 0, len(bookings)+len(leases))
		for _, b := range bookings {
			busy = append(busy, b.Interval)
		}
		for _, l := range leases {
			if l.Live(now) {
				busy = append(busy, l.Interval)
			}
		}

		workers = append(workers, worker{resource: resource, working: working, busy: busy})
	}

	if len(workers) == 0 {
		return []*model.Slot{}, nil
	}

	total := menu.TotalDurationMin()
	step := s.cfg.SlotIntervalMin
	slots := make([]*model.Slot, 0)

	for start := open.Start; start+total <= open.End; start += step {
		candidate := model.TimeInterval{Start: start, End: start + total}

		var available []string
		for _, w := range workers {
			if !w.working.Contains(candidate) {
				continue
			}
			if overlapsAny(candidate, w.busy) {
				continue
			}
			available = append(available, w.resource.ID)
		}

		if len(available) > 0 {
			slots = append(slots, &model.Slot{
				Start:              model.FormatClock(candidate.Start),
				End:                model.FormatClock(candidate.End),
				Interval:           candidate,
				AvailableResources: available,
				MenuDurationMin:    total,
			})
		}
	}

	return slots, nil
}

func (s *availabilityService) candidateResources(ctx context.Context, storeID, resourceID string) ([]*model.Resource, error) {
	if resourceID == "" {
		resources, err := s.resourceRepo.FindActiveByStore(ctx, storeID)
		if err != nil {
			return nil, apperrors.Unavailable("Catalog store", err)
		}
		return resources, nil
	}

	resource, err := s.resourceRepo.FindByID(ctx, storeID, resourceID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) || errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Resource", resourceID)
		}
		return nil, apperrors.Unavailable("Catalog store", err)
	}
	if !resource.IsActive {
		return nil, apperrors.ResourceInactive(resourceID)
	}
	return []*model.Resource{resource}, nil
}

func (s *availabilityService) findStore(ctx context.Context, storeID string) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) || errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Store", storeID)
		}
		return nil, apperrors.Unavailable("Catalog store", err)
	}
	return store, nil
}

func (s *availabilityService) findMenu(ctx context.Context, storeID, menuID string) (*model.Menu, error) {
	menu, err := s.menuRepo.FindByID(ctx, storeID, menuID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) || errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Menu", menuID)
		}
		return nil, apperrors.Unavailable("Catalog store", err)
	}
	if !menu.IsActive {
		return nil, apperrors.NotFoundWithID("Menu", menuID)
	}
	return menu, nil
}

// windowDays falls back to the service default when the store does not
// configure its own booking window.
func (s *availabilityService) windowDays(store *model.Store) int {
	if store.BookingWindowDays > 0 {
		return store.BookingWindowDays
	}
	return s.cfg.BookingWindowDays
}

// storeToday is midnight of the store's local date, normalized to UTC
// so it compares directly against parsed calendar dates.
func (s *availabilityService) storeToday(store *model.Store) time.Time {
	loc := time.UTC
	if store.TimeZone != "" {
		if l, err := time.LoadLocation(store.TimeZone); err == nil {
			loc = l
		}
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func overlapsAny(candidate model.TimeInterval, busy []model.TimeInterval) bool {
	for _, iv := range busy {
		if candidate.Overlaps(iv) {
			return true
		}
	}
	return false
}
