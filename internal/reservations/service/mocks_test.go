package service

import (
	"context"
	"time"

	"slotify/internal/reservations/repository"
	"slotify/pkg/cache"
	"slotify/pkg/config"
	mongotx "slotify/pkg/db/mongo"
	"slotify/pkg/kafka"
	"slotify/pkg/logger"
	"slotify/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// Mock repositories for testing

type mockBookingRepository struct {
	createFunc          func(ctx context.Context, booking *model.Booking) error
	findByIDFunc        func(ctx context.Context, id string) (*model.Booking, error)
	findOverlappingFunc func(ctx context.Context, storeID, resourceID, date string, interval model.TimeInterval, statuses []string) ([]*model.Booking, error)
	updateStatusFunc    func(ctx context.Context, id string, fromStatuses []string, to string) error
	executeTxFunc       func(ctx context.Context, fn mongotx.TransactionFunc) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "booking-new"
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindOverlapping(ctx context.Context, storeID, resourceID, date string, interval model.TimeInterval, statuses []string) ([]*model.Booking, error) {
	if m.findOverlappingFunc != nil {
		return m.findOverlappingFunc(ctx, storeID, resourceID, date, interval, statuses)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, fromStatuses []string, to string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, fromStatuses, to)
	}
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if m.executeTxFunc != nil {
		return m.executeTxFunc(ctx, fn)
	}
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockHoldRepository struct {
	createFunc        func(ctx context.Context, lease *model.HoldLease) error
	findByTokenFunc   func(ctx context.Context, token string) (*model.HoldLease, error)
	deleteFunc        func(ctx context.Context, token string) (bool, error)
	updateExpiryFunc  func(ctx context.Context, token string, expiresAt, now time.Time) error
	findLiveFunc      func(ctx context.Context, storeID, resourceID, date string, interval model.TimeInterval, now time.Time) ([]*model.HoldLease, error)
	deleteExpiredFunc func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockHoldRepository) Create(ctx context.Context, lease *model.HoldLease) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, lease)
	}
	return nil
}

func (m *mockHoldRepository) FindByToken(ctx context.Context, token string) (*model.HoldLease, error) {
	if m.findByTokenFunc != nil {
		return m.findByTokenFunc(ctx, token)
	}
	return nil, nil
}

func (m *mockHoldRepository) Delete(ctx context.Context, token string) (bool, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, token)
	}
	return true, nil
}

func (m *mockHoldRepository) UpdateExpiry(ctx context.Context, token string, expiresAt, now time.Time) error {
	if m.updateExpiryFunc != nil {
		return m.updateExpiryFunc(ctx, token, expiresAt, now)
	}
	return nil
}

func (m *mockHoldRepository) FindLive(ctx context.Context, storeID, resourceID, date string, interval model.TimeInterval, now time.Time) ([]*model.HoldLease, error) {
	if m.findLiveFunc != nil {
		return m.findLiveFunc(ctx, storeID, resourceID, date, interval, now)
	}
	return []*model.HoldLease{}, nil
}

func (m *mockHoldRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.deleteExpiredFunc != nil {
		return m.deleteExpiredFunc(ctx, now)
	}
	return 0, nil
}

type mockSlotLockRepository struct {
	acquireFunc func(ctx context.Context, lockID string, ttl time.Duration) error
	releaseFunc func(ctx context.Context, lockID string) error
}

func (m *mockSlotLockRepository) Acquire(ctx context.Context, lockID string, ttl time.Duration) error {
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx, lockID, ttl)
	}
	return nil
}

func (m *mockSlotLockRepository) Release(ctx context.Context, lockID string) error {
	if m.releaseFunc != nil {
		return m.releaseFunc(ctx, lockID)
	}
	return nil
}

type mockStoreRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Store, error)
}

func (m *mockStoreRepository) FindByID(ctx context.Context, id string) (*model.Store, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return testStore(), nil
}

type mockMenuRepository struct {
	findByIDFunc func(ctx context.Context, storeID, id string) (*model.Menu, error)
}

func (m *mockMenuRepository) FindByID(ctx context.Context, storeID, id string) (*model.Menu, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, storeID, id)
	}
	return testMenu(), nil
}

type mockResourceRepository struct {
	findByIDFunc          func(ctx context.Context, storeID, id string) (*model.Resource, error)
	findActiveByStoreFunc func(ctx context.Context, storeID string) ([]*model.Resource, error)
}

func (m *mockResourceRepository) FindByID(ctx context.Context, storeID, id string) (*model.Resource, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, storeID, id)
	}
	return testResource(), nil
}

func (m *mockResourceRepository) FindActiveByStore(ctx context.Context, storeID string) ([]*model.Resource, error) {
	if m.findActiveByStoreFunc != nil {
		return m.findActiveByStoreFunc(ctx, storeID)
	}
	return []*model.Resource{testResource()}, nil
}

type mockPublisher struct {
	publishFunc func(ctx context.Context, msg kafka.Message) error
	published   []kafka.Message
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	m.published = append(m.published, msg)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, msg)
	}
	return nil
}

// Fixtures

func newTestConfig() *config.Config {
	return &config.Config{
		Log:                  logger.Discard(),
		ReadTimeout:          5 * time.Second,
		WriteTimeout:         5 * time.Second,
		HoldTTL:              600 * time.Second,
		SlotLockTTL:          10 * time.Second,
		SlotIntervalMin:      15,
		AvailabilityCacheTTL: 5 * time.Minute,
		BookingWindowDays:    30,
	}
}

func newTestCache() *cache.ScopedCache {
	return cache.NewScopedCache(5 * time.Minute)
}

func allWeekHours(open, close string) map[string]model.DayHours {
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	hours := make(map[string]model.DayHours, len(days))
	for _, day := range days {
		hours[day] = model.DayHours{Open: open, Close: close}
	}
	return hours
}

func testStore() *model.Store {
	return &model.Store{
		ID:                "store-1",
		Name:              "Test Store",
		BusinessHours:     allWeekHours("09:00", "18:00"),
		BookingWindowDays: 30,
		AutoApproval:      true,
	}
}

func testMenu() *model.Menu {
	return &model.Menu{
		ID:              "menu-1",
		StoreID:         "store-1",
		Name:            "Haircut",
		BasePrice:       3000,
		BaseDurationMin: 60,
		Options: []model.MenuOption{
			{ID: "opt-1", Name: "Treatment", Price: 500},
		},
		IsActive: true,
	}
}

func testResource() *model.Resource {
	return &model.Resource{
		ID:             "res-1",
		StoreID:        "store-1",
		Name:           "Alice",
		Type:           model.ResourceTypeStaff,
		WorkingHours:   allWeekHours("09:00", "18:00"),
		HourlyRateDiff: 1000,
		NominationFee:  300,
		IsActive:       true,
	}
}

// tomorrow is always inside the default booking window.
func tomorrow() string {
	return time.Now().UTC().AddDate(0, 0, 1).Format(model.DateLayout)
}

var _ repository.BookingRepository = (*mockBookingRepository)(nil)
var _ repository.HoldRepository = (*mockHoldRepository)(nil)
var _ repository.SlotLockRepository = (*mockSlotLockRepository)(nil)
