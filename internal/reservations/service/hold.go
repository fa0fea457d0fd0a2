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
	"slotify/pkg/model"

	"github.com/google/uuid"
)

// HoldService manages hold leases: short exclusive claims on a slot
// while a customer completes checkout. A lease moves through
// Created -> (Extended)* and ends Released, Expired, or consumed by a
// booking; terminal states are final.
type HoldService interface {
	CreateHold(ctx context.Context, storeID string, req *model.HoldRequest) (*model.HoldLease, error)
	ValidateHold(ctx context.Context, storeID, token, resourceID, date string, interval model.TimeInterval) (*model.HoldLease, error)
	ExtendHold(ctx context.Context, token string, minutes int) (*model.HoldLease, error)
	ReleaseHold(ctx context.Context, token string) (bool, error)
	SweepExpired(ctx context.Context) (int64, error)
}

type holdService struct {
	holdRepo     repository.HoldRepository
	lockRepo     repository.SlotLockRepository
	conflicts    ConflictDetector
	storeRepo    catalogrepo.StoreRepository
	menuRepo     catalogrepo.MenuRepository
	resourceRepo catalogrepo.ResourceRepository
	cache        *cache.ScopedCache
	cfg          *config.Config
}

func NewHoldService(
	holdRepo repository.HoldRepository,
	lockRepo repository.SlotLockRepository,
	conflicts ConflictDetector,
	storeRepo catalogrepo.StoreRepository,
	menuRepo catalogrepo.MenuRepository,
	resourceRepo catalogrepo.ResourceRepository,
	availabilityCache *cache.ScopedCache,
	cfg *config.Config,
) HoldService {
	return &holdService{
		holdRepo:     holdRepo,
		lockRepo:     lockRepo,
		conflicts:    conflicts,
		storeRepo:    storeRepo,
		menuRepo:     menuRepo,
		resourceRepo: resourceRepo,
		cache:        availabilityCache,
		cfg:          cfg,
	}
}

// CreateHold claims a slot exclusively for the store's hold duration.
// The advisory slot lock serializes all writers on the (store, resource,
// date) bucket, so the conflict check and the lease insert behave as one
// atomic step: under concurrent holds for overlapping intervals at most
// one succeeds.
func (s *holdService) CreateHold(ctx context.Context, storeID string, req *model.HoldRequest) (*model.HoldLease, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) || errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Store", storeID)
		}
		return nil, apperrors.Unavailable("Catalog store", err)
	}

	menu, err := s.menuRepo.FindByID(ctx, storeID, req.MenuID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) || errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Menu", req.MenuID)
		}
		return nil, apperrors.Unavailable("Catalog store", err)
	}
	if !menu.IsActive {
		return nil, apperrors.NotFoundWithID("Menu", req.MenuID)
	}

	resource, err := s.resourceRepo.FindByID(ctx, storeID, req.ResourceID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) || errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Resource", req.ResourceID)
		}
		return nil, apperrors.Unavailable("Catalog store", err)
	}
	if !resource.IsActive {
		return nil, apperrors.ResourceInactive(req.ResourceID)
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
		return nil, apperrors.Unavailable("Lease store", err)
	}
	defer func() {
		if releaseErr := s.lockRepo.Release(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	conflict, err := s.conflicts.HasConflict(ctx, ConflictQuery{
		StoreID:    storeID,
		ResourceID: req.ResourceID,
		Date:       req.Date,
		Interval:   interval,
	})
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, apperrors.Conflict("The requested time slot is no longer available").WithDetails(map[string]any{
			"source":   conflict.Source,
			"interval": conflict.Interval.String(),
		})
	}

	ttl := s.cfg.HoldTTL
	if store.HoldDurationSeconds > 0 {
		ttl = time.Duration(store.HoldDurationSeconds) * time.Second
	}

	now := time.Now().UTC()
	lease := &model.HoldLease{
		Token:      uuid.New().String(),
		StoreID:    storeID,
		ResourceID: req.ResourceID,
		Date:       req.Date,
		Interval:   interval,
		MenuID:     req.MenuID,
		CustomerID: req.CustomerID,
		ExpiresAt:  now.Add(ttl).Truncate(time.Millisecond),
	}
	if err := s.holdRepo.Create(ctx, lease); err != nil {
		s.cfg.Log.Error("Failed to create hold lease", "error", err)
		return nil, apperrors.Internal("Failed to create hold", err)
	}

	s.cache.Invalidate(availabilityScope(storeID, req.Date))

	s.cfg.Log.Info("Hold created",
		"token", lease.Token,
		"store_id", storeID,
		"resource_id", req.ResourceID,
		"date", req.Date,
		"interval", interval.String(),
		"expires_at", lease.ExpiresAt,
	)
	return lease, nil
}

// ValidateHold re-fetches the lease and checks both liveness and that
// every supplied field matches the stored claim. A mismatch means the
// token is being replayed for a different slot.
func (s *holdService) ValidateHold(ctx context.Context, storeID, token, resourceID, date string, interval model.TimeInterval) (*model.HoldLease, error) {
	lease, err := s.holdRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, reserrors.ErrLeaseGone) {
			return nil, apperrors.HoldExpired("Hold is no longer valid")
		}
		return nil, apperrors.Unavailable("Lease store", err)
	}

	if !lease.Live(time.Now().UTC()) {
		return nil, apperrors.HoldExpired("Hold has expired")
	}

	if lease.StoreID != storeID || lease.ResourceID != resourceID || lease.Date != date || lease.Interval != interval {
		return nil, apperrors.HoldMismatch("Hold does not match the requested slot")
	}

	return lease, nil
}

// ExtendHold resets the lease TTL to now plus the given minutes. The
// reserved interval never moves; only expires_at changes. The reset is
// conditional on the lease still being live, so an expired lease cannot
// be revived.
func (s *holdService) ExtendHold(ctx context.Context, token string, minutes int) (*model.HoldLease, error) {
	if minutes <= 0 {
		return nil, apperrors.InvalidInput("Extension minutes must be positive")
	}

	now := time.Now().UTC()
	expiresAt := now.Add(time.Duration(minutes) * time.Minute).Truncate(time.Millisecond)
	if err := s.holdRepo.UpdateExpiry(ctx, token, expiresAt, now); err != nil {
		if errors.Is(err, reserrors.ErrLeaseGone) {
			return nil, apperrors.HoldExpired("Hold has expired")
		}
		return nil, apperrors.Unavailable("Lease store", err)
	}

	lease, err := s.holdRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, reserrors.ErrLeaseGone) {
			return nil, apperrors.HoldExpired("Hold has expired")
		}
		return nil, apperrors.Unavailable("Lease store", err)
	}

	s.cfg.Log.Info("Hold extended", "token", token, "expires_at", lease.ExpiresAt)
	return lease, nil
}

// ReleaseHold deletes the lease. It is idempotent: releasing a token
// that is already gone returns false without error, a signal for
// logging only.
func (s *holdService) ReleaseHold(ctx context.Context, token string) (bool, error) {
	lease, err := s.holdRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, reserrors.ErrLeaseGone) {
			return false, nil
		}
		return false, apperrors.Unavailable("Lease store", err)
	}

	deleted, err := s.holdRepo.Delete(ctx, token)
	if err != nil {
		return false, apperrors.Unavailable("Lease store", err)
	}
	if deleted {
		s.cache.Invalidate(availabilityScope(lease.StoreID, lease.Date))
		s.cfg.Log.Info("Hold released", "token", token, "store_id", lease.StoreID, "date", lease.Date)
	}
	return deleted, nil
}

// SweepExpired purges leases the storage TTL reaper has not collected
// yet. Runs out of the request path and is safe to run concurrently
// with it.
func (s *holdService) SweepExpired(ctx context.Context) (int64, error) {
	count, err := s.holdRepo.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		s.cfg.Log.Error("Hold sweep failed", "error", err)
		return 0, apperrors.Unavailable("Lease store", err)
	}
	if count > 0 {
		s.cfg.Log.Info("Expired holds swept", "count", count)
	}
	return count, nil
}
