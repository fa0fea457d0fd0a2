package repository

import (
	"context"
	"fmt"
	"time"

	reserrors "slotify/internal/reservations/errors"
	"slotify/pkg/config"
	"slotify/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	SlotLockCollection = "Slot_locks"
)

// SlotLockRepository provides advisory locks serializing writers on one
// (store, resource, date) bucket. Acquisition relies on the unique _id
// index: the insert either wins the bucket or fails with a duplicate
// key. A TTL index on expires_at reclaims locks from crashed workers.
type SlotLockRepository interface {
	Acquire(ctx context.Context, lockID string, ttl time.Duration) error
	Release(ctx context.Context, lockID string) error
}

type mongoSlotLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotLockRepository(cfg *config.Config) SlotLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLockRepository{
		cfg:        cfg,
		collection: db.Collection(SlotLockCollection),
	}
}

// SlotLockID derives the bucket key all writers contend on.
func SlotLockID(storeID, resourceID, date string) string {
	return fmt.Sprintf("slot_lock_%s_%s_%s", storeID, resourceID, date)
}

func (r *mongoSlotLockRepository) Acquire(ctx context.Context, lockID string, ttl time.Duration) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	lock := &model.SlotLock{
		ID:        lockID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return reserrors.ErrLockHeld
		}
		return fmt.Errorf("failed to acquire slot lock: %w", err)
	}

	return nil
}

func (r *mongoSlotLockRepository) Release(ctx context.Context, lockID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
