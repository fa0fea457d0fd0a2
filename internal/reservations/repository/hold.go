package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reserrors "slotify/internal/reservations/errors"
	"slotify/pkg/config"
	"slotify/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	HoldCollection = "Hold_leases"
)

// HoldRepository persists hold leases. The lease token is the document
// key, so every lookup is a point read; a TTL index on expires_at lets
// the store reap abandoned leases on its own.
type HoldRepository interface {
	Create(ctx context.Context, lease *model.HoldLease) error
	FindByToken(ctx context.Context, token string) (*model.HoldLease, error)
	Delete(ctx context.Context, token string) (bool, error)
	UpdateExpiry(ctx context.Context, token string, expiresAt, now time.Time) error
	FindLive(ctx context.Context, storeID, resourceID, date string, interval model.TimeInterval, now time.Time) ([]*model.HoldLease, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type mongoHoldRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoHoldRepository(cfg *config.Config) HoldRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHoldRepository{
		cfg:        cfg,
		collection: db.Collection(HoldCollection),
	}
}

func (r *mongoHoldRepository) Create(ctx context.Context, lease *model.HoldLease) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	lease.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.collection.InsertOne(ctx, lease); err != nil {
		return fmt.Errorf("failed to create hold lease: %w", err)
	}
	return nil
}

func (r *mongoHoldRepository) FindByToken(ctx context.Context, token string) (*model.HoldLease, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var lease model.HoldLease
	err := r.collection.FindOne(ctx, bson.M{"_id": token}).Decode(&lease)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrLeaseGone
		}
		return nil, fmt.Errorf("failed to find hold lease: %w", err)
	}

	return &lease, nil
}

func (r *mongoHoldRepository) Delete(ctx context.Context, token string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": token})
	if err != nil {
		return false, fmt.Errorf("failed to delete hold lease: %w", err)
	}
	return result.DeletedCount > 0, nil
}

// UpdateExpiry resets the lease TTL. The filter requires the lease to
// still be live, so an expired lease can never be revived.
func (r *mongoHoldRepository) UpdateExpiry(ctx context.Context, token string, expiresAt, now time.Time) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"_id":        token,
		"expires_at": bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{"expires_at": expiresAt}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to extend hold lease: %w", err)
	}
	if result.MatchedCount == 0 {
		return reserrors.ErrLeaseGone
	}

	return nil
}

func (r *mongoHoldRepository) FindLive(
	ctx context.Context,
	storeID, resourceID, date string,
	interval model.TimeInterval,
	now time.Time,
) ([]*model.HoldLease, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"store_id":           storeID,
		"resource_id":        resourceID,
		"date":               date,
		"expires_at":         bson.M{"$gt": now},
		"interval.start_min": bson.M{"$lt": interval.End},
		"interval.end_min":   bson.M{"$gt": interval.Start},
	}

	opts := options.Find().SetSort(bson.D{{Key: "interval.start_min", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find live hold leases: %w", err)
	}
	defer cursor.Close(ctx)

	var leases []*model.HoldLease
	if err = cursor.All(ctx, &leases); err != nil {
		return nil, fmt.Errorf("failed to decode hold leases: %w", err)
	}

	return leases, nil
}

// DeleteExpired purges leases the TTL reaper has not caught up with.
func (r *mongoHoldRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": now}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired hold leases: %w", err)
	}
	return result.DeletedCount, nil
}
