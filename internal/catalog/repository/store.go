package repository

import (
	"context"
	"errors"
	"fmt"

	catalogerrors "slotify/internal/catalog/errors"
	"slotify/pkg/config"
	"slotify/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type StoreRepository interface {
	FindByID(ctx context.Context, id string) (*model.Store, error)
}

type mongoStoreRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoStoreRepository(cfg *config.Config) StoreRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoStoreRepository{
		cfg:        cfg,
		collection: db.Collection(StoreCollection),
	}
}

func (r *mongoStoreRepository) FindByID(ctx context.Context, id string) (*model.Store, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	var store model.Store
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&store)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find store: %w", err)
	}

	return &store, nil
}
