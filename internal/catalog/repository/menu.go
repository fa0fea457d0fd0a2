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

type MenuRepository interface {
	FindByID(ctx context.Context, storeID, id string) (*model.Menu, error)
}

type mongoMenuRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoMenuRepository(cfg *config.Config) MenuRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMenuRepository{
		cfg:        cfg,
		collection: db.Collection(MenuCollection),
	}
}

// FindByID scopes the lookup to the store, so one tenant can never
// book against another tenant's menu.
func (r *mongoMenuRepository) FindByID(ctx context.Context, storeID, id string) (*model.Menu, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	var menu model.Menu
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID, "store_id": storeID}).Decode(&menu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find menu: %w", err)
	}

	return &menu, nil
}
