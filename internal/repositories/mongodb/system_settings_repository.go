package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.SystemSettingsRepository = (*SystemSettingsRepository)(nil)

// SystemSettingsRepository implements repositories.SystemSettingsRepository
type SystemSettingsRepository struct {
	collection     *mongo.Collection
	defaultGateway string
}

// NewSystemSettingsRepository creates a new SystemSettingsRepository. Restaurants
// without stored settings start on defaultGateway.
func NewSystemSettingsRepository(db *mongo.Database, defaultGateway string) *SystemSettingsRepository {
	return &SystemSettingsRepository{
		collection:     db.Collection("system_settings"),
		defaultGateway: defaultGateway,
	}
}

// GetSettings retrieves the restaurant's settings, creating defaults on first access
func (r *SystemSettingsRepository) GetSettings(ctx context.Context, restaurantID string) (*models.SystemSettings, error) {
	var settings models.SystemSettings
	err := r.collection.FindOne(ctx, bson.M{"restaurantId": restaurantID}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		settings = models.SystemSettings{
			RestaurantID: restaurantID,
			PushGateway:  r.defaultGateway,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		if _, err = r.collection.InsertOne(ctx, settings); err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdatePushGateway updates only the push gateway setting
func (r *SystemSettingsRepository) UpdatePushGateway(ctx context.Context, restaurantID, gateway, updatedBy string) error {
	update := bson.M{
		"$set": bson.M{
			"pushGateway": gateway,
			"updatedAt":   time.Now(),
			"updatedBy":   updatedBy,
		},
		"$setOnInsert": bson.M{"createdAt": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"restaurantId": restaurantID}, update, options.Update().SetUpsert(true))
	return err
}
