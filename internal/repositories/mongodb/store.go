package mongodb

import (
	"context"
	"fmt"

	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewRepositories returns the repository set backed by db
func NewRepositories(db *mongo.Database, defaultGateway string) repositories.Set {
	return repositories.Set{
		Campaigns:     NewCampaignRepository(db),
		Usages:        NewCampaignUsageRepository(db),
		Customers:     NewCustomerRepository(db),
		Products:      NewProductRepository(db),
		Segments:      NewSegmentRepository(db),
		Tiers:         NewTierRepository(db),
		Notifications: NewNotificationRepository(db),
		Transactions:  NewTransactionRepository(db),
		Points:        NewPointTransactionRepository(db),
		Rewards:       NewRewardRepository(db),
		AdminUsers:    NewAdminUserRepository(db),
		Settings:      NewSystemSettingsRepository(db, defaultGateway),
	}
}

// EnsureIndexes creates the indexes the repositories rely on for uniqueness
// and restaurant-scoped lookups
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		"customers": {
			{Keys: bson.D{{Key: "restaurantId", Value: 1}, {Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "restaurantId", Value: 1}, {Key: "segment", Value: 1}}},
			{Keys: bson.D{{Key: "restaurantId", Value: 1}, {Key: "loyaltyTier", Value: 1}}},
		},
		"admin_users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"segments": {
			{Keys: bson.D{{Key: "restaurantId", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"tiers": {
			{Keys: bson.D{{Key: "restaurantId", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"campaigns": {
			{Keys: bson.D{{Key: "restaurantId", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
		"campaign_usages": {
			{Keys: bson.D{{Key: "campaignId", Value: 1}, {Key: "customerId", Value: 1}}},
		},
		"transactions": {
			{Keys: bson.D{{Key: "restaurantId", Value: 1}, {Key: "customerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		"notifications": {
			{Keys: bson.D{{Key: "restaurantId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
