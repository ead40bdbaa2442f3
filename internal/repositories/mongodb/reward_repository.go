package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.RewardRepository = (*RewardRepository)(nil)

// RewardRepository stores the points reward catalog
type RewardRepository struct {
	collection *mongo.Collection
}

// NewRewardRepository creates a new RewardRepository
func NewRewardRepository(db *mongo.Database) *RewardRepository {
	return &RewardRepository{
		collection: db.Collection("rewards"),
	}
}

// Create inserts a catalog reward
func (r *RewardRepository) Create(ctx context.Context, reward *models.CatalogReward) error {
	reward.ID = primitive.NewObjectID()
	reward.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, reward)
	return err
}

// FindByID finds a catalog reward by ID
func (r *RewardRepository) FindByID(ctx context.Context, restaurantID string, id primitive.ObjectID) (*models.CatalogReward, error) {
	var reward models.CatalogReward
	if err := r.collection.FindOne(ctx, bson.M{"_id": id, "restaurantId": restaurantID}).Decode(&reward); err != nil {
		return nil, translate(err)
	}
	return &reward, nil
}

// FindAll lists active catalog rewards by points cost
func (r *RewardRepository) FindAll(ctx context.Context, restaurantID string) ([]*models.CatalogReward, error) {
	opts := options.Find().SetSort(bson.M{"pointsCost": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"restaurantId": restaurantID, "isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rewards []*models.CatalogReward
	if err := cursor.All(ctx, &rewards); err != nil {
		return nil, err
	}
	if rewards == nil {
		rewards = []*models.CatalogReward{}
	}
	return rewards, nil
}
