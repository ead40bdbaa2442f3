package mongodb

import (
	"context"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repositories.CampaignUsageRepository = (*CampaignUsageRepository)(nil)

// CampaignUsageRepository stores one document per campaign redemption
type CampaignUsageRepository struct {
	collection *mongo.Collection
}

// NewCampaignUsageRepository creates a new CampaignUsageRepository
func NewCampaignUsageRepository(db *mongo.Database) *CampaignUsageRepository {
	return &CampaignUsageRepository{
		collection: db.Collection("campaign_usages"),
	}
}

// Create records a redemption
func (r *CampaignUsageRepository) Create(ctx context.Context, usage *models.CampaignUsage) error {
	usage.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, usage)
	return err
}

// CountByCampaign counts all redemptions of a campaign
func (r *CampaignUsageRepository) CountByCampaign(ctx context.Context, campaignID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"campaignId": campaignID})
}

// CountByCampaignAndCustomer counts one customer's redemptions of a campaign
func (r *CampaignUsageRepository) CountByCampaignAndCustomer(ctx context.Context, campaignID primitive.ObjectID, customerID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"campaignId": campaignID, "customerId": customerID})
}
