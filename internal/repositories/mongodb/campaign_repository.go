package mongodb

import (
	"context"
	"regexp"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.CampaignRepository = (*CampaignRepository)(nil)

// CampaignRepository implements the repositories.CampaignRepository interface
type CampaignRepository struct {
	collection *mongo.Collection
}

// NewCampaignRepository creates a new CampaignRepository
func NewCampaignRepository(db *mongo.Database) *CampaignRepository {
	return &CampaignRepository{
		collection: db.Collection("campaigns"),
	}
}

// FindByID finds a campaign by ID within a restaurant
func (r *CampaignRepository) FindByID(ctx context.Context, restaurantID string, id primitive.ObjectID) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "restaurantId": restaurantID}).Decode(&campaign)
	if err != nil {
		return nil, translate(err)
	}
	return &campaign, nil
}

// FindAll lists campaigns matching the filter with pagination and the total match count
func (r *CampaignRepository) FindAll(ctx context.Context, f models.CampaignFilter) ([]*models.Campaign, int64, error) {
	filter := bson.M{"restaurantId": f.RestaurantID}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.collection.Find(ctx, filter, pageOptions(f.Page, f.Limit, "createdAt"))
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var campaigns []*models.Campaign
	if err := cursor.All(ctx, &campaigns); err != nil {
		return nil, 0, err
	}
	if campaigns == nil {
		campaigns = []*models.Campaign{}
	}
	return campaigns, total, nil
}

// FindActive returns every ACTIVE campaign of a restaurant
func (r *CampaignRepository) FindActive(ctx context.Context, restaurantID string) ([]*models.Campaign, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := r.collection.Find(ctx, bson.M{
		"restaurantId": restaurantID,
		"status":       models.CampaignStatusActive,
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var campaigns []*models.Campaign
	if err := cursor.All(ctx, &campaigns); err != nil {
		return nil, err
	}
	if campaigns == nil {
		campaigns = []*models.Campaign{}
	}
	return campaigns, nil
}

// Create creates a new campaign
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	campaign.ID = primitive.NewObjectID()
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = campaign.CreatedAt
	_, err := r.collection.InsertOne(ctx, campaign)
	return err
}

// Update sets the editable fields of a campaign unless it has been retired.
// usageCount, createdBy and createdAt are never written here.
func (r *CampaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	campaign.UpdatedAt = time.Now()
	set := bson.M{
		"name":         campaign.Name,
		"description":  campaign.Description,
		"type":         campaign.Type,
		"status":       campaign.Status,
		"startDate":    campaign.StartDate,
		"endDate":      campaign.EndDate,
		"trigger":      campaign.Trigger,
		"reward":       campaign.Reward,
		"usageLimits":  campaign.UsageLimits,
		"audience":     campaign.Audience,
		"notification": campaign.Notification,
		"updatedAt":    campaign.UpdatedAt,
	}
	unset := bson.M{}
	if campaign.TimeRestriction != nil {
		set["timeRestriction"] = campaign.TimeRestriction
	} else {
		unset["timeRestriction"] = ""
	}
	if len(campaign.DayRestriction) > 0 {
		set["dayRestriction"] = campaign.DayRestriction
	} else {
		unset["dayRestriction"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	filter := bson.M{
		"_id":          campaign.ID,
		"restaurantId": campaign.RestaurantID,
		"status":       bson.M{"$ne": models.CampaignStatusRetired},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": campaign.ID, "restaurantId": campaign.RestaurantID})
	if err != nil {
		return err
	}
	if n == 0 {
		return repositories.ErrNotFound
	}
	return repositories.ErrConditionNotMet
}

// UpdateStatus changes the lifecycle status of a campaign
func (r *CampaignRepository) UpdateStatus(ctx context.Context, restaurantID string, id primitive.ObjectID, status models.CampaignStatus, retiredAt *time.Time) error {
	set := bson.M{"status": status, "updatedAt": time.Now()}
	if retiredAt != nil {
		set["retiredAt"] = *retiredAt
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "restaurantId": restaurantID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// IncrementUsage bumps the denormalized usage counter
func (r *CampaignRepository) IncrementUsage(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"usageCount": 1}})
	return err
}

// Delete deletes a campaign
func (r *CampaignRepository) Delete(ctx context.Context, restaurantID string, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "restaurantId": restaurantID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
