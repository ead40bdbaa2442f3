package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repositories.NotificationRepository = (*NotificationRepository)(nil)

// NotificationRepository stores notification dispatch records
type NotificationRepository struct {
	collection *mongo.Collection
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		collection: db.Collection("notifications"),
	}
}

// FindByID finds a dispatch record by ID
func (r *NotificationRepository) FindByID(ctx context.Context, restaurantID string, id primitive.ObjectID) (*models.DispatchRecord, error) {
	var record models.DispatchRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "restaurantId": restaurantID}).Decode(&record)
	if err != nil {
		return nil, translate(err)
	}
	return &record, nil
}

// FindAll lists dispatch records newest first with the total count
func (r *NotificationRepository) FindAll(ctx context.Context, restaurantID string, page, limit int) ([]*models.DispatchRecord, int64, error) {
	filter := bson.M{"restaurantId": restaurantID}
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.collection.Find(ctx, filter, pageOptions(page, limit, "createdAt"))
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var records []*models.DispatchRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, err
	}
	if records == nil {
		records = []*models.DispatchRecord{}
	}
	return records, total, nil
}

// Create creates a new dispatch record
func (r *NotificationRepository) Create(ctx context.Context, record *models.DispatchRecord) error {
	record.ID = primitive.NewObjectID()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

// Summary aggregates sent and failed totals over a restaurant's dispatches
func (r *NotificationRepository) Summary(ctx context.Context, restaurantID string) (*models.DispatchSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"restaurantId": restaurantID}}},
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"dispatches":  bson.M{"$sum": 1},
			"totalSent":   bson.M{"$sum": "$sentCount"},
			"totalFailed": bson.M{"$sum": "$failedCount"},
			"inconsistentRuns": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$ne": bson.A{
					bson.M{"$add": bson.A{"$sentCount", "$failedCount"}},
					bson.M{"$size": bson.M{"$ifNull": bson.A{"$targetCustomerIds", bson.A{}}}},
				}},
				1, 0,
			}}},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Dispatches       int64 `bson:"dispatches"`
		TotalSent        int64 `bson:"totalSent"`
		TotalFailed      int64 `bson:"totalFailed"`
		InconsistentRuns int64 `bson:"inconsistentRuns"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	summary := &models.DispatchSummary{}
	if len(rows) > 0 {
		summary.Dispatches = rows[0].Dispatches
		summary.TotalSent = rows[0].TotalSent
		summary.TotalFailed = rows[0].TotalFailed
		summary.InconsistentRuns = rows[0].InconsistentRuns
	}
	summary.SuccessRate = models.SuccessRate(summary.TotalSent, summary.TotalFailed)
	return summary, nil
}
