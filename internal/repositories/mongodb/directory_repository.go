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

var (
	_ repositories.SegmentRepository = (*SegmentRepository)(nil)
	_ repositories.TierRepository    = (*TierRepository)(nil)
)

// SegmentRepository implements the repositories.SegmentRepository interface
type SegmentRepository struct {
	collection *mongo.Collection
}

// NewSegmentRepository creates a new SegmentRepository
func NewSegmentRepository(db *mongo.Database) *SegmentRepository {
	return &SegmentRepository{collection: db.Collection("segments")}
}

// Create inserts a segment
func (r *SegmentRepository) Create(ctx context.Context, segment *models.Segment) error {
	segment.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, segment)
	return translate(err)
}

// FindAll lists the segments of a restaurant by name
func (r *SegmentRepository) FindAll(ctx context.Context, restaurantID string) ([]models.Segment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"restaurantId": restaurantID}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var segments []models.Segment
	if err := cursor.All(ctx, &segments); err != nil {
		return nil, err
	}
	if segments == nil {
		segments = []models.Segment{}
	}
	return segments, nil
}

// UpdateMemberCounts stores recomputed member counts; segments absent from counts get zero
func (r *SegmentRepository) UpdateMemberCounts(ctx context.Context, restaurantID string, counts map[string]int64, countedAt time.Time) error {
	return writeCounts(ctx, r.collection, restaurantID, counts, countedAt)
}

// TierRepository implements the repositories.TierRepository interface
type TierRepository struct {
	collection *mongo.Collection
}

// NewTierRepository creates a new TierRepository
func NewTierRepository(db *mongo.Database) *TierRepository {
	return &TierRepository{collection: db.Collection("tiers")}
}

// Create inserts a tier
func (r *TierRepository) Create(ctx context.Context, tier *models.Tier) error {
	tier.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, tier)
	return translate(err)
}

// FindAll lists the tiers of a restaurant by level
func (r *TierRepository) FindAll(ctx context.Context, restaurantID string) ([]models.Tier, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"restaurantId": restaurantID}, options.Find().SetSort(bson.M{"level": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tiers []models.Tier
	if err := cursor.All(ctx, &tiers); err != nil {
		return nil, err
	}
	if tiers == nil {
		tiers = []models.Tier{}
	}
	return tiers, nil
}

// UpdateMemberCounts stores recomputed member counts; tiers absent from counts get zero
func (r *TierRepository) UpdateMemberCounts(ctx context.Context, restaurantID string, counts map[string]int64, countedAt time.Time) error {
	return writeCounts(ctx, r.collection, restaurantID, counts, countedAt)
}

func writeCounts(ctx context.Context, collection *mongo.Collection, restaurantID string, counts map[string]int64, countedAt time.Time) error {
	_, err := collection.UpdateMany(ctx,
		bson.M{"restaurantId": restaurantID},
		bson.M{"$set": bson.M{"memberCount": 0, "countedAt": countedAt}})
	if err != nil {
		return err
	}
	writes := make([]mongo.WriteModel, 0, len(counts))
	for name, n := range counts {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"restaurantId": restaurantID, "name": name}).
			SetUpdate(bson.M{"$set": bson.M{"memberCount": n, "countedAt": countedAt}}))
	}
	if len(writes) == 0 {
		return nil
	}
	_, err = collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}
