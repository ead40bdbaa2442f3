package mongodb

import (
	"context"
	"errors"

	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// translate maps driver errors onto repository sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repositories.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repositories.ErrAlreadyExists
	default:
		return err
	}
}

// pageOptions builds find options for a 1-based page sorted by sortField descending
func pageOptions(page, limit int, sortField string) *options.FindOptions {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{sortField: -1})
}

// countBy groups a restaurant's documents by field and counts each group
func countBy(ctx context.Context, collection *mongo.Collection, restaurantID, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"restaurantId": restaurantID}}},
		{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Key   string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		if row.Key != "" {
			counts[row.Key] = row.Count
		}
	}
	return counts, nil
}
