package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure CustomerRepository implements the interface
var _ repositories.CustomerRepository = (*CustomerRepository)(nil)

// CustomerRepository handles MongoDB operations for the customer roster
type CustomerRepository struct {
	collection *mongo.Collection
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{
		collection: db.Collection("customers"),
	}
}

// Create inserts a new customer
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	customer.ID = primitive.NewObjectID()
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = customer.CreatedAt
	_, err := r.collection.InsertOne(ctx, customer)
	return translate(err)
}

// FindByID finds a customer by ID
func (r *CustomerRepository) FindByID(ctx context.Context, restaurantID string, id primitive.ObjectID) (*models.Customer, error) {
	var customer models.Customer
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "restaurantId": restaurantID}).Decode(&customer)
	if err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

// FindByPhone finds a customer by phone number
func (r *CustomerRepository) FindByPhone(ctx context.Context, restaurantID, phone string) (*models.Customer, error) {
	var customer models.Customer
	err := r.collection.FindOne(ctx, bson.M{"phone": phone, "restaurantId": restaurantID}).Decode(&customer)
	if err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

// Update updates an existing customer
func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	customer.UpdatedAt = time.Now()
	filter := bson.M{"_id": customer.ID, "restaurantId": customer.RestaurantID}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": customer})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// FindAll returns the full roster of a restaurant
func (r *CustomerRepository) FindAll(ctx context.Context, restaurantID string) ([]models.Customer, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"restaurantId": restaurantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var customers []models.Customer
	if err = cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	return customers, nil
}

// Count counts the customers of a restaurant
func (r *CustomerRepository) Count(ctx context.Context, restaurantID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"restaurantId": restaurantID})
}

// CountBySegment counts customers per segment name
func (r *CustomerRepository) CountBySegment(ctx context.Context, restaurantID string) (map[string]int64, error) {
	return countBy(ctx, r.collection, restaurantID, "segment")
}

// CountByTier counts customers per loyalty tier name
func (r *CustomerRepository) CountByTier(ctx context.Context, restaurantID string) (map[string]int64, error) {
	return countBy(ctx, r.collection, restaurantID, "loyaltyTier")
}

// IncrementPoints atomically adjusts the points balance of a customer
func (r *CustomerRepository) IncrementPoints(ctx context.Context, id primitive.ObjectID, points int) error {
	if points == 0 {
		return errors.New("points delta must be non-zero")
	}
	filter := bson.M{"_id": id}
	update := bson.M{
		"$inc": bson.M{"totalPoints": points},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// DeductPoints decrements totalPoints in one conditional update so
// concurrent redemptions cannot overdraw the balance
func (r *CustomerRepository) DeductPoints(ctx context.Context, id primitive.ObjectID, points int) error {
	if points <= 0 {
		return errors.New("points to deduct must be positive")
	}
	filter := bson.M{"_id": id, "totalPoints": bson.M{"$gte": points}}
	update := bson.M{
		"$inc": bson.M{"totalPoints": -points},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount > 0 {
		return nil
	}
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return repositories.ErrNotFound
	}
	return repositories.ErrConditionNotMet
}

// RecordVisit increments the visit count and stamps the last visit
func (r *CustomerRepository) RecordVisit(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	update := bson.M{
		"$inc": bson.M{"visitCount": 1},
		"$set": bson.M{"lastVisit": at, "updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
