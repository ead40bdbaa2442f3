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

var _ repositories.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository implements the repositories.TransactionRepository interface
type TransactionRepository struct {
	collection *mongo.Collection
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{
		collection: db.Collection("transactions"),
	}
}

// Create records an order transaction
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	tx.ID = primitive.NewObjectID()
	tx.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, tx)
	return err
}

// FindByCustomerID finds a customer's transactions with pagination, newest first
func (r *TransactionRepository) FindByCustomerID(ctx context.Context, restaurantID, customerID string, page, limit int) ([]*models.Transaction, error) {
	filter := bson.M{"restaurantId": restaurantID, "customerId": customerID}
	cursor, err := r.collection.Find(ctx, filter, pageOptions(page, limit, "placedAt"))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []*models.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []*models.Transaction{}
	}
	return txs, nil
}
