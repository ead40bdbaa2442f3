package mongodb

import (
	"context"
	"sort"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.ProductRepository = (*ProductRepository)(nil)

// ProductRepository implements the repositories.ProductRepository interface
type ProductRepository struct {
	collection *mongo.Collection
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection("products"),
	}
}

// Create inserts a product
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, product)
	return err
}

// FindAll returns the active catalog sorted by name
func (r *ProductRepository) FindAll(ctx context.Context, restaurantID string) ([]*models.Product, error) {
	opts := options.Find().SetSort(bson.M{"name": 1})
	return r.find(ctx, bson.M{"restaurantId": restaurantID, "isActive": true}, opts)
}

// FindByIDs returns the products with the given ids
func (r *ProductRepository) FindByIDs(ctx context.Context, restaurantID string, ids []primitive.ObjectID) ([]*models.Product, error) {
	if len(ids) == 0 {
		return []*models.Product{}, nil
	}
	return r.find(ctx, bson.M{"restaurantId": restaurantID, "_id": bson.M{"$in": ids}})
}

// DistinctCategories returns the sorted set of categories of active products
func (r *ProductRepository) DistinctCategories(ctx context.Context, restaurantID string) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "category", bson.M{"restaurantId": restaurantID, "isActive": true})
	if err != nil {
		return nil, err
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			categories = append(categories, s)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *ProductRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*models.Product, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []*models.Product{}
	}
	return products, nil
}
