package mongodb

import (
	"context"
	"strings"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Ensure adminUserRepository implements repositories.AdminUserRepository
var _ repositories.AdminUserRepository = (*adminUserRepository)(nil)

type adminUserRepository struct {
	collection *mongo.Collection
}

// NewAdminUserRepository creates a new repository for admin users
func NewAdminUserRepository(db *mongo.Database) repositories.AdminUserRepository {
	return &adminUserRepository{
		collection: db.Collection("admin_users"),
	}
}

// Create inserts a new admin user; the email must be unused
func (r *adminUserRepository) Create(ctx context.Context, adminUser *models.AdminUser) error {
	adminUser.Email = strings.ToLower(adminUser.Email)
	if _, err := r.FindByEmail(ctx, adminUser.Email); err == nil {
		return repositories.ErrAlreadyExists
	}
	adminUser.ID = primitive.NewObjectID()
	adminUser.CreatedAt = time.Now()
	adminUser.UpdatedAt = adminUser.CreatedAt
	_, err := r.collection.InsertOne(ctx, adminUser)
	return translate(err)
}

// FindByEmail finds an admin user by their email address
func (r *adminUserRepository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var adminUser models.AdminUser
	filter := bson.M{"email": strings.ToLower(email)}
	if err := r.collection.FindOne(ctx, filter).Decode(&adminUser); err != nil {
		return nil, translate(err)
	}
	return &adminUser, nil
}

// FindByID finds an admin user by their ID
func (r *adminUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error) {
	var adminUser models.AdminUser
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&adminUser); err != nil {
		return nil, translate(err)
	}
	return &adminUser, nil
}
