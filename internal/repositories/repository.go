package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when a document does not exist for the restaurant
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique key is taken
	ErrAlreadyExists = errors.New("already exists")
	// ErrConditionNotMet is returned when a guarded write finds the document
	// but its guard does not hold
	ErrConditionNotMet = errors.New("condition not met")
)

// CampaignRepository defines the interface for campaign data operations
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	FindByID(ctx context.Context, restaurantID string, id primitive.ObjectID) (*models.Campaign, error)
	FindAll(ctx context.Context, filter models.CampaignFilter) ([]*models.Campaign, int64, error)
	FindActive(ctx context.Context, restaurantID string) ([]*models.Campaign, error)
	// Update writes the editable fields of a campaign that is not retired.
	// Usage counters and creation metadata are left untouched.
	Update(ctx context.Context, campaign *models.Campaign) error
	UpdateStatus(ctx context.Context, restaurantID string, id primitive.ObjectID, status models.CampaignStatus, retiredAt *time.Time) error
	IncrementUsage(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, restaurantID string, id primitive.ObjectID) error
}

// CampaignUsageRepository is the usage ledger consulted for usage limits
type CampaignUsageRepository interface {
	Create(ctx context.Context, usage *models.CampaignUsage) error
	CountByCampaign(ctx context.Context, campaignID primitive.ObjectID) (int64, error)
	CountByCampaignAndCustomer(ctx context.Context, campaignID primitive.ObjectID, customerID string) (int64, error)
}

// CustomerRepository defines the interface for customer roster operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	FindByID(ctx context.Context, restaurantID string, id primitive.ObjectID) (*models.Customer, error)
	FindByPhone(ctx context.Context, restaurantID, phone string) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	FindAll(ctx context.Context, restaurantID string) ([]models.Customer, error)
	Count(ctx context.Context, restaurantID string) (int64, error)
	CountBySegment(ctx context.Context, restaurantID string) (map[string]int64, error)
	CountByTier(ctx context.Context, restaurantID string) (map[string]int64, error)
	IncrementPoints(ctx context.Context, id primitive.ObjectID, points int) error
	// DeductPoints removes points only while the balance covers them
	DeductPoints(ctx context.Context, id primitive.ObjectID, points int) error
	RecordVisit(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// ProductRepository defines the interface for catalog operations
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindAll(ctx context.Context, restaurantID string) ([]*models.Product, error)
	FindByIDs(ctx context.Context, restaurantID string, ids []primitive.ObjectID) ([]*models.Product, error)
	DistinctCategories(ctx context.Context, restaurantID string) ([]string, error)
}

// SegmentRepository defines the interface for the segment directory
type SegmentRepository interface {
	Create(ctx context.Context, segment *models.Segment) error
	FindAll(ctx context.Context, restaurantID string) ([]models.Segment, error)
	UpdateMemberCounts(ctx context.Context, restaurantID string, counts map[string]int64, countedAt time.Time) error
}

// TierRepository defines the interface for the tier directory
type TierRepository interface {
	Create(ctx context.Context, tier *models.Tier) error
	FindAll(ctx context.Context, restaurantID string) ([]models.Tier, error)
	UpdateMemberCounts(ctx context.Context, restaurantID string, counts map[string]int64, countedAt time.Time) error
}

// NotificationRepository defines the interface for dispatch record operations
type NotificationRepository interface {
	Create(ctx context.Context, record *models.DispatchRecord) error
	FindByID(ctx context.Context, restaurantID string, id primitive.ObjectID) (*models.DispatchRecord, error)
	FindAll(ctx context.Context, restaurantID string, page, limit int) ([]*models.DispatchRecord, int64, error)
	Summary(ctx context.Context, restaurantID string) (*models.DispatchSummary, error)
}

// TransactionRepository defines the interface for order transactions
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	FindByCustomerID(ctx context.Context, restaurantID, customerID string, page, limit int) ([]*models.Transaction, error)
}

// PointTransactionRepository defines the interface for point transaction operations
type PointTransactionRepository interface {
	Create(ctx context.Context, transaction *models.PointTransaction) error
	FindByCustomerID(ctx context.Context, restaurantID, customerID string) ([]*models.PointTransaction, error)
}

// RewardRepository defines the interface for the points reward catalog
type RewardRepository interface {
	Create(ctx context.Context, reward *models.CatalogReward) error
	FindByID(ctx context.Context, restaurantID string, id primitive.ObjectID) (*models.CatalogReward, error)
	FindAll(ctx context.Context, restaurantID string) ([]*models.CatalogReward, error)
}

// AdminUserRepository defines the interface for admin user data operations
type AdminUserRepository interface {
	Create(ctx context.Context, adminUser *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
}

// SystemSettingsRepository defines the interface for system settings operations
type SystemSettingsRepository interface {
	GetSettings(ctx context.Context, restaurantID string) (*models.SystemSettings, error)
	UpdatePushGateway(ctx context.Context, restaurantID, gateway, updatedBy string) error
}

// Set bundles every repository backed by one store
type Set struct {
	Campaigns     CampaignRepository
	Usages        CampaignUsageRepository
	Customers     CustomerRepository
	Products      ProductRepository
	Segments      SegmentRepository
	Tiers         TierRepository
	Notifications NotificationRepository
	Transactions  TransactionRepository
	Points        PointTransactionRepository
	Rewards       RewardRepository
	AdminUsers    AdminUserRepository
	Settings      SystemSettingsRepository
}
