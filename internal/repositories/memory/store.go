// Package memory provides in-memory implementations of the repository
// interfaces. It backs the "memory" store mode and the service tests.
package memory

import (
	"sync"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds every collection behind a single RWMutex. Slices keep insertion
// order so listings are deterministic.
type Store struct {
	mu sync.RWMutex

	campaigns    []*models.Campaign
	usages       []models.CampaignUsage
	customers    []*models.Customer
	products     []*models.Product
	segments     []*models.Segment
	tiers        []*models.Tier
	dispatches   []*models.DispatchRecord
	transactions []*models.Transaction
	points       []*models.PointTransaction
	rewards      []*models.CatalogReward
	admins       []*models.AdminUser
	settings     map[string]*models.SystemSettings

	defaultGateway string
}

// NewStore creates an empty store. Restaurants without stored settings start
// on defaultGateway.
func NewStore(defaultGateway string) *Store {
	return &Store{
		settings:       make(map[string]*models.SystemSettings),
		defaultGateway: defaultGateway,
	}
}

// Repositories returns the repository set for this store
func (s *Store) Repositories() repositories.Set {
	return repositories.Set{
		Campaigns:     &CampaignRepository{s: s},
		Usages:        &CampaignUsageRepository{s: s},
		Customers:     &CustomerRepository{s: s},
		Products:      &ProductRepository{s: s},
		Segments:      &SegmentRepository{s: s},
		Tiers:         &TierRepository{s: s},
		Notifications: &NotificationRepository{s: s},
		Transactions:  &TransactionRepository{s: s},
		Points:        &PointTransactionRepository{s: s},
		Rewards:       &RewardRepository{s: s},
		AdminUsers:    &AdminUserRepository{s: s},
		Settings:      &SystemSettingsRepository{s: s},
	}
}

// page slices items for a 1-based page
func page[T any](items []T, pageNum, limit int) []T {
	if pageNum < 1 {
		pageNum = 1
	}
	if limit < 1 {
		limit = 20
	}
	start := (pageNum - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
