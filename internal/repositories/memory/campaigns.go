package memory

import (
	"context"
	"strings"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	_ repositories.CampaignRepository      = (*CampaignRepository)(nil)
	_ repositories.CampaignUsageRepository = (*CampaignUsageRepository)(nil)
)

// CampaignRepository is the in-memory campaign store
type CampaignRepository struct {
	s *Store
}

// Create saves a new campaign
func (r *CampaignRepository) Create(_ context.Context, campaign *models.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	campaign.ID = primitive.NewObjectID()
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = campaign.CreatedAt
	stored := *campaign
	r.s.campaigns = append(r.s.campaigns, &stored)
	return nil
}

func (r *CampaignRepository) find(restaurantID string, id primitive.ObjectID) (*models.Campaign, int) {
	for i, c := range r.s.campaigns {
		if c.ID == id && c.RestaurantID == restaurantID {
			return c, i
		}
	}
	return nil, -1
}

// FindByID returns a copy of the campaign
func (r *CampaignRepository) FindByID(_ context.Context, restaurantID string, id primitive.ObjectID) (*models.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, _ := r.find(restaurantID, id)
	if c == nil {
		return nil, repositories.ErrNotFound
	}
	out := *c
	return &out, nil
}

// FindAll filters, sorts newest first and paginates
func (r *CampaignRepository) FindAll(_ context.Context, f models.CampaignFilter) ([]*models.Campaign, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(f.Search)
	var matched []*models.Campaign
	for i := len(r.s.campaigns) - 1; i >= 0; i-- {
		c := r.s.campaigns[i]
		if c.RestaurantID != f.RestaurantID {
			continue
		}
		if f.Type != "" && c.Type != f.Type {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Description), search) {
			continue
		}
		out := *c
		matched = append(matched, &out)
	}
	return page(matched, f.Page, f.Limit), int64(len(matched)), nil
}

// FindActive returns every ACTIVE campaign in creation order
func (r *CampaignRepository) FindActive(_ context.Context, restaurantID string) ([]*models.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	active := []*models.Campaign{}
	for _, c := range r.s.campaigns {
		if c.RestaurantID == restaurantID && c.Status == models.CampaignStatusActive {
			out := *c
			active = append(active, &out)
		}
	}
	return active, nil
}

// Update replaces the stored campaign
func (r *CampaignRepository) Update(_ context.Context, campaign *models.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, i := r.find(campaign.RestaurantID, campaign.ID)
	if i < 0 {
		return repositories.ErrNotFound
	}
	if current.Status == models.CampaignStatusRetired {
		return repositories.ErrConditionNotMet
	}
	campaign.UpdatedAt = time.Now()
	stored := *campaign
	stored.UsageCount = current.UsageCount
	stored.CreatedBy = current.CreatedBy
	stored.CreatedAt = current.CreatedAt
	stored.RetiredAt = current.RetiredAt
	r.s.campaigns[i] = &stored
	return nil
}

// UpdateStatus changes the lifecycle status
func (r *CampaignRepository) UpdateStatus(_ context.Context, restaurantID string, id primitive.ObjectID, status models.CampaignStatus, retiredAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, _ := r.find(restaurantID, id)
	if c == nil {
		return repositories.ErrNotFound
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	if retiredAt != nil {
		t := *retiredAt
		c.RetiredAt = &t
	}
	return nil
}

// IncrementUsage bumps the usage counter
func (r *CampaignRepository) IncrementUsage(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.campaigns {
		if c.ID == id {
			c.UsageCount++
			return nil
		}
	}
	return repositories.ErrNotFound
}

// Delete removes a campaign
func (r *CampaignRepository) Delete(_ context.Context, restaurantID string, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, i := r.find(restaurantID, id)
	if i < 0 {
		return repositories.ErrNotFound
	}
	r.s.campaigns = append(r.s.campaigns[:i], r.s.campaigns[i+1:]...)
	return nil
}

// CampaignUsageRepository is the in-memory usage ledger
type CampaignUsageRepository struct {
	s *Store
}

// Create records a redemption
func (r *CampaignUsageRepository) Create(_ context.Context, usage *models.CampaignUsage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	usage.ID = primitive.NewObjectID()
	r.s.usages = append(r.s.usages, *usage)
	return nil
}

// CountByCampaign counts redemptions of a campaign
func (r *CampaignUsageRepository) CountByCampaign(_ context.Context, campaignID primitive.ObjectID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, u := range r.s.usages {
		if u.CampaignID == campaignID {
			n++
		}
	}
	return n, nil
}

// CountByCampaignAndCustomer counts one customer's redemptions of a campaign
func (r *CampaignUsageRepository) CountByCampaignAndCustomer(_ context.Context, campaignID primitive.ObjectID, customerID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, u := range r.s.usages {
		if u.CampaignID == campaignID && u.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}
