package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/metrics"
	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories/memory"
	"github.com/ArowuTest/loyalty-admin-backend/pkg/cache"
	"github.com/ArowuTest/loyalty-admin-backend/pkg/pushgateway"
)

const restaurant = "r1"

var placedAt = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

type fixture struct {
	repos         repositories.Set
	primary       *pushgateway.MockGateway
	backup        *pushgateway.MockGateway
	catalog       *CatalogService
	targeting     *TargetingService
	notifications *NotificationService
	campaigns     *CampaignService
	redemption    *RedemptionService
	customers     *CustomerService
	settings      *SystemSettingsService
}

// newFixture wires every service over one in-memory store
func newFixture(t *testing.T, batchSize int) *fixture {
	t.Helper()
	repos := memory.NewStore(pushgateway.NameMock).Repositories()
	m := metrics.NewUnregistered()

	f := &fixture{
		repos:   repos,
		primary: pushgateway.NewMockGateway(pushgateway.NameMock),
		backup:  pushgateway.NewMockGateway(pushgateway.NameHTTP),
	}
	f.catalog = NewCatalogService(repos.Products, repos.Segments, repos.Tiers, repos.Customers, cache.NewMemoryCache(time.Minute))
	f.targeting = NewTargetingService(repos.Customers, f.catalog)
	f.notifications = NewNotificationService(repos.Notifications, repos.Settings, f.targeting,
		[]pushgateway.Gateway{f.primary, f.backup}, DispatchConfig{BatchSize: batchSize}, m)
	f.campaigns = NewCampaignService(repos.Campaigns, f.notifications)
	f.redemption = NewRedemptionService(repos.Campaigns, repos.Usages, repos.Customers, repos.Products,
		repos.Transactions, repos.Points, repos.Rewards, 10, time.UTC, m)
	f.redemption.now = func() time.Time { return placedAt }
	f.customers = NewCustomerService(repos.Customers)
	f.settings = NewSystemSettingsService(repos.Settings, []string{pushgateway.NameMock, pushgateway.NameHTTP})
	return f
}

func (f *fixture) addCustomer(t *testing.T, name, segment, tier string) string {
	t.Helper()
	c := &models.Customer{Name: name, Phone: "080" + name, Segment: segment, LoyaltyTier: tier}
	if err := f.customers.Create(context.Background(), restaurant, c); err != nil {
		t.Fatalf("Create customer %s: %v", name, err)
	}
	return c.ID.Hex()
}

// addRoster creates n plain customers and returns their ids in creation order
func (f *fixture) addRoster(t *testing.T, n int) []string {
	t.Helper()
	ids := make([]string, n)
	for i := range ids {
		ids[i] = f.addCustomer(t, fmt.Sprintf("guest%d", i), "Regular", "Bronze")
	}
	return ids
}

func (f *fixture) addProduct(t *testing.T, name, category string, price float64) string {
	t.Helper()
	p := &models.Product{Name: name, Category: category, Price: price}
	if err := f.catalog.CreateProduct(context.Background(), restaurant, p); err != nil {
		t.Fatalf("Create product %s: %v", name, err)
	}
	return p.ID.Hex()
}

// spendCampaign is ten percent off orders of at least 100 during 2026
func spendCampaign() *models.Campaign {
	return &models.Campaign{
		Name:        "Spend and save",
		Description: "Ten percent off orders above one hundred",
		StartDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC),
		Trigger:     models.Trigger{Type: models.TriggerPurchaseAmount, MinPurchase: floatPtr(100)},
		Reward:      models.Reward{Type: models.RewardDiscountPercentage, DiscountValue: floatPtr(10)},
	}
}

func (f *fixture) createCampaign(t *testing.T, c *models.Campaign) *models.Campaign {
	t.Helper()
	res, err := f.campaigns.Create(context.Background(), restaurant, "admin-1", c)
	if err != nil {
		t.Fatalf("Create campaign: %v", err)
	}
	return res.Campaign
}
