package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
)

func TestCampaignRepository_UpdateGuards(t *testing.T) {
	repos := NewStore("MOCK").Repositories()
	ctx := context.Background()

	c := &models.Campaign{RestaurantID: "r1", Name: "Spend and save", Status: models.CampaignStatusActive, CreatedBy: "admin-1"}
	if err := repos.Campaigns.Create(ctx, c); err != nil {
		t.Fatal(err)
	}
	if err := repos.Campaigns.IncrementUsage(ctx, c.ID); err != nil {
		t.Fatal(err)
	}

	// a stale copy read before the usage bump
	stale := *c
	stale.Name = "Spend more, save more"
	stale.UsageCount = 0
	stale.CreatedBy = ""
	if err := repos.Campaigns.Update(ctx, &stale); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ := repos.Campaigns.FindByID(ctx, "r1", c.ID)
	if got.Name != "Spend more, save more" || got.UsageCount != 1 || got.CreatedBy != "admin-1" {
		t.Errorf("stored = %+v", got)
	}

	now := time.Now()
	if err := repos.Campaigns.UpdateStatus(ctx, "r1", c.ID, models.CampaignStatusRetired, &now); err != nil {
		t.Fatal(err)
	}
	stale.Status = models.CampaignStatusActive
	if err := repos.Campaigns.Update(ctx, &stale); !errors.Is(err, repositories.ErrConditionNotMet) {
		t.Errorf("Update() on retired campaign error = %v, want ErrConditionNotMet", err)
	}
	got, _ = repos.Campaigns.FindByID(ctx, "r1", c.ID)
	if got.Status != models.CampaignStatusRetired {
		t.Errorf("status = %s, want RETIRED", got.Status)
	}

	stale.RestaurantID = "r2"
	if err := repos.Campaigns.Update(ctx, &stale); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Update() in another restaurant error = %v, want ErrNotFound", err)
	}
}

func TestCustomerRepository_DeductPoints(t *testing.T) {
	repos := NewStore("MOCK").Repositories()
	ctx := context.Background()

	c := &models.Customer{RestaurantID: "r1", Name: "Ada", Phone: "0801"}
	if err := repos.Customers.Create(ctx, c); err != nil {
		t.Fatal(err)
	}
	if err := repos.Customers.IncrementPoints(ctx, c.ID, 25); err != nil {
		t.Fatal(err)
	}

	if err := repos.Customers.DeductPoints(ctx, c.ID, 30); !errors.Is(err, repositories.ErrConditionNotMet) {
		t.Errorf("overdraw error = %v, want ErrConditionNotMet", err)
	}
	if err := repos.Customers.DeductPoints(ctx, c.ID, 25); err != nil {
		t.Errorf("DeductPoints() error = %v", err)
	}
	got, _ := repos.Customers.FindByID(ctx, "r1", c.ID)
	if got.TotalPoints != 0 {
		t.Errorf("balance = %d, want 0", got.TotalPoints)
	}
	if err := repos.Customers.DeductPoints(ctx, c.ID, 0); err == nil {
		t.Error("zero deduction should be rejected")
	}
}
