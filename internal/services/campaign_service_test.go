package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ArowuTest/loyalty-admin-backend/internal/campaigns"
	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
)

type stubNotifier struct {
	calls int
	err   error
}

func (n *stubNotifier) DispatchForCampaign(_ context.Context, _ string, _ *models.Campaign, _ string) (*models.DispatchRecord, error) {
	n.calls++
	if n.err != nil {
		return nil, n.err
	}
	return &models.DispatchRecord{SentCount: 1, TargetCustomerIDs: []string{"x"}}, nil
}

func TestCampaignService_CreateDerivesTypeAndDefaults(t *testing.T) {
	f := newFixture(t, 100)
	c := spendCampaign()
	c.Trigger = models.Trigger{Type: models.TriggerCategoryPurchase, CategoryNames: []string{"Pizza"}, RequiredQuantity: intPtr(2)}

	res, err := f.campaigns.Create(context.Background(), restaurant, "admin-1", c)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got := res.Campaign
	if got.Type != models.CampaignTypeCategoryDiscount {
		t.Errorf("type = %s, want CATEGORY_DISCOUNT", got.Type)
	}
	if got.Status != models.CampaignStatusActive || got.UsageLimits.MaxUsagePerCustomer != 1 {
		t.Errorf("status = %s maxPerCustomer = %d", got.Status, got.UsageLimits.MaxUsagePerCustomer)
	}
	if got.RestaurantID != restaurant || got.CreatedBy != "admin-1" || got.ID.IsZero() {
		t.Errorf("campaign = %+v", got)
	}
	if res.Dispatch != nil {
		t.Error("no dispatch expected without notification.send")
	}
}

func TestCampaignService_CreateRejectsInvalid(t *testing.T) {
	f := newFixture(t, 100)
	c := spendCampaign()
	c.Name = "x"
	c.Reward.DiscountValue = floatPtr(150)

	_, err := f.campaigns.Create(context.Background(), restaurant, "admin-1", c)
	var verrs campaigns.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Create() error = %v, want ValidationErrors", err)
	}
	if !verrs.Has("name") || !verrs.Has("reward.discountValue") {
		t.Errorf("errors = %v", verrs)
	}
	list, total, _ := f.campaigns.List(context.Background(), models.CampaignFilter{RestaurantID: restaurant})
	if total != 0 || len(list) != 0 {
		t.Error("invalid campaign was persisted")
	}
}

func TestCampaignService_CreateNotifies(t *testing.T) {
	t.Run("announcement sent", func(t *testing.T) {
		f := newFixture(t, 100)
		f.addCustomer(t, "ada", "VIP", "Gold")
		f.addCustomer(t, "bola", "Regular", "Silver")

		c := spendCampaign()
		c.Audience = models.Audience{TierIDs: []string{"Gold"}}
		c.Notification = models.NotificationConfig{Send: true, Title: "New deal", Message: "Ten percent off"}
		res, err := f.campaigns.Create(context.Background(), restaurant, "admin-1", c)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if res.Dispatch == nil || res.Dispatch.SentCount != 1 || res.Dispatch.Category != CategoryCampaign {
			t.Fatalf("dispatch = %+v", res.Dispatch)
		}
		if res.Dispatch.CampaignID != res.Campaign.ID {
			t.Error("dispatch not linked to campaign")
		}
	})

	t.Run("announcement failure keeps campaign", func(t *testing.T) {
		f := newFixture(t, 100)
		notifier := &stubNotifier{err: ErrNoRecipients}
		svc := NewCampaignService(f.repos.Campaigns, notifier)

		c := spendCampaign()
		c.Notification = models.NotificationConfig{Send: true, Title: "New deal", Message: "Ten percent off"}
		res, err := svc.Create(context.Background(), restaurant, "admin-1", c)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if notifier.calls != 1 || res.DispatchError == "" {
			t.Errorf("calls = %d dispatchError = %q", notifier.calls, res.DispatchError)
		}
		if _, err := svc.Get(context.Background(), restaurant, res.Campaign.ID); err != nil {
			t.Errorf("campaign not stored: %v", err)
		}
	})
}

func TestCampaignService_UpdateReplacesAndRederives(t *testing.T) {
	f := newFixture(t, 100)
	created := f.createCampaign(t, spendCampaign())

	edit := spendCampaign()
	edit.Trigger = models.Trigger{Type: models.TriggerBirthday}
	edit.Reward = models.Reward{Type: models.RewardDiscountFixed, DiscountValue: floatPtr(50)}
	updated, err := f.campaigns.Update(context.Background(), restaurant, created.ID, edit)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Type != models.CampaignTypeBirthdaySpecial || updated.Trigger.MinPurchase != nil {
		t.Errorf("updated = %+v", updated)
	}
	if updated.CreatedBy != "admin-1" || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("creation metadata not preserved")
	}

	view, err := f.campaigns.GetForEdit(context.Background(), restaurant, created.ID)
	if err != nil {
		t.Fatalf("GetForEdit() error = %v", err)
	}
	want := campaigns.Selection{TriggerType: models.TriggerBirthday, RewardType: models.RewardDiscountFixed}
	if view.Selection != want {
		t.Errorf("selection = %+v, want %+v", view.Selection, want)
	}
}

func TestCampaignService_EditRestoresCategoryRule(t *testing.T) {
	f := newFixture(t, 100)
	c := spendCampaign()
	c.Trigger = models.Trigger{Type: models.TriggerCategoryPurchase, CategoryNames: []string{"Pizza"}, RequiredQuantity: intPtr(2)}
	c.Reward = models.Reward{Type: models.RewardDiscountFixed, DiscountValue: floatPtr(50)}
	created := f.createCampaign(t, c)
	if created.Type != models.CampaignTypeCategoryDiscount {
		t.Fatalf("type = %s, want CATEGORY_DISCOUNT", created.Type)
	}

	view, err := f.campaigns.GetForEdit(context.Background(), restaurant, created.ID)
	if err != nil {
		t.Fatalf("GetForEdit() error = %v", err)
	}
	want := campaigns.Selection{TriggerType: models.TriggerCategoryPurchase, RewardType: models.RewardDiscountFixed}
	if view.Selection != want {
		t.Errorf("selection = %+v, want %+v", view.Selection, want)
	}
	trigger, reward := view.Campaign.Trigger, view.Campaign.Reward
	if len(trigger.CategoryNames) != 1 || trigger.CategoryNames[0] != "Pizza" {
		t.Errorf("categoryNames = %v, want [Pizza]", trigger.CategoryNames)
	}
	if trigger.RequiredQuantity == nil || *trigger.RequiredQuantity != 2 {
		t.Errorf("requiredQuantity = %v, want 2", trigger.RequiredQuantity)
	}
	if reward.DiscountValue == nil || *reward.DiscountValue != 50 {
		t.Errorf("discountValue = %v, want 50", reward.DiscountValue)
	}
}

func TestCampaignService_UpdateKeepsUsageCount(t *testing.T) {
	f := newFixture(t, 100)
	ctx := context.Background()
	created := f.createCampaign(t, spendCampaign())
	if err := f.repos.Campaigns.IncrementUsage(ctx, created.ID); err != nil {
		t.Fatal(err)
	}

	edit := spendCampaign()
	edit.UsageCount = 0
	updated, err := f.campaigns.Update(ctx, restaurant, created.ID, edit)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.UsageCount != 1 {
		t.Errorf("usage count = %d, want 1", updated.UsageCount)
	}
}

func TestCampaignService_Lifecycle(t *testing.T) {
	f := newFixture(t, 100)
	ctx := context.Background()
	c := f.createCampaign(t, spendCampaign())

	got, err := f.campaigns.SetActive(ctx, restaurant, c.ID, false)
	if err != nil || got.Status != models.CampaignStatusInactive {
		t.Fatalf("SetActive(false) = %v, %v", got, err)
	}

	retired, err := f.campaigns.Retire(ctx, restaurant, c.ID)
	if err != nil || retired.Status != models.CampaignStatusRetired || retired.RetiredAt == nil {
		t.Fatalf("Retire() = %+v, %v", retired, err)
	}
	if _, err := f.campaigns.SetActive(ctx, restaurant, c.ID, true); !errors.Is(err, ErrCampaignRetired) {
		t.Errorf("SetActive on retired error = %v", err)
	}
	if _, err := f.campaigns.Update(ctx, restaurant, c.ID, spendCampaign()); !errors.Is(err, ErrCampaignRetired) {
		t.Errorf("Update on retired error = %v", err)
	}

	if err := f.campaigns.Delete(ctx, restaurant, c.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := f.campaigns.Get(ctx, restaurant, c.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Get after delete error = %v", err)
	}
}

func TestCampaignService_ScopedByRestaurant(t *testing.T) {
	f := newFixture(t, 100)
	c := f.createCampaign(t, spendCampaign())
	if _, err := f.campaigns.Get(context.Background(), "other", c.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("cross-restaurant Get error = %v", err)
	}
}

func TestCampaignService_ListFilters(t *testing.T) {
	f := newFixture(t, 100)
	f.createCampaign(t, spendCampaign())
	pts := spendCampaign()
	pts.Name = "Double points"
	pts.Description = "Twice the points on every order"
	pts.Reward = models.Reward{Type: models.RewardPointsMultiplier, PointsMultiplier: floatPtr(2)}
	f.createCampaign(t, pts)

	tests := []struct {
		name   string
		filter models.CampaignFilter
		want   int64
	}{
		{"all", models.CampaignFilter{}, 2},
		{"search description", models.CampaignFilter{Search: "twice"}, 1},
		{"type", models.CampaignFilter{Type: models.CampaignTypeLoyaltyPoints}, 1},
		{"status", models.CampaignFilter{Status: models.CampaignStatusInactive}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.RestaurantID = restaurant
			_, total, err := f.campaigns.List(context.Background(), tt.filter)
			if err != nil || total != tt.want {
				t.Errorf("List() total = %d, err = %v, want %d", total, err, tt.want)
			}
		})
	}
}

func TestCampaignService_ValidateDraft(t *testing.T) {
	f := newFixture(t, 100)
	draft := spendCampaign()
	draft.Trigger.MinPurchase = nil
	draft.Name = ""

	if errs := f.campaigns.ValidateDraft(draft, campaigns.StepReward); errs != nil {
		t.Errorf("reward step errors = %v, want none", errs)
	}
	errs := f.campaigns.ValidateDraft(draft, campaigns.StepTrigger)
	if !errs.Has("trigger.minPurchase") || errs.Has("name") {
		t.Errorf("trigger step errors = %v", errs)
	}
	if all := f.campaigns.ValidateDraft(draft, ""); len(all) != 2 {
		t.Errorf("full validation errors = %v, want 2", all)
	}
	if draft.UsageLimits.MaxUsagePerCustomer != 0 {
		t.Error("ValidateDraft mutated the draft")
	}
}
