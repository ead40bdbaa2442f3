package campaigns

import (
	"testing"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// validCampaign returns a campaign that passes validation
func validCampaign() *models.Campaign {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &models.Campaign{
		Name:        "Spend and save",
		Description: "Ten percent off orders above one hundred",
		StartDate:   start,
		EndDate:     start.AddDate(0, 1, 0),
		Trigger:     models.Trigger{Type: models.TriggerPurchaseAmount, MinPurchase: floatPtr(100)},
		Reward:      models.Reward{Type: models.RewardDiscountPercentage, DiscountValue: floatPtr(10)},
		UsageLimits: models.UsageLimits{MaxUsagePerCustomer: 1},
	}
}

func TestValidate_Valid(t *testing.T) {
	if errs := Validate(validCampaign()); errs != nil {
		t.Fatalf("Validate() = %v, want nil", errs)
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *models.Campaign)
		field  string
	}{
		{"short name", func(c *models.Campaign) { c.Name = "A" }, "name"},
		{"short description", func(c *models.Campaign) { c.Description = "too short" }, "description"},
		{"missing start", func(c *models.Campaign) { c.StartDate = time.Time{} }, "startDate"},
		{"missing end", func(c *models.Campaign) { c.EndDate = time.Time{} }, "endDate"},
		{"end before start", func(c *models.Campaign) { c.EndDate = c.StartDate.Add(-time.Hour) }, "endDate"},
		{"end equals start", func(c *models.Campaign) { c.EndDate = c.StartDate }, "endDate"},
		{"purchase amount without min", func(c *models.Campaign) { c.Trigger.MinPurchase = nil }, "trigger.minPurchase"},
		{"negative min purchase", func(c *models.Campaign) { c.Trigger.MinPurchase = floatPtr(-1) }, "trigger.minPurchase"},
		{"visit count missing", func(c *models.Campaign) {
			c.Trigger = models.Trigger{Type: models.TriggerVisitCount}
		}, "trigger.visitCount"},
		{"visit count zero", func(c *models.Campaign) {
			c.Trigger = models.Trigger{Type: models.TriggerVisitCount, VisitCount: intPtr(0)}
		}, "trigger.visitCount"},
		{"product purchase without quantity", func(c *models.Campaign) {
			c.Trigger = models.Trigger{Type: models.TriggerProductPurchase, ProductIDs: []string{"p1"}}
		}, "trigger.requiredQuantity"},
		{"product purchase without products", func(c *models.Campaign) {
			c.Trigger = models.Trigger{Type: models.TriggerProductPurchase, RequiredQuantity: intPtr(1)}
		}, "trigger.productIds"},
		{"category purchase without categories", func(c *models.Campaign) {
			c.Trigger = models.Trigger{Type: models.TriggerCategoryPurchase, RequiredQuantity: intPtr(2), CategoryNames: []string{" "}}
		}, "trigger.categoryNames"},
		{"unknown trigger", func(c *models.Campaign) { c.Trigger = models.Trigger{Type: "LUCKY_DRAW"} }, "trigger.type"},
		{"missing trigger", func(c *models.Campaign) { c.Trigger = models.Trigger{} }, "trigger.type"},
		{"percentage missing", func(c *models.Campaign) { c.Reward.DiscountValue = nil }, "reward.discountValue"},
		{"percentage above 100", func(c *models.Campaign) { c.Reward.DiscountValue = floatPtr(101) }, "reward.discountValue"},
		{"percentage zero", func(c *models.Campaign) { c.Reward.DiscountValue = floatPtr(0) }, "reward.discountValue"},
		{"fixed negative", func(c *models.Campaign) {
			c.Reward = models.Reward{Type: models.RewardDiscountFixed, DiscountValue: floatPtr(-5)}
		}, "reward.discountValue"},
		{"free product without products", func(c *models.Campaign) {
			c.Reward = models.Reward{Type: models.RewardFreeProduct}
		}, "reward.productIds"},
		{"multiplier missing", func(c *models.Campaign) {
			c.Reward = models.Reward{Type: models.RewardPointsMultiplier}
		}, "reward.pointsMultiplier"},
		{"multiplier below one", func(c *models.Campaign) {
			c.Reward = models.Reward{Type: models.RewardPointsMultiplier, PointsMultiplier: floatPtr(0.5)}
		}, "reward.pointsMultiplier"},
		{"per customer zero", func(c *models.Campaign) { c.UsageLimits.MaxUsagePerCustomer = 0 }, "usageLimits.maxUsagePerCustomer"},
		{"total zero", func(c *models.Campaign) { c.UsageLimits.MaxUsageTotal = intPtr(0) }, "usageLimits.maxUsageTotal"},
		{"blank segment id", func(c *models.Campaign) { c.Audience.SegmentIDs = []string{""} }, "audience.segmentIds"},
		{"bad start time", func(c *models.Campaign) {
			c.TimeRestriction = &models.TimeRestriction{StartTime: "25:00", EndTime: "10:00"}
		}, "timeRestriction.startTime"},
		{"equal times", func(c *models.Campaign) {
			c.TimeRestriction = &models.TimeRestriction{StartTime: "10:00", EndTime: "10:00"}
		}, "timeRestriction.endTime"},
		{"day out of range", func(c *models.Campaign) { c.DayRestriction = []int{0} }, "dayRestriction"},
		{"duplicate day", func(c *models.Campaign) { c.DayRestriction = []int{3, 3} }, "dayRestriction"},
		{"notification without title", func(c *models.Campaign) {
			c.Notification = models.NotificationConfig{Send: true, Message: "hello"}
		}, "notification.title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCampaign()
			tt.mutate(c)
			errs := Validate(c)
			if !errs.Has(tt.field) {
				t.Fatalf("Validate() = %v, want error on %q", errs, tt.field)
			}
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	c := validCampaign()
	c.Name = ""
	c.Reward.DiscountValue = nil
	c.Notification = models.NotificationConfig{Send: true}

	errs := Validate(c)
	for _, field := range []string{"name", "reward.discountValue", "notification.title", "notification.message"} {
		if !errs.Has(field) {
			t.Errorf("Validate() missing error on %q: %v", field, errs)
		}
	}
}

func TestValidate_AcceptedEdges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *models.Campaign)
	}{
		{"percentage exactly 100", func(c *models.Campaign) { c.Reward.DiscountValue = floatPtr(100) }},
		{"fixed zero", func(c *models.Campaign) {
			c.Reward = models.Reward{Type: models.RewardDiscountFixed, DiscountValue: floatPtr(0)}
		}},
		{"birthday without params", func(c *models.Campaign) { c.Trigger = models.Trigger{Type: models.TriggerBirthday} }},
		{"free shipping", func(c *models.Campaign) { c.Reward = models.Reward{Type: models.RewardFreeShipping} }},
		{"overnight window", func(c *models.Campaign) {
			c.TimeRestriction = &models.TimeRestriction{StartTime: "22:00", EndTime: "02:00"}
		}},
		{"notification off ignores title", func(c *models.Campaign) { c.Notification = models.NotificationConfig{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCampaign()
			tt.mutate(c)
			if errs := Validate(c); errs != nil {
				t.Fatalf("Validate() = %v, want nil", errs)
			}
		})
	}
}

func TestValidateStep(t *testing.T) {
	c := validCampaign()
	c.Name = "X"
	c.Trigger.MinPurchase = nil
	c.UsageLimits.MaxUsagePerCustomer = 0

	if errs := ValidateStep(c, StepBasics); len(errs) != 1 || errs[0].Field != "name" {
		t.Errorf("ValidateStep(basics) = %v", errs)
	}
	if errs := ValidateStep(c, StepTrigger); len(errs) != 1 || errs[0].Field != "trigger.minPurchase" {
		t.Errorf("ValidateStep(trigger) = %v", errs)
	}
	if errs := ValidateStep(c, StepAudience); len(errs) != 1 {
		t.Errorf("ValidateStep(audience) = %v", errs)
	}
	if errs := ValidateStep(c, StepReward); errs != nil {
		t.Errorf("ValidateStep(reward) = %v, want nil", errs)
	}
}

func TestApplyDefaults(t *testing.T) {
	c := validCampaign()
	c.UsageLimits.MaxUsagePerCustomer = 0
	ApplyDefaults(c)
	if c.UsageLimits.MaxUsagePerCustomer != 1 {
		t.Errorf("MaxUsagePerCustomer = %d, want 1", c.UsageLimits.MaxUsagePerCustomer)
	}
	if c.Status != models.CampaignStatusActive {
		t.Errorf("Status = %s, want ACTIVE", c.Status)
	}
}

func TestParseStep(t *testing.T) {
	if s, ok := ParseStep("Reward"); !ok || s != StepReward {
		t.Errorf("ParseStep(Reward) = %v, %v", s, ok)
	}
	if _, ok := ParseStep("payment"); ok {
		t.Error("ParseStep(payment) should fail")
	}
}
