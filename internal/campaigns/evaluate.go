package campaigns

import (
	"math"
	"time"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
	"github.com/ArowuTest/loyalty-admin-backend/internal/utils"
)

// CustomerContext is the slice of a customer the evaluation helpers read.
// VisitCount includes the order under evaluation.
type CustomerContext struct {
	ID         string
	VisitCount int
	BirthDate  *time.Time
	Segment    string
	Tier       string
}

// OrderContext is a candidate order evaluated against campaign rules.
// Items must carry their product category for category triggers. PlacedAt
// and Customer.BirthDate are compared on their own wall clocks, so callers
// convert both into the restaurant's location first.
type OrderContext struct {
	Total      float64
	Items      []models.LineItem
	PlacedAt   time.Time
	BasePoints int
	Customer   CustomerContext
}

// RewardOutcome is what a campaign grants for one order
type RewardOutcome struct {
	Type           models.RewardType `json:"type"`
	Discount       float64           `json:"discount"`
	FreeProductIDs []string          `json:"freeProductIds,omitempty"`
	Points         int               `json:"points"`
	FreeShipping   bool              `json:"freeShipping"`
}

// Eligibility reasons, reported for the first failing check
const (
	ReasonEligible        = "ELIGIBLE"
	ReasonNotActive       = "CAMPAIGN_NOT_ACTIVE"
	ReasonOutsideWindow   = "OUTSIDE_ACTIVE_WINDOW"
	ReasonDayRestricted   = "DAY_NOT_ALLOWED"
	ReasonTimeRestricted  = "TIME_NOT_ALLOWED"
	ReasonNotInAudience   = "NOT_IN_AUDIENCE"
	ReasonTriggerNotMet   = "TRIGGER_NOT_MET"
	ReasonUsageLimitTotal = "USAGE_LIMIT_REACHED"
	ReasonUsageLimitUser  = "CUSTOMER_USAGE_LIMIT_REACHED"
)

// Eligibility is the result of checking a campaign against an order
type Eligibility struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason"`
}

// IsWithinActiveWindow reports start <= now <= end
func IsWithinActiveWindow(c *models.Campaign, now time.Time) bool {
	return !now.Before(c.StartDate) && !now.After(c.EndDate)
}

// IsWithinTimeRestriction checks now's wall clock against the campaign time
// window, bounds inclusive at minute precision. A window whose start is after
// its end spans midnight. An unparseable window never matches.
func IsWithinTimeRestriction(c *models.Campaign, now time.Time) bool {
	tr := c.TimeRestriction
	if tr == nil {
		return true
	}
	start, ok1 := utils.ParseClock(tr.StartTime)
	end, ok2 := utils.ParseClock(tr.EndTime)
	if !ok1 || !ok2 {
		return false
	}
	m := utils.MinuteOfDay(now)
	if start <= end {
		return m >= start && m <= end
	}
	return m >= start || m <= end
}

// IsWithinDayRestriction reports whether now's ISO weekday is allowed
func IsWithinDayRestriction(c *models.Campaign, now time.Time) bool {
	if len(c.DayRestriction) == 0 {
		return true
	}
	day := utils.ISOWeekday(now)
	for _, d := range c.DayRestriction {
		if d == day {
			return true
		}
	}
	return false
}

// IsInAudience reports whether the customer is targeted. An empty audience
// targets everyone; otherwise segment or tier membership qualifies.
func IsInAudience(c *models.Campaign, cust CustomerContext) bool {
	if c.Audience.IsEmpty() {
		return true
	}
	return contains(c.Audience.SegmentIDs, cust.Segment) || contains(c.Audience.TierIDs, cust.Tier)
}

// MatchesTrigger reports whether the order satisfies the campaign trigger.
// Quantity and threshold comparisons are at-least.
func MatchesTrigger(c *models.Campaign, order OrderContext) bool {
	t := c.Trigger
	switch t.Type {
	case models.TriggerPurchaseAmount:
		return t.MinPurchase != nil && order.Total >= *t.MinPurchase
	case models.TriggerProductPurchase:
		if t.RequiredQuantity == nil {
			return false
		}
		qty := 0
		for _, item := range order.Items {
			if contains(t.ProductIDs, item.ProductID) {
				qty += item.Quantity
			}
		}
		return len(t.ProductIDs) > 0 && qty >= *t.RequiredQuantity
	case models.TriggerCategoryPurchase:
		if t.RequiredQuantity == nil {
			return false
		}
		qty := 0
		for _, item := range order.Items {
			if contains(t.CategoryNames, item.Category) {
				qty += item.Quantity
			}
		}
		return len(t.CategoryNames) > 0 && qty >= *t.RequiredQuantity
	case models.TriggerVisitCount:
		return t.VisitCount != nil && order.Customer.VisitCount >= *t.VisitCount
	case models.TriggerBirthday:
		return order.Customer.BirthDate != nil && utils.SameMonthDay(*order.Customer.BirthDate, order.PlacedAt)
	default:
		return false
	}
}

// ComputeRewardAmount computes what the campaign reward grants on the order.
// Fixed discounts never exceed the order total.
func ComputeRewardAmount(c *models.Campaign, order OrderContext) RewardOutcome {
	r := c.Reward
	out := RewardOutcome{Type: r.Type}
	switch r.Type {
	case models.RewardDiscountPercentage:
		if r.DiscountValue != nil {
			out.Discount = roundCents(*r.DiscountValue * order.Total / 100)
		}
	case models.RewardDiscountFixed:
		if r.DiscountValue != nil {
			out.Discount = roundCents(math.Max(0, math.Min(*r.DiscountValue, order.Total)))
		}
	case models.RewardFreeProduct:
		out.FreeProductIDs = append([]string(nil), r.ProductIDs...)
	case models.RewardPointsMultiplier:
		if r.PointsMultiplier != nil {
			out.Points = int(math.Floor(float64(order.BasePoints) * *r.PointsMultiplier))
		}
	case models.RewardFreeShipping:
		out.FreeShipping = true
	}
	return out
}

// CheckEligibility runs the rule checks in order and reports the first failure.
// Usage limits are not checked here; they need the usage ledger.
func CheckEligibility(c *models.Campaign, order OrderContext, now time.Time) Eligibility {
	switch {
	case c.Status != models.CampaignStatusActive:
		return Eligibility{Reason: ReasonNotActive}
	case !IsWithinActiveWindow(c, now):
		return Eligibility{Reason: ReasonOutsideWindow}
	case !IsWithinDayRestriction(c, now):
		return Eligibility{Reason: ReasonDayRestricted}
	case !IsWithinTimeRestriction(c, now):
		return Eligibility{Reason: ReasonTimeRestricted}
	case !IsInAudience(c, order.Customer):
		return Eligibility{Reason: ReasonNotInAudience}
	case !MatchesTrigger(c, order):
		return Eligibility{Reason: ReasonTriggerNotMet}
	}
	return Eligibility{Eligible: true, Reason: ReasonEligible}
}

func contains(values []string, v string) bool {
	if v == "" {
		return false
	}
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
