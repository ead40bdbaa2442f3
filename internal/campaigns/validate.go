// Package campaigns holds the campaign rule model: validation, the campaign
// type table and the pure evaluation helpers used at redemption time.
package campaigns

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ArowuTest/loyalty-admin-backend/internal/models"
)

// Step names a page of the campaign wizard
type Step string

const (
	StepBasics       Step = "basics"
	StepTrigger      Step = "trigger"
	StepReward       Step = "reward"
	StepAudience     Step = "audience"
	StepNotification Step = "notification"
)

// Steps lists the wizard steps in order
var Steps = []Step{StepBasics, StepTrigger, StepReward, StepAudience, StepNotification}

// ParseStep converts a query value into a Step
func ParseStep(s string) (Step, bool) {
	for _, step := range Steps {
		if string(step) == strings.ToLower(s) {
			return step, true
		}
	}
	return "", false
}

const (
	minNameLength        = 2
	minDescriptionLength = 10
	clockLayout          = "15:04"
)

// FieldError is a validation failure on one field of a campaign
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the full list of field failures for a campaign
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "campaign validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether a field has at least one error
func (v ValidationErrors) Has(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func (v *ValidationErrors) add(field, format string, args ...interface{}) {
	*v = append(*v, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// ApplyDefaults fills optional fields that have a documented default
func ApplyDefaults(c *models.Campaign) {
	if c.UsageLimits.MaxUsagePerCustomer == 0 {
		c.UsageLimits.MaxUsagePerCustomer = 1
	}
	if c.Status == "" {
		c.Status = models.CampaignStatusActive
	}
}

// Validate checks the whole campaign and returns every field error found.
// It returns nil when the campaign may be persisted.
func Validate(c *models.Campaign) ValidationErrors {
	var errs ValidationErrors
	validateBasics(c, &errs)
	validateTrigger(c.Trigger, &errs)
	validateReward(c.Reward, &errs)
	validateAudience(c, &errs)
	validateNotification(c.Notification, &errs)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateStep runs Validate and keeps only the errors belonging to one wizard step
func ValidateStep(c *models.Campaign, step Step) ValidationErrors {
	var out ValidationErrors
	for _, fe := range Validate(c) {
		if stepOf(fe.Field) == step {
			out = append(out, fe)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func stepOf(field string) Step {
	switch {
	case strings.HasPrefix(field, "trigger"):
		return StepTrigger
	case strings.HasPrefix(field, "reward"):
		return StepReward
	case strings.HasPrefix(field, "audience"), strings.HasPrefix(field, "usageLimits"),
		strings.HasPrefix(field, "timeRestriction"), strings.HasPrefix(field, "dayRestriction"):
		return StepAudience
	case strings.HasPrefix(field, "notification"):
		return StepNotification
	default:
		return StepBasics
	}
}

func validateBasics(c *models.Campaign, errs *ValidationErrors) {
	if utf8.RuneCountInString(strings.TrimSpace(c.Name)) < minNameLength {
		errs.add("name", "must be at least %d characters", minNameLength)
	}
	if utf8.RuneCountInString(strings.TrimSpace(c.Description)) < minDescriptionLength {
		errs.add("description", "must be at least %d characters", minDescriptionLength)
	}
	if c.StartDate.IsZero() {
		errs.add("startDate", "is required")
	}
	if c.EndDate.IsZero() {
		errs.add("endDate", "is required")
	}
	if !c.StartDate.IsZero() && !c.EndDate.IsZero() && !c.StartDate.Before(c.EndDate) {
		errs.add("endDate", "must be after startDate")
	}
}

func validateTrigger(t models.Trigger, errs *ValidationErrors) {
	switch t.Type {
	case models.TriggerPurchaseAmount:
		if t.MinPurchase == nil {
			errs.add("trigger.minPurchase", "is required for %s", t.Type)
		} else if *t.MinPurchase < 0 {
			errs.add("trigger.minPurchase", "must not be negative")
		}
	case models.TriggerProductPurchase:
		validateQuantity(t.RequiredQuantity, errs)
		if len(nonBlank(t.ProductIDs)) == 0 {
			errs.add("trigger.productIds", "select at least one product")
		}
	case models.TriggerCategoryPurchase:
		validateQuantity(t.RequiredQuantity, errs)
		if len(nonBlank(t.CategoryNames)) == 0 {
			errs.add("trigger.categoryNames", "select at least one category")
		}
	case models.TriggerVisitCount:
		if t.VisitCount == nil {
			errs.add("trigger.visitCount", "is required for %s", t.Type)
		} else if *t.VisitCount < 1 {
			errs.add("trigger.visitCount", "must be at least 1")
		}
	case models.TriggerBirthday:
	case "":
		errs.add("trigger.type", "is required")
	default:
		errs.add("trigger.type", "unknown trigger type %q", t.Type)
	}
}

func validateQuantity(q *int, errs *ValidationErrors) {
	if q == nil {
		errs.add("trigger.requiredQuantity", "is required")
		return
	}
	if *q < 1 {
		errs.add("trigger.requiredQuantity", "must be at least 1")
	}
}

func validateReward(r models.Reward, errs *ValidationErrors) {
	switch r.Type {
	case models.RewardDiscountPercentage:
		if r.DiscountValue == nil {
			errs.add("reward.discountValue", "is required for %s", r.Type)
		} else if *r.DiscountValue <= 0 || *r.DiscountValue > 100 {
			errs.add("reward.discountValue", "percentage must be greater than 0 and at most 100")
		}
	case models.RewardDiscountFixed:
		if r.DiscountValue == nil {
			errs.add("reward.discountValue", "is required for %s", r.Type)
		} else if *r.DiscountValue < 0 {
			errs.add("reward.discountValue", "must not be negative")
		}
	case models.RewardFreeProduct:
		if len(nonBlank(r.ProductIDs)) == 0 {
			errs.add("reward.productIds", "select at least one product")
		}
	case models.RewardPointsMultiplier:
		if r.PointsMultiplier == nil {
			errs.add("reward.pointsMultiplier", "is required for %s", r.Type)
		} else if *r.PointsMultiplier < 1 {
			errs.add("reward.pointsMultiplier", "must be at least 1")
		}
	case models.RewardFreeShipping:
	case "":
		errs.add("reward.type", "is required")
	default:
		errs.add("reward.type", "unknown reward type %q", r.Type)
	}
}

func validateAudience(c *models.Campaign, errs *ValidationErrors) {
	if c.UsageLimits.MaxUsagePerCustomer < 1 {
		errs.add("usageLimits.maxUsagePerCustomer", "must be at least 1")
	}
	if c.UsageLimits.MaxUsageTotal != nil && *c.UsageLimits.MaxUsageTotal < 1 {
		errs.add("usageLimits.maxUsageTotal", "must be at least 1")
	}
	if len(nonBlank(c.Audience.SegmentIDs)) != len(c.Audience.SegmentIDs) {
		errs.add("audience.segmentIds", "must not contain empty ids")
	}
	if len(nonBlank(c.Audience.TierIDs)) != len(c.Audience.TierIDs) {
		errs.add("audience.tierIds", "must not contain empty ids")
	}
	if tr := c.TimeRestriction; tr != nil {
		start, errStart := time.Parse(clockLayout, tr.StartTime)
		end, errEnd := time.Parse(clockLayout, tr.EndTime)
		if errStart != nil {
			errs.add("timeRestriction.startTime", "must be HH:MM")
		}
		if errEnd != nil {
			errs.add("timeRestriction.endTime", "must be HH:MM")
		}
		if errStart == nil && errEnd == nil && start.Equal(end) {
			errs.add("timeRestriction.endTime", "must differ from startTime")
		}
	}
	seen := make(map[int]bool, len(c.DayRestriction))
	for _, d := range c.DayRestriction {
		if d < 1 || d > 7 {
			errs.add("dayRestriction", "day %d is out of range 1..7", d)
			continue
		}
		if seen[d] {
			errs.add("dayRestriction", "day %d is listed twice", d)
		}
		seen[d] = true
	}
}

func validateNotification(n models.NotificationConfig, errs *ValidationErrors) {
	if !n.Send {
		return
	}
	if strings.TrimSpace(n.Title) == "" {
		errs.add("notification.title", "is required when sending a notification")
	}
	if strings.TrimSpace(n.Message) == "" {
		errs.add("notification.message", "is required when sending a notification")
	}
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
