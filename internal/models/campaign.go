package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CampaignType is the coarse category derived from the trigger/reward pair
type CampaignType string

const (
	CampaignTypeProductBased     CampaignType = "PRODUCT_BASED"
	CampaignTypeCategoryDiscount CampaignType = "CATEGORY_DISCOUNT"
	CampaignTypeBirthdaySpecial  CampaignType = "BIRTHDAY_SPECIAL"
	CampaignTypeLoyaltyPoints    CampaignType = "LOYALTY_POINTS"
	CampaignTypeDiscount         CampaignType = "DISCOUNT"
)

// CampaignStatus is the lifecycle state of a campaign
type CampaignStatus string

const (
	CampaignStatusActive   CampaignStatus = "ACTIVE"
	CampaignStatusInactive CampaignStatus = "INACTIVE"
	CampaignStatusRetired  CampaignStatus = "RETIRED"
)

// TriggerType discriminates the Trigger union
type TriggerType string

const (
	TriggerPurchaseAmount   TriggerType = "PURCHASE_AMOUNT"
	TriggerProductPurchase  TriggerType = "PRODUCT_PURCHASE"
	TriggerCategoryPurchase TriggerType = "CATEGORY_PURCHASE"
	TriggerVisitCount       TriggerType = "VISIT_COUNT"
	TriggerBirthday         TriggerType = "BIRTHDAY"
)

// RewardType discriminates the Reward union
type RewardType string

const (
	RewardDiscountPercentage RewardType = "DISCOUNT_PERCENTAGE"
	RewardDiscountFixed      RewardType = "DISCOUNT_FIXED"
	RewardFreeProduct        RewardType = "FREE_PRODUCT"
	RewardPointsMultiplier   RewardType = "POINTS_MULTIPLIER"
	RewardFreeShipping       RewardType = "FREE_SHIPPING"
)

// TriggerTypes lists every trigger type in wizard order
var TriggerTypes = []TriggerType{
	TriggerPurchaseAmount,
	TriggerProductPurchase,
	TriggerCategoryPurchase,
	TriggerVisitCount,
	TriggerBirthday,
}

// RewardTypes lists every reward type in wizard order
var RewardTypes = []RewardType{
	RewardDiscountPercentage,
	RewardDiscountFixed,
	RewardFreeProduct,
	RewardPointsMultiplier,
	RewardFreeShipping,
}

// Campaign is a loyalty campaign rule owned by one restaurant
type Campaign struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RestaurantID    string             `bson:"restaurantId" json:"restaurantId"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description" json:"description"`
	Type            CampaignType       `bson:"type" json:"type"`
	Status          CampaignStatus     `bson:"status" json:"status"`
	StartDate       time.Time          `bson:"startDate" json:"startDate"`
	EndDate         time.Time          `bson:"endDate" json:"endDate"`
	Trigger         Trigger            `bson:"trigger" json:"trigger"`
	Reward          Reward             `bson:"reward" json:"reward"`
	UsageLimits     UsageLimits        `bson:"usageLimits" json:"usageLimits"`
	Audience        Audience           `bson:"audience" json:"audience"`
	TimeRestriction *TimeRestriction   `bson:"timeRestriction,omitempty" json:"timeRestriction,omitempty"`
	DayRestriction  []int              `bson:"dayRestriction,omitempty" json:"dayRestriction,omitempty"` // 1=Monday..7=Sunday
	Notification    NotificationConfig `bson:"notification" json:"notification"`
	UsageCount      int                `bson:"usageCount" json:"usageCount"`
	CreatedBy       string             `bson:"createdBy" json:"createdBy"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
	RetiredAt       *time.Time         `bson:"retiredAt,omitempty" json:"retiredAt,omitempty"`
}

// Trigger is the condition that makes a campaign applicable.
// Only the parameters of the selected Type are meaningful.
type Trigger struct {
	Type             TriggerType `bson:"type" json:"type"`
	MinPurchase      *float64    `bson:"minPurchase,omitempty" json:"minPurchase,omitempty"`
	ProductIDs       []string    `bson:"productIds,omitempty" json:"productIds,omitempty"`
	CategoryNames    []string    `bson:"categoryNames,omitempty" json:"categoryNames,omitempty"`
	RequiredQuantity *int        `bson:"requiredQuantity,omitempty" json:"requiredQuantity,omitempty"`
	VisitCount       *int        `bson:"visitCount,omitempty" json:"visitCount,omitempty"`
}

// Reward is the benefit granted once the trigger is satisfied
type Reward struct {
	Type             RewardType `bson:"type" json:"type"`
	DiscountValue    *float64   `bson:"discountValue,omitempty" json:"discountValue,omitempty"`
	ProductIDs       []string   `bson:"productIds,omitempty" json:"productIds,omitempty"`
	PointsMultiplier *float64   `bson:"pointsMultiplier,omitempty" json:"pointsMultiplier,omitempty"`
}

// UsageLimits caps redemptions globally and per customer
type UsageLimits struct {
	MaxUsageTotal       *int `bson:"maxUsageTotal,omitempty" json:"maxUsageTotal,omitempty"`
	MaxUsagePerCustomer int  `bson:"maxUsagePerCustomer" json:"maxUsagePerCustomer"`
}

// Audience restricts a campaign to segments and/or tiers. Empty means every customer.
type Audience struct {
	SegmentIDs []string `bson:"segmentIds,omitempty" json:"segmentIds,omitempty"`
	TierIDs    []string `bson:"tierIds,omitempty" json:"tierIds,omitempty"`
}

// IsEmpty reports whether the audience targets all customers
func (a Audience) IsEmpty() bool {
	return len(a.SegmentIDs) == 0 && len(a.TierIDs) == 0
}

// TimeRestriction is a wall-clock window in HH:MM
type TimeRestriction struct {
	StartTime string `bson:"startTime" json:"startTime"`
	EndTime   string `bson:"endTime" json:"endTime"`
}

// NotificationConfig controls the announcement sent when the campaign is created
type NotificationConfig struct {
	Send    bool   `bson:"send" json:"send"`
	Title   string `bson:"title,omitempty" json:"title,omitempty"`
	Message string `bson:"message,omitempty" json:"message,omitempty"`
}

// CampaignFilter holds the list query for campaigns
type CampaignFilter struct {
	RestaurantID string
	Search       string
	Type         CampaignType
	Status       CampaignStatus
	Page         int
	Limit        int
}

// CampaignUsage is one redemption of a campaign by a customer
type CampaignUsage struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RestaurantID   string             `bson:"restaurantId" json:"restaurantId"`
	CampaignID     primitive.ObjectID `bson:"campaignId" json:"campaignId"`
	CustomerID     string             `bson:"customerId" json:"customerId"`
	TransactionID  primitive.ObjectID `bson:"transactionId" json:"transactionId"`
	DiscountAmount float64            `bson:"discountAmount" json:"discountAmount"`
	BonusPoints    int                `bson:"bonusPoints" json:"bonusPoints"`
	UsedAt         time.Time          `bson:"usedAt" json:"usedAt"`
}
