package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction represents a recorded customer order
type Transaction struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RestaurantID     string             `bson:"restaurantId" json:"restaurantId"`
	CustomerID       string             `bson:"customerId" json:"customerId"`
	Items            []LineItem         `bson:"items" json:"items"`
	Total            float64            `bson:"total" json:"total"`
	DiscountTotal    float64            `bson:"discountTotal" json:"discountTotal"`
	PlacedAt         time.Time          `bson:"placedAt" json:"placedAt"`
	PointsEarned     int                `bson:"pointsEarned" json:"pointsEarned"`
	AppliedCampaigns []AppliedCampaign  `bson:"appliedCampaigns,omitempty" json:"appliedCampaigns,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}

// LineItem is one product line of an order
type LineItem struct {
	ProductID string  `bson:"productId" json:"productId" binding:"required"`
	Quantity  int     `bson:"quantity" json:"quantity" binding:"required,gt=0"`
	UnitPrice float64 `bson:"unitPrice" json:"unitPrice"`
	Category  string  `bson:"category,omitempty" json:"category,omitempty"`
}

// AppliedCampaign is the reward a campaign granted on a transaction
type AppliedCampaign struct {
	CampaignID     primitive.ObjectID `bson:"campaignId" json:"campaignId"`
	CampaignName   string             `bson:"campaignName" json:"campaignName"`
	RewardType     RewardType         `bson:"rewardType" json:"rewardType"`
	DiscountAmount float64            `bson:"discountAmount" json:"discountAmount"`
	FreeProductIDs []string           `bson:"freeProductIds,omitempty" json:"freeProductIds,omitempty"`
	BonusPoints    int                `bson:"bonusPoints" json:"bonusPoints"`
	FreeShipping   bool               `bson:"freeShipping" json:"freeShipping"`
}
