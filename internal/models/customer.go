package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer is a loyalty program member
type Customer struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RestaurantID    string             `bson:"restaurantId" json:"-"`
	Name            string             `bson:"name" json:"name" binding:"required"`
	Phone           string             `bson:"phone" json:"phone" binding:"required"`
	LoyaltyTier     string             `bson:"loyaltyTier" json:"loyaltyTier"`
	Segment         string             `bson:"segment" json:"segment"`
	TotalPoints     int                `bson:"totalPoints" json:"totalPoints"`
	HasSubscription bool               `bson:"hasSubscription" json:"hasSubscription"`
	VisitCount      int                `bson:"visitCount" json:"visitCount"`
	BirthDate       *time.Time         `bson:"birthDate,omitempty" json:"birthDate,omitempty"`
	LastVisit       time.Time          `bson:"lastVisit,omitempty" json:"lastVisit,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PointTransaction records points credited or debited for a customer
type PointTransaction struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RestaurantID  string             `bson:"restaurantId" json:"restaurantId"`
	CustomerID    string             `bson:"customerId" json:"customerId"`
	TransactionID primitive.ObjectID `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	CampaignID    primitive.ObjectID `bson:"campaignId,omitempty" json:"campaignId,omitempty"`
	RewardID      primitive.ObjectID `bson:"rewardId,omitempty" json:"rewardId,omitempty"`
	Points        int                `bson:"points" json:"points"` // negative for redemptions
	Reason        string             `bson:"reason" json:"reason"` // PURCHASE, CAMPAIGN_BONUS, REDEMPTION
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
