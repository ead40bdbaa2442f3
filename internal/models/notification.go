package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DispatchRecord represents one push notification send to a list of customers
type DispatchRecord struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RestaurantID      string             `bson:"restaurantId" json:"restaurantId"`
	Title             string             `bson:"title" json:"title"`
	Body              string             `bson:"body" json:"body"`
	Category          string             `bson:"category" json:"category"` // PROMOTION, CAMPAIGN, ANNOUNCEMENT, etc.
	CampaignID        primitive.ObjectID `bson:"campaignId,omitempty" json:"campaignId,omitempty"`
	TargetCustomerIDs []string           `bson:"targetCustomerIds" json:"targetCustomerIds"`
	SentCount         int                `bson:"sentCount" json:"sentCount"`
	FailedCount       int                `bson:"failedCount" json:"failedCount"`
	Gateway           string             `bson:"gateway" json:"gateway"`
	BatchIDs          []string           `bson:"batchIds,omitempty" json:"batchIds,omitempty"`
	CreatedBy         string             `bson:"createdBy" json:"createdBy"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}

// Consistent reports whether every target is accounted for as sent or failed.
// A false result is a data-quality signal, not an error.
func (r *DispatchRecord) Consistent() bool {
	return r.SentCount+r.FailedCount == len(r.TargetCustomerIDs)
}

// SuccessRate returns the percentage of attempted recipients that were sent
func (r *DispatchRecord) SuccessRate() float64 {
	return SuccessRate(int64(r.SentCount), int64(r.FailedCount))
}

// SuccessRate returns sent*100/(sent+failed), or 0 when nothing was attempted
func SuccessRate(sent, failed int64) float64 {
	if sent+failed == 0 {
		return 0
	}
	return float64(sent) * 100 / float64(sent+failed)
}

// DispatchSummary aggregates dispatch records for the analytics dashboard
type DispatchSummary struct {
	Dispatches       int64   `json:"dispatches"`
	TotalSent        int64   `json:"totalSent"`
	TotalFailed      int64   `json:"totalFailed"`
	SuccessRate      float64 `json:"successRate"`
	InconsistentRuns int64   `json:"inconsistentRuns"`
}
