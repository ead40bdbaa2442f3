package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SystemSettings represents per-restaurant console settings
type SystemSettings struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RestaurantID string             `bson:"restaurantId" json:"restaurantId"`
	PushGateway  string             `bson:"pushGateway" json:"pushGateway"` // MOCK, HTTP, KAFKA
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy    string             `bson:"updatedBy" json:"updatedBy"`
}
