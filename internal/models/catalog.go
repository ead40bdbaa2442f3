package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a sellable item in a restaurant catalog
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RestaurantID string             `bson:"restaurantId" json:"-"`
	Name         string             `bson:"name" json:"name" binding:"required"`
	Category     string             `bson:"category" json:"category" binding:"required"`
	Price        float64            `bson:"price" json:"price" binding:"gte=0"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// Segment is a marketing-defined customer grouping
type Segment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RestaurantID string             `bson:"restaurantId" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	MemberCount  int64              `bson:"memberCount" json:"memberCount"`
	CountedAt    time.Time          `bson:"countedAt,omitempty" json:"countedAt,omitempty"`
}

// Tier is an ordered loyalty level
type Tier struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RestaurantID string             `bson:"restaurantId" json:"-"`
	Name         string             `bson:"name" json:"name"`
	DisplayName  string             `bson:"displayName" json:"displayName"`
	Color        string             `bson:"color" json:"color"`
	Level        int                `bson:"level" json:"level"`
	MemberCount  int64              `bson:"memberCount" json:"memberCount"`
	CountedAt    time.Time          `bson:"countedAt,omitempty" json:"countedAt,omitempty"`
}

// CatalogReward is an item in the points reward catalog
type CatalogReward struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RestaurantID string             `bson:"restaurantId" json:"-"`
	Name         string             `bson:"name" json:"name" binding:"required"`
	Description  string             `bson:"description" json:"description"`
	PointsCost   int                `bson:"pointsCost" json:"pointsCost" binding:"required,gt=0"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
