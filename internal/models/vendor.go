package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vendor is a kitchen on the platform, either a commercial food vendor or a
// home chef. Capacity is advisory for admins working the assignment queue.
type Vendor struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID        primitive.ObjectID `json:"user_id" bson:"user_id"`
	BusinessName  string             `json:"business_name" bson:"business_name" validate:"required"`
	VendorType    VendorType         `json:"vendor_type" bson:"vendor_type" validate:"required"`
	Phone         string             `json:"phone" bson:"phone"`
	Email         string             `json:"email" bson:"email"`
	ZoneID        primitive.ObjectID `json:"zone_id" bson:"zone_id"`
	DailyCapacity int                `json:"daily_capacity" bson:"daily_capacity"`
	RatingAverage float64            `json:"rating_average" bson:"rating_average"`
	RatingCount   int                `json:"rating_count" bson:"rating_count"`
	IsActive      bool               `json:"is_active" bson:"is_active"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}
