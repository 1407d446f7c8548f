package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is left by a subscriber on their assigned vendor. One review per
// subscription keeps ratings tied to an actual service period.
type Review struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	VendorID       primitive.ObjectID `json:"vendor_id" bson:"vendor_id" validate:"required"`
	UserID         primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	SubscriptionID primitive.ObjectID `json:"subscription_id" bson:"subscription_id" validate:"required"`
	Rating         int                `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Title          string             `json:"title" bson:"title"`
	Comment        string             `json:"comment" bson:"comment"`
	IsPublic       bool               `json:"is_public" bson:"is_public"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}
