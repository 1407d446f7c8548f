package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubscriptionPlan is a catalog entry. Meal and skip credits are granted to
// a UserSubscription at purchase time and never change on the plan itself.
type SubscriptionPlan struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name          string               `json:"name" bson:"name" validate:"required"`
	Description   string               `json:"description" bson:"description"`
	Category      SubscriptionCategory `json:"category" bson:"category" validate:"required"`
	DurationDays  int                  `json:"duration_days" bson:"duration_days" validate:"required,min=1"`
	MealCredits   int                  `json:"meal_credits" bson:"meal_credits" validate:"required,min=1"`
	SkipCredits   int                  `json:"skip_credits" bson:"skip_credits"`
	Price         float64              `json:"price" bson:"price" validate:"required,gt=0"`
	Currency      string               `json:"currency" bson:"currency"`
	LunchEnabled  bool                 `json:"lunch_enabled" bson:"lunch_enabled"`
	DinnerEnabled bool                 `json:"dinner_enabled" bson:"dinner_enabled"`
	IsActive      bool                 `json:"is_active" bson:"is_active"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at" bson:"updated_at"`
}
