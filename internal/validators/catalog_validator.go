package validators

import (
	"time"
)

type PlanCreateRequest struct {
	Name          string  `json:"name" validate:"required,min=3,max=100"`
	Description   string  `json:"description" validate:"omitempty,max=1000"`
	Category      string  `json:"category" validate:"required,oneof=food_vendor home_chef combo"`
	DurationDays  int     `json:"duration_days" validate:"required,min=1,max=90"`
	MealCredits   int     `json:"meal_credits" validate:"required,min=1,max=200"`
	SkipCredits   int     `json:"skip_credits" validate:"omitempty,min=0,max=30"`
	Price         float64 `json:"price" validate:"required,amount"`
	Currency      string  `json:"currency" validate:"omitempty,currency_code"`
	LunchEnabled  bool    `json:"lunch_enabled"`
	DinnerEnabled bool    `json:"dinner_enabled"`
}

type PromotionCreateRequest struct {
	Code           string     `json:"code" validate:"required,promo_code"`
	Title          string     `json:"title" validate:"required,max=100"`
	Description    string     `json:"description" validate:"omitempty,max=500"`
	Type           string     `json:"type" validate:"required,oneof=percentage fixed"`
	Value          float64    `json:"value" validate:"required,amount"`
	MaxDiscount    float64    `json:"max_discount" validate:"omitempty,amount"`
	MinOrderAmount float64    `json:"min_order_amount" validate:"omitempty,amount"`
	Category       string     `json:"category" validate:"omitempty,oneof=food_vendor home_chef combo"`
	UsageLimit     int        `json:"usage_limit" validate:"omitempty,min=0"`
	PerUserLimit   int        `json:"per_user_limit" validate:"omitempty,min=0,max=100"`
	ValidFrom      *time.Time `json:"valid_from" validate:"omitempty"`
	ValidUntil     *time.Time `json:"valid_until" validate:"omitempty"`
}

func ValidatePlanCreate(req *PlanCreateRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if !req.LunchEnabled && !req.DinnerEnabled {
		errors = append(errors, ValidationError{
			Field:   "lunch_enabled",
			Message: "Plan must enable at least one meal slot",
		})
	}

	return errors
}

func ValidatePromotionCreate(req *PromotionCreateRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if req.Type == "percentage" && req.Value > 100 {
		errors = append(errors, ValidationError{
			Field:   "value",
			Message: "Percentage discount cannot exceed 100",
		})
	}

	if req.ValidFrom != nil && req.ValidUntil != nil && req.ValidUntil.Before(*req.ValidFrom) {
		errors = append(errors, ValidationError{
			Field:   "valid_until",
			Message: "Valid until must be after valid from",
		})
	}

	return errors
}
