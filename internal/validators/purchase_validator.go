package validators

import (
	"time"
)

type PurchaseInitiateRequest struct {
	PlanID          string              `json:"plan_id" validate:"required,object_id"`
	DeliveryAddress AddressRequest      `json:"delivery_address" validate:"required"`
	MealTimings     []MealTimingRequest `json:"meal_timings" validate:"omitempty,max=2,dive"`
	PromoCode       string              `json:"promo_code" validate:"omitempty,promo_code"`
	StartDate       *time.Time          `json:"start_date" validate:"omitempty"`
}

type AddressRequest struct {
	AddressLine1 string  `json:"address_line1" validate:"required,min=5,max=255"`
	AddressLine2 string  `json:"address_line2" validate:"omitempty,max=255"`
	Landmark     string  `json:"landmark" validate:"omitempty,max=255"`
	City         string  `json:"city" validate:"required,max=100"`
	State        string  `json:"state" validate:"omitempty,max=100"`
	Pincode      string  `json:"pincode" validate:"required,pincode"`
	Latitude     float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude    float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
}

type MealTimingRequest struct {
	Slot       string `json:"slot" validate:"required,oneof=lunch dinner"`
	WindowFrom string `json:"window_from" validate:"omitempty,time_window"`
	WindowTo   string `json:"window_to" validate:"omitempty,time_window"`
}

type PurchaseVerifyRequest struct {
	GatewayOrderID   string `json:"gateway_order_id" validate:"required,max=100"`
	GatewayPaymentID string `json:"gateway_payment_id" validate:"required,max=100"`
	Signature        string `json:"signature" validate:"required,max=255"`
}

type PromoPreviewRequest struct {
	PlanID    string `json:"plan_id" validate:"required,object_id"`
	PromoCode string `json:"promo_code" validate:"required,promo_code"`
}

func ValidatePurchaseInitiate(req *PurchaseInitiateRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if req.StartDate != nil {
		today := time.Now().Truncate(24 * time.Hour)
		if req.StartDate.Before(today) {
			errors = append(errors, ValidationError{
				Field:   "start_date",
				Message: "Start date cannot be in the past",
			})
		}
		if req.StartDate.After(time.Now().AddDate(0, 1, 0)) {
			errors = append(errors, ValidationError{
				Field:   "start_date",
				Message: "Cannot schedule a subscription more than a month in advance",
			})
		}
	}

	seen := make(map[string]bool, len(req.MealTimings))
	for _, timing := range req.MealTimings {
		if seen[timing.Slot] {
			errors = append(errors, ValidationError{
				Field:   "meal_timings",
				Message: "Duplicate meal timing slot " + timing.Slot,
			})
		}
		seen[timing.Slot] = true
	}

	return errors
}
