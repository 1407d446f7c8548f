package validators

import (
	"time"
)

type UseCreditsRequest struct {
	Credits int    `json:"credits" validate:"required,min=1,max=10"`
	Note    string `json:"note" validate:"omitempty,max=255"`
}

type SkipMealRequest struct {
	Date   *time.Time `json:"date" validate:"omitempty"`
	Reason string     `json:"reason" validate:"omitempty,max=255"`
}

type VendorSwitchRequest struct {
	Reason            string `json:"reason" validate:"required,min=3,max=255"`
	PreferredVendorID string `json:"preferred_vendor_id" validate:"omitempty,object_id"`
}

type CancelSubscriptionRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=255"`
}

type ReviewCreateRequest struct {
	SubscriptionID string `json:"subscription_id" validate:"required,object_id"`
	Rating         int    `json:"rating" validate:"required,rating_value"`
	Title          string `json:"title" validate:"omitempty,max=120"`
	Comment        string `json:"comment" validate:"omitempty,max=1000"`
	IsPublic       *bool  `json:"is_public"`
}

type AssignmentApproveRequest struct {
	VendorID string `json:"vendor_id" validate:"required,object_id"`
	Note     string `json:"note" validate:"omitempty,max=500"`
}

type AssignmentRejectRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

func ValidateSkipMeal(req *SkipMealRequest) ValidationErrors {
	errors := ValidateStruct(req)

	// Skips apply to today or a future delivery day
	if req.Date != nil {
		today := time.Now().Truncate(24 * time.Hour)
		if req.Date.Before(today) {
			errors = append(errors, ValidationError{
				Field:   "date",
				Message: "Cannot skip a meal in the past",
			})
		}
	}

	return errors
}

func ValidateReviewCreate(req *ReviewCreateRequest) ValidationErrors {
	return ValidateStruct(req)
}
