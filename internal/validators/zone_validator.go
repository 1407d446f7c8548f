package validators

import (
	"fmt"
	"time"
)

type ZoneCreateRequest struct {
	Name          string              `json:"name" validate:"required,min=3,max=100"`
	City          string              `json:"city" validate:"required,max=100"`
	State         string              `json:"state" validate:"omitempty,max=100"`
	Pincodes      []string            `json:"pincodes" validate:"required,min=1,max=200,dive,pincode"`
	Latitude      float64             `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude     float64             `json:"longitude" validate:"omitempty,min=-180,max=180"`
	ServiceRadius float64             `json:"service_radius" validate:"omitempty,min=0,max=50"`
	ServiceType   string              `json:"service_type" validate:"required,oneof=vendor_only home_chef_only both"`
	Priority      int                 `json:"priority" validate:"omitempty,min=0,max=100"`
	DeliveryFee   *DeliveryFeeRequest `json:"delivery_fee" validate:"omitempty"`
	StartTime     string              `json:"start_time" validate:"omitempty,time_window"`
	EndTime       string              `json:"end_time" validate:"omitempty,time_window"`
}

type ZoneUpdateRequest struct {
	Name          *string             `json:"name" validate:"omitempty,min=3,max=100"`
	City          *string             `json:"city" validate:"omitempty,max=100"`
	Pincodes      []string            `json:"pincodes" validate:"omitempty,min=1,max=200,dive,pincode"`
	Latitude      *float64            `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude     *float64            `json:"longitude" validate:"omitempty,min=-180,max=180"`
	ServiceRadius *float64            `json:"service_radius" validate:"omitempty,min=0,max=50"`
	ServiceType   *string             `json:"service_type" validate:"omitempty,oneof=vendor_only home_chef_only both"`
	Priority      *int                `json:"priority" validate:"omitempty,min=0,max=100"`
	DeliveryFee   *DeliveryFeeRequest `json:"delivery_fee" validate:"omitempty"`
	StartTime     *string             `json:"start_time" validate:"omitempty,time_window"`
	EndTime       *string             `json:"end_time" validate:"omitempty,time_window"`
	IsActive      *bool               `json:"is_active"`
}

type DeliveryFeeRequest struct {
	BaseFee           float64 `json:"base_fee" validate:"omitempty,amount"`
	PerKMFee          float64 `json:"per_km_fee" validate:"omitempty,amount"`
	FreeDeliveryAbove float64 `json:"free_delivery_above" validate:"omitempty,amount"`
}

type AvailabilityCheckRequest struct {
	Pincode    string  `json:"pincode" form:"pincode" validate:"required,pincode"`
	Category   string  `json:"category" form:"category" validate:"omitempty,oneof=food_vendor home_chef combo"`
	VendorType string  `json:"vendor_type" form:"vendor_type" validate:"omitempty,oneof=food_vendor home_chef"`
	OrderValue float64 `json:"order_value" form:"order_value" validate:"omitempty,amount"`
	Latitude   float64 `json:"latitude" form:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude  float64 `json:"longitude" form:"longitude" validate:"omitempty,min=-180,max=180"`
}

func ValidateZoneCreate(req *ZoneCreateRequest) ValidationErrors {
	errors := ValidateStruct(req)

	// A radius check needs a center to measure from
	if req.ServiceRadius > 0 && (req.Latitude == 0 && req.Longitude == 0) {
		errors = append(errors, ValidationError{
			Field:   "service_radius",
			Message: "Service radius requires zone center coordinates",
		})
	}

	if dup := firstDuplicate(req.Pincodes); dup != "" {
		errors = append(errors, ValidationError{
			Field:   "pincodes",
			Message: fmt.Sprintf("Duplicate pincode %s in zone", dup),
		})
	}

	if (req.StartTime == "") != (req.EndTime == "") {
		errors = append(errors, ValidationError{
			Field:   "start_time",
			Message: "Operating hours require both start and end time",
		})
	}

	return errors
}

func ValidateZoneUpdate(req *ZoneUpdateRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if len(req.Pincodes) > 0 {
		if dup := firstDuplicate(req.Pincodes); dup != "" {
			errors = append(errors, ValidationError{
				Field:   "pincodes",
				Message: fmt.Sprintf("Duplicate pincode %s in zone", dup),
			})
		}
	}

	return errors
}

func firstDuplicate(values []string) string {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v] {
			return v
		}
		seen[v] = true
	}
	return ""
}

// parseable sanity check shared by handlers that accept a date query param
func IsValidDateParam(value string) bool {
	if value == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}
