package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ServiceType string
type VendorType string
type SubscriptionCategory string

const (
	ServiceTypeVendorOnly   ServiceType = "vendor_only"
	ServiceTypeHomeChefOnly ServiceType = "home_chef_only"
	ServiceTypeBoth         ServiceType = "both"

	VendorTypeFoodVendor VendorType = "food_vendor"
	VendorTypeHomeChef   VendorType = "home_chef"

	CategoryFoodVendor SubscriptionCategory = "food_vendor"
	CategoryHomeChef   SubscriptionCategory = "home_chef"
	CategoryCombo      SubscriptionCategory = "combo"
)

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

func (p *GeoPoint) IsValid() bool {
	if p == nil {
		return false
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return false
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return false
	}
	// (0,0) is open ocean; treat it as an unset coordinate.
	return p.Latitude != 0 || p.Longitude != 0
}

// OperatingHours is a daily service window in "HH:MM" 24h format.
// A close time before the open time spans midnight.
type OperatingHours struct {
	Open  string `json:"open" bson:"open"`
	Close string `json:"close" bson:"close"`
}

func (h OperatingHours) Contains(t time.Time) bool {
	open, err1 := time.Parse("15:04", h.Open)
	close, err2 := time.Parse("15:04", h.Close)
	if err1 != nil || err2 != nil {
		return false
	}

	minutes := t.Hour()*60 + t.Minute()
	openMin := open.Hour()*60 + open.Minute()
	closeMin := close.Hour()*60 + close.Minute()

	if closeMin < openMin {
		return minutes >= openMin || minutes < closeMin
	}
	return minutes >= openMin && minutes < closeMin
}

// DeliveryFeeRule computes the delivery fee for a zone: free above a
// threshold order value, otherwise base charge plus a per-km component.
type DeliveryFeeRule struct {
	BaseCharge        float64 `json:"base_charge" bson:"base_charge"`
	PerKmCharge       float64 `json:"per_km_charge" bson:"per_km_charge"`
	FreeDeliveryAbove float64 `json:"free_delivery_above" bson:"free_delivery_above"`
}

type LocationZone struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name" validate:"required"`
	City           string             `json:"city" bson:"city" validate:"required"`
	State          string             `json:"state" bson:"state"`
	Pincodes       []string           `json:"pincodes" bson:"pincodes" validate:"required,min=1"`
	ServiceType    ServiceType        `json:"service_type" bson:"service_type" validate:"required"`
	Center         GeoPoint           `json:"center" bson:"center"`
	ServiceRadius  float64            `json:"service_radius" bson:"service_radius"` // kilometers
	OperatingHours OperatingHours     `json:"operating_hours" bson:"operating_hours"`
	DeliveryFee    DeliveryFeeRule    `json:"delivery_fee" bson:"delivery_fee"`
	Priority       int                `json:"priority" bson:"priority"`
	IsActive       bool               `json:"is_active" bson:"is_active"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// SupportedVendorTypes is derived from ServiceType, never stored.
func (z *LocationZone) SupportedVendorTypes() []VendorType {
	switch z.ServiceType {
	case ServiceTypeVendorOnly:
		return []VendorType{VendorTypeFoodVendor}
	case ServiceTypeHomeChefOnly:
		return []VendorType{VendorTypeHomeChef}
	case ServiceTypeBoth:
		return []VendorType{VendorTypeFoodVendor, VendorTypeHomeChef}
	}
	return nil
}

func (z *LocationZone) SupportsVendorType(vendorType VendorType) bool {
	for _, vt := range z.SupportedVendorTypes() {
		if vt == vendorType {
			return true
		}
	}
	return false
}

func (z *LocationZone) ContainsPincode(pincode string) bool {
	for _, p := range z.Pincodes {
		if p == pincode {
			return true
		}
	}
	return false
}

// IsServiceAvailable reports whether the zone can serve right now. The
// operating-hours check is skipped for future-dated deliveries such as
// subscription purchases.
func (z *LocationZone) IsServiceAvailable(vendorType *VendorType, skipOperatingHours bool, now time.Time) bool {
	if !z.IsActive {
		return false
	}
	if vendorType != nil && !z.SupportsVendorType(*vendorType) {
		return false
	}
	if !skipOperatingHours && !z.OperatingHours.Contains(now) {
		return false
	}
	return true
}

// IsSubscriptionCategorySupported maps a plan category onto the zone's
// vendor-type coverage. Combo plans need both vendor types.
func (z *LocationZone) IsSubscriptionCategorySupported(category SubscriptionCategory) bool {
	switch category {
	case CategoryHomeChef:
		return z.SupportsVendorType(VendorTypeHomeChef)
	case CategoryFoodVendor:
		return z.SupportsVendorType(VendorTypeFoodVendor)
	case CategoryCombo:
		return z.SupportsVendorType(VendorTypeHomeChef) && z.SupportsVendorType(VendorTypeFoodVendor)
	}
	return false
}

// DeliveryFeeFor rounds to two decimals. Order values at or above the
// free-delivery threshold pay nothing.
func (z *LocationZone) DeliveryFeeFor(distanceKM, orderValue float64) float64 {
	if z.DeliveryFee.FreeDeliveryAbove > 0 && orderValue >= z.DeliveryFee.FreeDeliveryAbove {
		return 0
	}
	fee := z.DeliveryFee.BaseCharge + distanceKM*z.DeliveryFee.PerKmCharge
	return math.Round(fee*100) / 100
}
