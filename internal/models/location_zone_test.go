package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func serviceableZone() *LocationZone {
	return &LocationZone{
		Name:        "Koramangala",
		City:        "Bengaluru",
		Pincodes:    []string{"560034", "560095"},
		ServiceType: ServiceTypeBoth,
		Center:      GeoPoint{Latitude: 12.9352, Longitude: 77.6245},
		OperatingHours: OperatingHours{
			Open:  "07:00",
			Close: "22:00",
		},
		DeliveryFee: DeliveryFeeRule{
			BaseCharge:        20,
			PerKmCharge:       5,
			FreeDeliveryAbove: 2000,
		},
		IsActive: true,
	}
}

func TestLocationZone_SupportedVendorTypes(t *testing.T) {
	zone := serviceableZone()

	zone.ServiceType = ServiceTypeVendorOnly
	assert.Equal(t, []VendorType{VendorTypeFoodVendor}, zone.SupportedVendorTypes())

	zone.ServiceType = ServiceTypeHomeChefOnly
	assert.Equal(t, []VendorType{VendorTypeHomeChef}, zone.SupportedVendorTypes())

	zone.ServiceType = ServiceTypeBoth
	assert.Len(t, zone.SupportedVendorTypes(), 2)
}

func TestLocationZone_ContainsPincode(t *testing.T) {
	zone := serviceableZone()

	assert.True(t, zone.ContainsPincode("560034"))
	assert.False(t, zone.ContainsPincode("110001"))
}

func TestLocationZone_IsSubscriptionCategorySupported(t *testing.T) {
	zone := serviceableZone()

	zone.ServiceType = ServiceTypeVendorOnly
	assert.True(t, zone.IsSubscriptionCategorySupported(CategoryFoodVendor))
	assert.False(t, zone.IsSubscriptionCategorySupported(CategoryHomeChef))
	assert.False(t, zone.IsSubscriptionCategorySupported(CategoryCombo), "combo needs both vendor types")

	zone.ServiceType = ServiceTypeBoth
	assert.True(t, zone.IsSubscriptionCategorySupported(CategoryCombo))
}

func TestLocationZone_IsServiceAvailable(t *testing.T) {
	zone := serviceableZone()
	noon := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	midnight := time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)

	assert.True(t, zone.IsServiceAvailable(nil, false, noon))
	assert.False(t, zone.IsServiceAvailable(nil, false, midnight))
	assert.True(t, zone.IsServiceAvailable(nil, true, midnight), "future-dated checks skip operating hours")

	homeChef := VendorTypeHomeChef
	zone.ServiceType = ServiceTypeVendorOnly
	assert.False(t, zone.IsServiceAvailable(&homeChef, false, noon))

	zone.IsActive = false
	assert.False(t, zone.IsServiceAvailable(nil, true, noon))
}

func TestOperatingHours_Contains_SpansMidnight(t *testing.T) {
	hours := OperatingHours{Open: "18:00", Close: "02:00"}

	assert.True(t, hours.Contains(time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)))
	assert.True(t, hours.Contains(time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)))
	assert.False(t, hours.Contains(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)))
}

func TestLocationZone_DeliveryFeeFor(t *testing.T) {
	zone := serviceableZone()

	assert.Equal(t, 35.0, zone.DeliveryFeeFor(3, 1500))
	assert.Equal(t, 0.0, zone.DeliveryFeeFor(3, 2000), "threshold orders deliver free")
	assert.Equal(t, 32.5, zone.DeliveryFeeFor(2.5, 100))
}

func TestGeoPoint_IsValid(t *testing.T) {
	assert.True(t, (&GeoPoint{Latitude: 12.9, Longitude: 77.6}).IsValid())
	assert.False(t, (&GeoPoint{Latitude: 91, Longitude: 77.6}).IsValid())
	assert.False(t, (&GeoPoint{Latitude: 12.9, Longitude: 181}).IsValid())
	assert.False(t, (&GeoPoint{}).IsValid(), "null island is treated as unset")

	var nilPoint *GeoPoint
	assert.False(t, nilPoint.IsValid())
}
