package services

import (
	"context"
	"testing"

	"tiffinhub/internal/models"
	"tiffinhub/internal/repositories/interfaces"
	"tiffinhub/pkg/maps"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeZoneRepo struct {
	interfaces.ZoneRepository
	zones []*models.LocationZone
}

func (r *fakeZoneRepo) GetActiveByPincode(ctx context.Context, pincode string) ([]*models.LocationZone, error) {
	var out []*models.LocationZone
	for _, zone := range r.zones {
		if zone.IsActive && zone.ContainsPincode(pincode) {
			out = append(out, zone)
		}
	}
	return out, nil
}

func (r *fakeZoneRepo) GetAllByPincode(ctx context.Context, pincode string) ([]*models.LocationZone, error) {
	var out []*models.LocationZone
	for _, zone := range r.zones {
		if zone.ContainsPincode(pincode) {
			out = append(out, zone)
		}
	}
	return out, nil
}

type fakeGeocoder struct {
	point *models.GeoPoint
}

func (g *fakeGeocoder) Geocode(ctx context.Context, address string) (*maps.GeocodeResponse, error) {
	if g.point == nil {
		return &maps.GeocodeResponse{}, nil
	}
	return &maps.GeocodeResponse{Results: []maps.GeocodeResult{{
		Coordinates: maps.Location{Latitude: g.point.Latitude, Longitude: g.point.Longitude},
	}}}, nil
}

func (g *fakeGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (*maps.GeocodeResponse, error) {
	return &maps.GeocodeResponse{}, nil
}

func subscriptionZone() *models.LocationZone {
	return &models.LocationZone{
		ID:          primitive.NewObjectID(),
		Name:        "Indiranagar",
		City:        "Bengaluru",
		Pincodes:    []string{"560038"},
		ServiceType: models.ServiceTypeBoth,
		OperatingHours: models.OperatingHours{
			Open:  "08:00",
			Close: "21:00",
		},
		DeliveryFee: models.DeliveryFeeRule{BaseCharge: 30, FreeDeliveryAbove: 2500},
		IsActive:    true,
	}
}

func testAddress(pincode string) *models.DeliveryAddress {
	return &models.DeliveryAddress{
		Line1:   "12 100 Feet Road",
		City:    "Bengaluru",
		State:   "Karnataka",
		ZipCode: pincode,
	}
}

func TestZoneService_CheckSubscriptionAvailability_Serviceable(t *testing.T) {
	repo := &fakeZoneRepo{zones: []*models.LocationZone{subscriptionZone()}}
	service := NewZoneService(repo, nil, testLogger(t))

	result, err := service.CheckSubscriptionAvailability(context.Background(), testAddress("560038"), models.CategoryHomeChef, 3000)
	require.NoError(t, err)

	assert.True(t, result.Available)
	require.NotNil(t, result.Zone)
	assert.Equal(t, "Indiranagar", result.Zone.Name)
	assert.Equal(t, 0.0, result.DeliveryFee, "order above the free delivery threshold")
}

func TestZoneService_CheckSubscriptionAvailability_DeliveryFee(t *testing.T) {
	repo := &fakeZoneRepo{zones: []*models.LocationZone{subscriptionZone()}}
	service := NewZoneService(repo, nil, testLogger(t))

	result, err := service.CheckSubscriptionAvailability(context.Background(), testAddress("560038"), models.CategoryHomeChef, 1500)
	require.NoError(t, err)

	assert.True(t, result.Available)
	assert.Equal(t, 30.0, result.DeliveryFee)
}

func TestZoneService_CheckSubscriptionAvailability_UnknownPincode(t *testing.T) {
	repo := &fakeZoneRepo{zones: []*models.LocationZone{subscriptionZone()}}
	service := NewZoneService(repo, nil, testLogger(t))

	result, err := service.CheckSubscriptionAvailability(context.Background(), testAddress("110001"), models.CategoryHomeChef, 1500)
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.NotEmpty(t, result.Reason)
}

func TestZoneService_CheckSubscriptionAvailability_InvalidPincode(t *testing.T) {
	service := NewZoneService(&fakeZoneRepo{}, nil, testLogger(t))

	result, err := service.CheckSubscriptionAvailability(context.Background(), testAddress("1234"), models.CategoryHomeChef, 1500)
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, "invalid pincode", result.Reason)
}

func TestZoneService_CheckSubscriptionAvailability_CategoryNotServed(t *testing.T) {
	zone := subscriptionZone()
	zone.ServiceType = models.ServiceTypeVendorOnly
	repo := &fakeZoneRepo{zones: []*models.LocationZone{zone}}
	service := NewZoneService(repo, nil, testLogger(t))

	result, err := service.CheckSubscriptionAvailability(context.Background(), testAddress("560038"), models.CategoryCombo, 1500)
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Contains(t, result.Reason, "combo")
}

func TestZoneService_CheckSubscriptionAvailability_RadiusViaGeocoder(t *testing.T) {
	zone := subscriptionZone()
	zone.Center = models.GeoPoint{Latitude: 12.9716, Longitude: 77.6412}
	zone.ServiceRadius = 5

	repo := &fakeZoneRepo{zones: []*models.LocationZone{zone}}

	// Roughly 2km north of the center.
	geocoder := &fakeGeocoder{point: &models.GeoPoint{Latitude: 12.9896, Longitude: 77.6412}}
	service := NewZoneService(repo, geocoder, testLogger(t))

	result, err := service.CheckSubscriptionAvailability(context.Background(), testAddress("560038"), models.CategoryHomeChef, 1500)
	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.InDelta(t, 2.0, result.DistanceKM, 0.2)
}

func TestZoneService_CheckSubscriptionAvailability_OutsideRadius(t *testing.T) {
	zone := subscriptionZone()
	zone.Center = models.GeoPoint{Latitude: 12.9716, Longitude: 77.6412}
	zone.ServiceRadius = 5

	repo := &fakeZoneRepo{zones: []*models.LocationZone{zone}}
	service := NewZoneService(repo, nil, testLogger(t))

	address := testAddress("560038")
	// Mysuru, well over 100km away.
	address.Coordinates = &models.GeoPoint{Latitude: 12.2958, Longitude: 76.6394}

	result, err := service.CheckSubscriptionAvailability(context.Background(), address, models.CategoryHomeChef, 1500)
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, "address is outside the zone service radius", result.Reason)
}

func TestZoneService_CheckSubscriptionAvailability_NoCoordinatesIsPincodeOnly(t *testing.T) {
	zone := subscriptionZone()
	zone.Center = models.GeoPoint{Latitude: 12.9716, Longitude: 77.6412}
	zone.ServiceRadius = 5

	repo := &fakeZoneRepo{zones: []*models.LocationZone{zone}}

	// The address carries no coordinates and the geocoder finds none
	// either, so the pincode match alone decides.
	service := NewZoneService(repo, &fakeGeocoder{}, testLogger(t))

	result, err := service.CheckSubscriptionAvailability(context.Background(), testAddress("560038"), models.CategoryHomeChef, 1500)
	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.Equal(t, 0.0, result.DistanceKM)
}

func TestZoneService_CheckSubscriptionAvailability_RadiusCheckedAgainstSelectedZoneOnly(t *testing.T) {
	near := subscriptionZone()
	near.Name = "Near"
	near.Center = models.GeoPoint{Latitude: 12.9716, Longitude: 77.6412}
	near.ServiceRadius = 5
	near.Priority = 10

	wide := subscriptionZone()
	wide.Name = "Wide"
	wide.Center = models.GeoPoint{Latitude: 12.9716, Longitude: 77.6412}
	wide.ServiceRadius = 500
	wide.Priority = 1

	repo := &fakeZoneRepo{zones: []*models.LocationZone{near, wide}}
	service := NewZoneService(repo, nil, testLogger(t))

	address := testAddress("560038")
	// Mysuru, outside Near's radius but well inside Wide's. The
	// highest-priority qualifying zone decides, so this still rejects.
	address.Coordinates = &models.GeoPoint{Latitude: 12.2958, Longitude: 76.6394}

	result, err := service.CheckSubscriptionAvailability(context.Background(), address, models.CategoryHomeChef, 1500)
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, "address is outside the zone service radius", result.Reason)
}

func TestZoneService_CheckSubscriptionAvailability_SuggestedZones(t *testing.T) {
	dark := subscriptionZone()
	dark.Name = "Switched Off"
	dark.IsActive = false

	repo := &fakeZoneRepo{zones: []*models.LocationZone{dark}}
	service := NewZoneService(repo, nil, testLogger(t))

	result, err := service.CheckSubscriptionAvailability(context.Background(), testAddress("560038"), models.CategoryHomeChef, 1500)
	require.NoError(t, err)
	assert.False(t, result.Available)
	require.Len(t, result.SuggestedZones, 1)
	assert.Equal(t, "Switched Off", result.SuggestedZones[0].Name)
}

func TestZoneService_CheckAvailability_VendorTypeReason(t *testing.T) {
	zone := subscriptionZone()
	zone.ServiceType = models.ServiceTypeVendorOnly

	repo := &fakeZoneRepo{zones: []*models.LocationZone{zone}}
	service := NewZoneService(repo, nil, testLogger(t))

	homeChef := models.VendorTypeHomeChef
	result, err := service.CheckAvailability(context.Background(), &AvailabilityRequest{Pincode: "560038", VendorType: &homeChef})
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Contains(t, result.Reason, "vendor type")
}

func TestZoneService_CheckAvailability_OperatingHoursApply(t *testing.T) {
	zone := subscriptionZone()
	// A zero-width window is never open, whatever the wall clock says.
	zone.OperatingHours = models.OperatingHours{Open: "00:00", Close: "00:00"}

	repo := &fakeZoneRepo{zones: []*models.LocationZone{zone}}
	service := NewZoneService(repo, nil, testLogger(t))

	// On-demand checks respect operating hours; subscription checks do not.
	onDemand, err := service.CheckAvailability(context.Background(), &AvailabilityRequest{Pincode: "560038"})
	require.NoError(t, err)

	forSubscription, err := service.CheckSubscriptionAvailability(context.Background(), testAddress("560038"), models.CategoryHomeChef, 1500)
	require.NoError(t, err)

	assert.False(t, onDemand.Available)
	assert.True(t, forSubscription.Available)
}

func TestZoneService_CheckAvailability_PrefersFirstServingZone(t *testing.T) {
	vendorOnly := subscriptionZone()
	vendorOnly.Name = "Vendor Only"
	vendorOnly.ServiceType = models.ServiceTypeVendorOnly

	both := subscriptionZone()
	both.Name = "Full Service"

	repo := &fakeZoneRepo{zones: []*models.LocationZone{vendorOnly, both}}
	service := NewZoneService(repo, nil, testLogger(t))

	result, err := service.CheckSubscriptionAvailability(context.Background(), testAddress("560038"), models.CategoryHomeChef, 1500)
	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.Equal(t, "Full Service", result.Zone.Name)
}
