package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"tiffinhub/internal/models"
	"tiffinhub/internal/repositories/interfaces"
	"tiffinhub/internal/utils"
	"tiffinhub/internal/validators"
	"tiffinhub/pkg/logger"
	"tiffinhub/pkg/maps"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ZoneService interface {
	CreateZone(ctx context.Context, request *validators.ZoneCreateRequest) (*models.LocationZone, error)
	UpdateZone(ctx context.Context, id primitive.ObjectID, request *validators.ZoneUpdateRequest) (*models.LocationZone, error)
	DeleteZone(ctx context.Context, id primitive.ObjectID) error
	GetZone(ctx context.Context, id primitive.ObjectID) (*models.LocationZone, error)
	ListZones(ctx context.Context, params *utils.PaginationParams) ([]*models.LocationZone, int64, error)

	// CheckAvailability answers "can this address be served right now" for
	// on-demand orders, including the operating-hours gate.
	CheckAvailability(ctx context.Context, request *AvailabilityRequest) (*AvailabilityResult, error)

	// CheckSubscriptionAvailability validates an address for a subscription
	// purchase. Delivery recurs on future days, so operating hours are not
	// part of the decision.
	CheckSubscriptionAvailability(ctx context.Context, address *models.DeliveryAddress, category models.SubscriptionCategory, orderValue float64) (*AvailabilityResult, error)
}

type AvailabilityRequest struct {
	Pincode    string
	Category   models.SubscriptionCategory
	VendorType *models.VendorType
	OrderValue float64
	Point      *models.GeoPoint
	Address    string
}

type AvailabilityResult struct {
	Available   bool                 `json:"available"`
	Zone        *models.LocationZone `json:"zone,omitempty"`
	DeliveryFee float64              `json:"delivery_fee"`
	DistanceKM  float64              `json:"distance_km,omitempty"`
	Reason      string               `json:"reason,omitempty"`

	// SuggestedZones lists every zone covering the pincode, including
	// inactive ones, when no zone qualified. Support uses it to tell a
	// customer why their area is dark.
	SuggestedZones []*models.LocationZone `json:"suggested_zones,omitempty"`
}

type zoneService struct {
	zoneRepo interfaces.ZoneRepository
	geocoder maps.Geocoder
	logger   *logger.Logger
}

func NewZoneService(zoneRepo interfaces.ZoneRepository, geocoder maps.Geocoder, logger *logger.Logger) ZoneService {
	return &zoneService{
		zoneRepo: zoneRepo,
		geocoder: geocoder,
		logger:   logger,
	}
}

func (s *zoneService) CreateZone(ctx context.Context, request *validators.ZoneCreateRequest) (*models.LocationZone, error) {
	zone := &models.LocationZone{
		Name:          request.Name,
		City:          request.City,
		State:         request.State,
		Pincodes:      request.Pincodes,
		ServiceType:   models.ServiceType(request.ServiceType),
		Center:        models.GeoPoint{Latitude: request.Latitude, Longitude: request.Longitude},
		ServiceRadius: request.ServiceRadius,
		Priority:      request.Priority,
		IsActive:      true,
	}

	if request.DeliveryFee != nil {
		zone.DeliveryFee = models.DeliveryFeeRule{
			BaseCharge:        request.DeliveryFee.BaseFee,
			PerKmCharge:       request.DeliveryFee.PerKMFee,
			FreeDeliveryAbove: request.DeliveryFee.FreeDeliveryAbove,
		}
	}
	if request.StartTime != "" {
		zone.OperatingHours = models.OperatingHours{Open: request.StartTime, Close: request.EndTime}
	}

	if err := s.zoneRepo.Create(ctx, zone); err != nil {
		return nil, fmt.Errorf("failed to create zone: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"zone_id":  zone.ID.Hex(),
		"name":     zone.Name,
		"pincodes": len(zone.Pincodes),
	}).Info("Location zone created")

	return zone, nil
}

func (s *zoneService) UpdateZone(ctx context.Context, id primitive.ObjectID, request *validators.ZoneUpdateRequest) (*models.LocationZone, error) {
	updates := map[string]interface{}{}

	if request.Name != nil {
		updates["name"] = *request.Name
	}
	if request.City != nil {
		updates["city"] = *request.City
	}
	if len(request.Pincodes) > 0 {
		updates["pincodes"] = request.Pincodes
	}
	if request.Latitude != nil && request.Longitude != nil {
		updates["center"] = models.GeoPoint{Latitude: *request.Latitude, Longitude: *request.Longitude}
	}
	if request.ServiceRadius != nil {
		updates["service_radius"] = *request.ServiceRadius
	}
	if request.ServiceType != nil {
		updates["service_type"] = *request.ServiceType
	}
	if request.Priority != nil {
		updates["priority"] = *request.Priority
	}
	if request.DeliveryFee != nil {
		updates["delivery_fee"] = models.DeliveryFeeRule{
			BaseCharge:        request.DeliveryFee.BaseFee,
			PerKmCharge:       request.DeliveryFee.PerKMFee,
			FreeDeliveryAbove: request.DeliveryFee.FreeDeliveryAbove,
		}
	}
	if request.StartTime != nil && request.EndTime != nil {
		updates["operating_hours"] = models.OperatingHours{Open: *request.StartTime, Close: *request.EndTime}
	}
	if request.IsActive != nil {
		updates["is_active"] = *request.IsActive
	}

	if len(updates) > 0 {
		if err := s.zoneRepo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("failed to update zone: %w", err)
		}
	}

	return s.zoneRepo.GetByID(ctx, id)
}

func (s *zoneService) DeleteZone(ctx context.Context, id primitive.ObjectID) error {
	if err := s.zoneRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete zone: %w", err)
	}

	s.logger.WithField("zone_id", id.Hex()).Info("Location zone deleted")
	return nil
}

func (s *zoneService) GetZone(ctx context.Context, id primitive.ObjectID) (*models.LocationZone, error) {
	return s.zoneRepo.GetByID(ctx, id)
}

func (s *zoneService) ListZones(ctx context.Context, params *utils.PaginationParams) ([]*models.LocationZone, int64, error) {
	return s.zoneRepo.List(ctx, params)
}

func (s *zoneService) CheckAvailability(ctx context.Context, request *AvailabilityRequest) (*AvailabilityResult, error) {
	return s.resolveZone(ctx, request, false)
}

func (s *zoneService) CheckSubscriptionAvailability(ctx context.Context, address *models.DeliveryAddress, category models.SubscriptionCategory, orderValue float64) (*AvailabilityResult, error) {
	request := &AvailabilityRequest{
		Pincode:    address.ZipCode,
		Category:   category,
		OrderValue: orderValue,
		Point:      address.Coordinates,
		Address:    formatAddress(address),
	}
	return s.resolveZone(ctx, request, true)
}

// resolveZone picks the highest-priority active zone covering the pincode
// that passes the vendor-type, operating-hours and category filters, then
// validates coordinates against that one zone only.
func (s *zoneService) resolveZone(ctx context.Context, request *AvailabilityRequest, skipOperatingHours bool) (*AvailabilityResult, error) {
	if len(request.Pincode) != utils.PincodeLength {
		return &AvailabilityResult{Available: false, Reason: "invalid pincode"}, nil
	}

	zones, err := s.zoneRepo.GetActiveByPincode(ctx, request.Pincode)
	if err != nil {
		return nil, fmt.Errorf("failed to look up zones for pincode %s: %w", request.Pincode, err)
	}

	now := time.Now()
	reason := utils.ErrServiceNotAvailable

	// Zones come back sorted by priority descending, so the first one
	// passing the filters is the zone for this address.
	var zone *models.LocationZone
	for _, candidate := range zones {
		if !candidate.IsServiceAvailable(request.VendorType, skipOperatingHours, now) {
			if request.VendorType != nil && !candidate.SupportsVendorType(*request.VendorType) {
				reason = fmt.Sprintf("vendor type %s not served in this area", *request.VendorType)
			} else {
				reason = "zone is outside operating hours"
			}
			continue
		}
		if request.Category != "" && !candidate.IsSubscriptionCategorySupported(request.Category) {
			reason = fmt.Sprintf("category %s not served in this area", request.Category)
			continue
		}
		zone = candidate
		break
	}
	if zone == nil {
		suggested, sErr := s.zoneRepo.GetAllByPincode(ctx, request.Pincode)
		if sErr != nil {
			s.logger.WithError(sErr).Warn("Failed to load suggested zones")
			suggested = zones
		}
		return &AvailabilityResult{Available: false, Reason: reason, SuggestedZones: suggested}, nil
	}

	distanceKM := 0.0
	if zone.ServiceRadius > 0 && zone.Center.IsValid() {
		point := request.Point
		if point == nil {
			point = s.geocodePoint(ctx, request.Address)
		}
		// Without coordinates from the request or the geocoder the check
		// degrades to pincode-only validation. A point that is present but
		// malformed still rejects, via the +Inf distance.
		if point != nil {
			distanceKM = utils.CalculateDistance(zone.Center.Latitude, zone.Center.Longitude, point.Latitude, point.Longitude)
			if distanceKM > zone.ServiceRadius {
				return &AvailabilityResult{Available: false, Reason: "address is outside the zone service radius"}, nil
			}
		}
	}

	if math.IsInf(distanceKM, 1) {
		distanceKM = 0
	}

	return &AvailabilityResult{
		Available:   true,
		Zone:        zone,
		DeliveryFee: zone.DeliveryFeeFor(distanceKM, request.OrderValue),
		DistanceKM:  distanceKM,
	}, nil
}

// geocodePoint is best effort. A nil return skips the radius check.
func (s *zoneService) geocodePoint(ctx context.Context, address string) *models.GeoPoint {
	if s.geocoder == nil || address == "" {
		return nil
	}

	resp, err := s.geocoder.Geocode(ctx, address)
	if err != nil || len(resp.Results) == 0 {
		if err != nil {
			s.logger.WithError(err).Warn("Geocode lookup failed")
		}
		return nil
	}

	return &models.GeoPoint{
		Latitude:  resp.Results[0].Coordinates.Latitude,
		Longitude: resp.Results[0].Coordinates.Longitude,
	}
}

func formatAddress(address *models.DeliveryAddress) string {
	return fmt.Sprintf("%s, %s, %s %s", address.Line1, address.City, address.State, address.ZipCode)
}
