package services

import (
	"context"
	"fmt"

	"tiffinhub/internal/models"
	"tiffinhub/internal/repositories/interfaces"
	"tiffinhub/internal/utils"
	"tiffinhub/internal/validators"
	"tiffinhub/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VendorService interface {
	CreateVendor(ctx context.Context, request *validators.VendorCreateRequest) (*models.Vendor, error)
	UpdateVendor(ctx context.Context, id primitive.ObjectID, request *validators.VendorUpdateRequest) (*models.Vendor, error)
	GetVendor(ctx context.Context, id primitive.ObjectID) (*models.Vendor, error)
	ListVendors(ctx context.Context, params *utils.PaginationParams) ([]*models.Vendor, int64, error)

	// ListCustomers returns the subscriptions currently assigned to the
	// vendor, which is the vendor's daily delivery book.
	ListCustomers(ctx context.Context, vendorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.UserSubscription, int64, error)

	// GetAnalytics summarizes the vendor's book: subscriptions by status,
	// meals delivered, and the current rating aggregate.
	GetAnalytics(ctx context.Context, vendorID primitive.ObjectID) (*VendorAnalytics, error)

	// RefreshRating recomputes the vendor's rating aggregate from reviews.
	RefreshRating(ctx context.Context, vendorID primitive.ObjectID) error
}

type VendorAnalytics struct {
	VendorID              primitive.ObjectID `json:"vendor_id"`
	BusinessName          string             `json:"business_name"`
	TotalSubscriptions    int64              `json:"total_subscriptions"`
	SubscriptionsByStatus map[string]int64   `json:"subscriptions_by_status"`
	MealsDelivered        int64              `json:"meals_delivered"`
	RatingAverage         float64            `json:"rating_average"`
	RatingCount           int64              `json:"rating_count"`
}

type vendorService struct {
	vendorRepo       interfaces.VendorRepository
	subscriptionRepo interfaces.UserSubscriptionRepository
	reviewRepo       interfaces.ReviewRepository
	logger           *logger.Logger
}

func NewVendorService(
	vendorRepo interfaces.VendorRepository,
	subscriptionRepo interfaces.UserSubscriptionRepository,
	reviewRepo interfaces.ReviewRepository,
	logger *logger.Logger,
) VendorService {
	return &vendorService{
		vendorRepo:       vendorRepo,
		subscriptionRepo: subscriptionRepo,
		reviewRepo:       reviewRepo,
		logger:           logger,
	}
}

func (s *vendorService) CreateVendor(ctx context.Context, request *validators.VendorCreateRequest) (*models.Vendor, error) {
	userID, err := primitive.ObjectIDFromHex(request.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	zoneID, err := primitive.ObjectIDFromHex(request.ZoneID)
	if err != nil {
		return nil, fmt.Errorf("invalid zone id: %w", err)
	}

	vendor := &models.Vendor{
		UserID:        userID,
		BusinessName:  request.BusinessName,
		VendorType:    models.VendorType(request.VendorType),
		Phone:         request.Phone,
		Email:         request.Email,
		ZoneID:        zoneID,
		DailyCapacity: request.DailyCapacity,
		IsActive:      true,
	}
	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to create vendor: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"vendor_id":     vendor.ID.Hex(),
		"business_name": vendor.BusinessName,
		"vendor_type":   string(vendor.VendorType),
		"zone_id":       vendor.ZoneID.Hex(),
	}).Info("Vendor onboarded")

	return vendor, nil
}

func (s *vendorService) UpdateVendor(ctx context.Context, id primitive.ObjectID, request *validators.VendorUpdateRequest) (*models.Vendor, error) {
	updates := map[string]interface{}{}

	if request.BusinessName != nil {
		updates["business_name"] = *request.BusinessName
	}
	if request.Phone != nil {
		updates["phone"] = *request.Phone
	}
	if request.Email != nil {
		updates["email"] = *request.Email
	}
	if request.ZoneID != nil {
		zoneID, err := primitive.ObjectIDFromHex(*request.ZoneID)
		if err != nil {
			return nil, fmt.Errorf("invalid zone id: %w", err)
		}
		updates["zone_id"] = zoneID
	}
	if request.DailyCapacity != nil {
		updates["daily_capacity"] = *request.DailyCapacity
	}
	if request.IsActive != nil {
		updates["is_active"] = *request.IsActive
	}

	if len(updates) > 0 {
		if err := s.vendorRepo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("failed to update vendor: %w", err)
		}
	}

	return s.vendorRepo.GetByID(ctx, id)
}

func (s *vendorService) GetVendor(ctx context.Context, id primitive.ObjectID) (*models.Vendor, error) {
	return s.vendorRepo.GetByID(ctx, id)
}

func (s *vendorService) ListVendors(ctx context.Context, params *utils.PaginationParams) ([]*models.Vendor, int64, error) {
	return s.vendorRepo.List(ctx, params)
}

func (s *vendorService) ListCustomers(ctx context.Context, vendorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.UserSubscription, int64, error) {
	return s.subscriptionRepo.GetByVendor(ctx, vendorID, params)
}

func (s *vendorService) GetAnalytics(ctx context.Context, vendorID primitive.ObjectID) (*VendorAnalytics, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	stats, err := s.subscriptionRepo.GetVendorStats(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate vendor stats: %w", err)
	}

	return &VendorAnalytics{
		VendorID:              vendor.ID,
		BusinessName:          vendor.BusinessName,
		TotalSubscriptions:    stats.Total,
		SubscriptionsByStatus: stats.ByStatus,
		MealsDelivered:        stats.CreditsUsed,
		RatingAverage:         vendor.RatingAverage,
		RatingCount:           int64(vendor.RatingCount),
	}, nil
}

func (s *vendorService) RefreshRating(ctx context.Context, vendorID primitive.ObjectID) error {
	summary, err := s.reviewRepo.GetVendorRating(ctx, vendorID)
	if err != nil {
		return fmt.Errorf("failed to aggregate vendor rating: %w", err)
	}

	if err := s.vendorRepo.UpdateRating(ctx, vendorID, summary.Average, summary.Count); err != nil {
		return fmt.Errorf("failed to update vendor rating: %w", err)
	}
	return nil
}
