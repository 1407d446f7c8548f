package services

import (
	"context"
	"errors"
	"fmt"

	"tiffinhub/internal/models"
	"tiffinhub/internal/repositories/interfaces"
	"tiffinhub/internal/utils"
	"tiffinhub/internal/validators"
	"tiffinhub/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNoVendorToReview = errors.New("subscription has no assigned vendor to review")
	ErrAlreadyReviewed  = errors.New("subscription has already been reviewed")
)

type ReviewService interface {
	// CreateReview records a review against the vendor currently assigned
	// to the reviewer's subscription. One review per subscription.
	CreateReview(ctx context.Context, userID primitive.ObjectID, request *validators.ReviewCreateRequest) (*models.Review, error)

	ListVendorReviews(ctx context.Context, vendorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)
}

type reviewService struct {
	reviewRepo       interfaces.ReviewRepository
	subscriptionRepo interfaces.UserSubscriptionRepository
	vendors          VendorService
	logger           *logger.Logger
}

func NewReviewService(
	reviewRepo interfaces.ReviewRepository,
	subscriptionRepo interfaces.UserSubscriptionRepository,
	vendors VendorService,
	logger *logger.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo:       reviewRepo,
		subscriptionRepo: subscriptionRepo,
		vendors:          vendors,
		logger:           logger,
	}
}

func (s *reviewService) CreateReview(ctx context.Context, userID primitive.ObjectID, request *validators.ReviewCreateRequest) (*models.Review, error) {
	subscriptionID, err := primitive.ObjectIDFromHex(request.SubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("invalid subscription id: %w", err)
	}

	subscription, err := s.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if subscription.UserID != userID {
		return nil, ErrNotSubscriptionOwner
	}
	if subscription.CurrentVendor == nil {
		return nil, ErrNoVendorToReview
	}

	exists, err := s.reviewRepo.ExistsForSubscription(ctx, userID, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	review := &models.Review{
		VendorID:       subscription.CurrentVendor.VendorID,
		UserID:         userID,
		SubscriptionID: subscriptionID,
		Rating:         request.Rating,
		Title:          request.Title,
		Comment:        request.Comment,
		IsPublic:       true,
	}
	if request.IsPublic != nil {
		review.IsPublic = *request.IsPublic
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	if err := s.vendors.RefreshRating(ctx, review.VendorID); err != nil {
		s.logger.WithError(err).WithField("vendor_id", review.VendorID.Hex()).Warn("Failed to refresh vendor rating")
	}

	s.logger.WithFields(map[string]interface{}{
		"review_id":       review.ID.Hex(),
		"vendor_id":       review.VendorID.Hex(),
		"subscription_id": subscriptionID.Hex(),
		"rating":          review.Rating,
	}).Info("Review submitted")

	return review, nil
}

func (s *reviewService) ListVendorReviews(ctx context.Context, vendorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	return s.reviewRepo.GetByVendor(ctx, vendorID, params)
}
