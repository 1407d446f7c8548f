package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tiffinhub/internal/models"
	"tiffinhub/internal/repositories/interfaces"
	"tiffinhub/internal/utils"
	"tiffinhub/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotSubscriptionOwner = errors.New("subscription does not belong to this user")

type SubscriptionService interface {
	GetSubscription(ctx context.Context, subscriptionID, userID primitive.ObjectID) (*models.UserSubscription, error)
	ListUserSubscriptions(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.UserSubscription, int64, error)

	UseCredits(ctx context.Context, subscriptionID, userID primitive.ObjectID, credits int) (*models.UserSubscription, error)
	SkipMeal(ctx context.Context, subscriptionID, userID primitive.ObjectID) (*models.UserSubscription, error)

	// RequestVendorSwitch consumes the customer's one-time switch and
	// queues an assignment request for admins.
	RequestVendorSwitch(ctx context.Context, subscriptionID, userID primitive.ObjectID, reason string) (*models.VendorAssignmentRequest, error)

	CancelSubscription(ctx context.Context, subscriptionID, userID primitive.ObjectID, reason string) (*models.UserSubscription, error)

	// Admin surfaces
	SearchSubscriptions(ctx context.Context, query *SubscriptionSearchQuery, params *utils.PaginationParams) ([]*models.UserSubscription, int64, error)
	GetStats(ctx context.Context) (*interfaces.SubscriptionStats, error)

	// SweepExpired persists the expired status for subscriptions whose end
	// date has passed. Reads never depend on the sweep; IsActive checks the
	// date itself.
	SweepExpired(ctx context.Context) (int64, error)
}

type SubscriptionSearchQuery struct {
	UserID      string     `form:"user_id"`
	VendorID    string     `form:"vendor_id"`
	ZoneID      string     `form:"zone_id"`
	Status      string     `form:"status"`
	Category    string     `form:"category"`
	CreatedFrom *time.Time `form:"created_from" time_format:"2006-01-02"`
	CreatedTo   *time.Time `form:"created_to" time_format:"2006-01-02"`
}

type subscriptionService struct {
	subscriptionRepo interfaces.UserSubscriptionRepository
	userRepo         interfaces.UserRepository
	assignments      AssignmentService
	notifications    NotificationService
	logger           *logger.Logger
}

func NewSubscriptionService(
	subscriptionRepo interfaces.UserSubscriptionRepository,
	userRepo interfaces.UserRepository,
	assignments AssignmentService,
	notifications NotificationService,
	logger *logger.Logger,
) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		assignments:      assignments,
		notifications:    notifications,
		logger:           logger,
	}
}

func (s *subscriptionService) GetSubscription(ctx context.Context, subscriptionID, userID primitive.ObjectID) (*models.UserSubscription, error) {
	subscription, err := s.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if subscription.UserID != userID {
		return nil, ErrNotSubscriptionOwner
	}
	return subscription, nil
}

func (s *subscriptionService) ListUserSubscriptions(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.UserSubscription, int64, error) {
	return s.subscriptionRepo.GetByUser(ctx, userID, params)
}

func (s *subscriptionService) UseCredits(ctx context.Context, subscriptionID, userID primitive.ObjectID, credits int) (*models.UserSubscription, error) {
	subscription, err := s.GetSubscription(ctx, subscriptionID, userID)
	if err != nil {
		return nil, err
	}

	if err := subscription.UseCredits(credits); err != nil {
		return nil, err
	}

	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return nil, fmt.Errorf("failed to save credit usage: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"subscription_id":   subscription.ID.Hex(),
		"credits_used":      credits,
		"credits_remaining": subscription.GetRemainingCredits(),
	}).Info("Meal credits consumed")

	return subscription, nil
}

func (s *subscriptionService) SkipMeal(ctx context.Context, subscriptionID, userID primitive.ObjectID) (*models.UserSubscription, error) {
	subscription, err := s.GetSubscription(ctx, subscriptionID, userID)
	if err != nil {
		return nil, err
	}

	if err := subscription.SkipMeal(); err != nil {
		return nil, err
	}

	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return nil, fmt.Errorf("failed to save meal skip: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"subscription_id": subscription.ID.Hex(),
		"skips_used":      subscription.SkipCreditUsed,
		"end_date":        subscription.EndDate.Format("2006-01-02"),
	}).Info("Meal skipped")

	if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
		s.notifications.SendSkipConfirmation(ctx, user, subscription)
	}

	return subscription, nil
}

func (s *subscriptionService) RequestVendorSwitch(ctx context.Context, subscriptionID, userID primitive.ObjectID, reason string) (*models.VendorAssignmentRequest, error) {
	subscription, err := s.GetSubscription(ctx, subscriptionID, userID)
	if err != nil {
		return nil, err
	}

	if err := subscription.UseVendorSwitch(); err != nil {
		return nil, err
	}

	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return nil, fmt.Errorf("failed to save vendor switch: %w", err)
	}

	preferredType := subscription.CurrentVendor.VendorType
	request, err := s.assignments.CreateRequest(ctx, subscription, models.AssignmentTypeSwitch, models.AssignmentReasonCustomerRequest, preferredType)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"subscription_id": subscription.ID.Hex(),
		"request_id":      request.ID.Hex(),
		"reason":          reason,
	}).Info("Vendor switch requested")

	return request, nil
}

func (s *subscriptionService) CancelSubscription(ctx context.Context, subscriptionID, userID primitive.ObjectID, reason string) (*models.UserSubscription, error) {
	subscription, err := s.GetSubscription(ctx, subscriptionID, userID)
	if err != nil {
		return nil, err
	}

	if !subscription.IsActive() {
		return nil, models.ErrSubscriptionNotActive
	}

	subscription.Cancel(reason)
	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return nil, fmt.Errorf("failed to save cancellation: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"subscription_id": subscription.ID.Hex(),
		"reason":          reason,
	}).Info("Subscription cancelled")

	if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
		s.notifications.SendCancellation(ctx, user, subscription)
	}

	return subscription, nil
}

func (s *subscriptionService) SearchSubscriptions(ctx context.Context, query *SubscriptionSearchQuery, params *utils.PaginationParams) ([]*models.UserSubscription, int64, error) {
	filter, err := utils.NewFilterBuilder("user_id", "current_vendor.vendor_id", "zone_id", "status", "category", "created_at").
		ObjectID("user_id", query.UserID).
		ObjectID("current_vendor.vendor_id", query.VendorID).
		ObjectID("zone_id", query.ZoneID).
		Eq("status", query.Status).
		Eq("category", query.Category).
		DateRange("created_at", query.CreatedFrom, query.CreatedTo).
		Build()
	if err != nil {
		return nil, 0, err
	}

	return s.subscriptionRepo.Search(ctx, filter, params)
}

func (s *subscriptionService) GetStats(ctx context.Context) (*interfaces.SubscriptionStats, error) {
	return s.subscriptionRepo.GetStats(ctx)
}

func (s *subscriptionService) SweepExpired(ctx context.Context) (int64, error) {
	swept, err := s.subscriptionRepo.MarkExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired subscriptions: %w", err)
	}

	if swept > 0 {
		s.logger.WithField("count", swept).Info("Expired subscriptions swept")
	}

	return swept, nil
}
