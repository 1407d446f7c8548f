package services

import (
	"context"
	"errors"
	"fmt"

	"tiffinhub/internal/models"
	"tiffinhub/internal/repositories/interfaces"
	"tiffinhub/internal/utils"
	"tiffinhub/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrAssignmentAlreadyProcessed = errors.New("assignment request already processed")
	ErrVendorNotEligible          = errors.New("vendor is not eligible for this subscription")
)

type AssignmentService interface {
	// CreateRequest enqueues a vendor assignment. If the subscription
	// already has a pending request, that request is returned instead of
	// queuing a duplicate.
	CreateRequest(ctx context.Context, subscription *models.UserSubscription, requestType models.AssignmentRequestType, reason models.AssignmentReason, preferredType models.VendorType) (*models.VendorAssignmentRequest, error)

	GetRequest(ctx context.Context, id primitive.ObjectID) (*models.VendorAssignmentRequest, error)
	ListByStatus(ctx context.Context, status models.AssignmentRequestStatus, params *utils.PaginationParams) ([]*models.VendorAssignmentRequest, int64, error)

	// Approve assigns the chosen vendor to the subscription and marks the
	// request approved in one admin action.
	Approve(ctx context.Context, requestID, vendorID, adminID primitive.ObjectID, note string) (*models.VendorAssignmentRequest, error)
	Reject(ctx context.Context, requestID, adminID primitive.ObjectID, reason string) (*models.VendorAssignmentRequest, error)

	// Complete closes an approved request once the vendor has confirmed
	// the first delivery.
	Complete(ctx context.Context, requestID, adminID primitive.ObjectID) (*models.VendorAssignmentRequest, error)

	SetPriority(ctx context.Context, requestID primitive.ObjectID, priority models.AssignmentPriority) error
	EligibleVendors(ctx context.Context, requestID primitive.ObjectID) ([]*models.Vendor, error)
	QueueStats(ctx context.Context) (*interfaces.AssignmentQueueStats, error)
}

type assignmentService struct {
	assignmentRepo   interfaces.VendorAssignmentRepository
	subscriptionRepo interfaces.UserSubscriptionRepository
	vendorRepo       interfaces.VendorRepository
	userRepo         interfaces.UserRepository
	notifications    NotificationService
	logger           *logger.Logger
}

func NewAssignmentService(
	assignmentRepo interfaces.VendorAssignmentRepository,
	subscriptionRepo interfaces.UserSubscriptionRepository,
	vendorRepo interfaces.VendorRepository,
	userRepo interfaces.UserRepository,
	notifications NotificationService,
	logger *logger.Logger,
) AssignmentService {
	return &assignmentService{
		assignmentRepo:   assignmentRepo,
		subscriptionRepo: subscriptionRepo,
		vendorRepo:       vendorRepo,
		userRepo:         userRepo,
		notifications:    notifications,
		logger:           logger,
	}
}

func (s *assignmentService) CreateRequest(ctx context.Context, subscription *models.UserSubscription, requestType models.AssignmentRequestType, reason models.AssignmentReason, preferredType models.VendorType) (*models.VendorAssignmentRequest, error) {
	existing, err := s.assignmentRepo.GetPendingBySubscription(ctx, subscription.ID)
	if err == nil && existing != nil {
		return existing, nil
	}

	request := &models.VendorAssignmentRequest{
		SubscriptionID:      subscription.ID,
		UserID:              subscription.UserID,
		RequestType:         requestType,
		Reason:              reason,
		Status:              models.AssignmentStatusPending,
		PreferredVendorType: preferredType,
	}
	request.SetPriority(models.DefaultPriorityFor(requestType))

	if err := s.assignmentRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create assignment request: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"request_id":      request.ID.Hex(),
		"subscription_id": subscription.ID.Hex(),
		"request_type":    string(requestType),
		"priority":        string(request.Priority),
	}).Info("Vendor assignment request queued")

	return request, nil
}

func (s *assignmentService) GetRequest(ctx context.Context, id primitive.ObjectID) (*models.VendorAssignmentRequest, error) {
	return s.assignmentRepo.GetByID(ctx, id)
}

func (s *assignmentService) ListByStatus(ctx context.Context, status models.AssignmentRequestStatus, params *utils.PaginationParams) ([]*models.VendorAssignmentRequest, int64, error) {
	return s.assignmentRepo.ListByStatus(ctx, status, params)
}

func (s *assignmentService) Approve(ctx context.Context, requestID, vendorID, adminID primitive.ObjectID, note string) (*models.VendorAssignmentRequest, error) {
	request, err := s.assignmentRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.IsTerminal() {
		return nil, ErrAssignmentAlreadyProcessed
	}

	subscription, err := s.subscriptionRepo.GetByID(ctx, request.SubscriptionID)
	if err != nil {
		return nil, err
	}

	vendor, err := s.vendorRepo.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if err := s.checkVendorEligibility(vendor, subscription, request); err != nil {
		return nil, err
	}

	subscription.AssignVendor(vendor.ID, vendor.VendorType, adminID)
	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return nil, fmt.Errorf("failed to save vendor assignment: %w", err)
	}

	request.AssignedVendorID = &vendor.ID
	request.MarkProcessed(models.AssignmentStatusApproved, adminID, note)
	if err := s.assignmentRepo.Save(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to save assignment request: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"request_id":      request.ID.Hex(),
		"subscription_id": subscription.ID.Hex(),
		"vendor_id":       vendor.ID.Hex(),
		"admin_id":        adminID.Hex(),
	}).Info("Assignment request approved")

	if user, err := s.userRepo.GetByID(ctx, subscription.UserID); err == nil {
		s.notifications.SendVendorAssigned(ctx, user, subscription, vendor.BusinessName)
	}

	return request, nil
}

func (s *assignmentService) Reject(ctx context.Context, requestID, adminID primitive.ObjectID, reason string) (*models.VendorAssignmentRequest, error) {
	request, err := s.assignmentRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.IsTerminal() {
		return nil, ErrAssignmentAlreadyProcessed
	}

	request.MarkProcessed(models.AssignmentStatusRejected, adminID, reason)
	if err := s.assignmentRepo.Save(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to save assignment request: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"request_id": request.ID.Hex(),
		"admin_id":   adminID.Hex(),
		"reason":     reason,
	}).Info("Assignment request rejected")

	return request, nil
}

func (s *assignmentService) Complete(ctx context.Context, requestID, adminID primitive.ObjectID) (*models.VendorAssignmentRequest, error) {
	request, err := s.assignmentRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.AssignmentStatusApproved {
		return nil, fmt.Errorf("only approved requests can be completed, current status %s", request.Status)
	}

	request.MarkProcessed(models.AssignmentStatusCompleted, adminID, request.AdminNote)
	if err := s.assignmentRepo.Save(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to save assignment request: %w", err)
	}

	return request, nil
}

func (s *assignmentService) SetPriority(ctx context.Context, requestID primitive.ObjectID, priority models.AssignmentPriority) error {
	request, err := s.assignmentRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.IsTerminal() {
		return ErrAssignmentAlreadyProcessed
	}

	request.SetPriority(priority)
	return s.assignmentRepo.Save(ctx, request)
}

// EligibleVendors lists active vendors in the subscription's zone matching
// the preferred vendor type, so admins pick from a pre-filtered set.
func (s *assignmentService) EligibleVendors(ctx context.Context, requestID primitive.ObjectID) ([]*models.Vendor, error) {
	request, err := s.assignmentRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	subscription, err := s.subscriptionRepo.GetByID(ctx, request.SubscriptionID)
	if err != nil {
		return nil, err
	}

	return s.vendorRepo.ListActiveByZone(ctx, subscription.ZoneID, request.PreferredVendorType)
}

func (s *assignmentService) QueueStats(ctx context.Context) (*interfaces.AssignmentQueueStats, error) {
	return s.assignmentRepo.GetQueueStats(ctx)
}

func (s *assignmentService) checkVendorEligibility(vendor *models.Vendor, subscription *models.UserSubscription, request *models.VendorAssignmentRequest) error {
	if !vendor.IsActive {
		return fmt.Errorf("%w: vendor is inactive", ErrVendorNotEligible)
	}
	if vendor.ZoneID != subscription.ZoneID {
		return fmt.Errorf("%w: vendor serves a different zone", ErrVendorNotEligible)
	}
	if request.PreferredVendorType != "" && vendor.VendorType != request.PreferredVendorType {
		return fmt.Errorf("%w: vendor type %s does not match requested %s", ErrVendorNotEligible, vendor.VendorType, request.PreferredVendorType)
	}
	// A switch back to the vendor being replaced makes no sense
	if subscription.CurrentVendor != nil && subscription.CurrentVendor.VendorID == vendor.ID {
		return fmt.Errorf("%w: vendor is already assigned", ErrVendorNotEligible)
	}
	return nil
}
