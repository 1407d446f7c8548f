package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"tiffinhub/internal/config"
	"tiffinhub/internal/models"
	"tiffinhub/internal/repositories/interfaces"
	"tiffinhub/internal/utils"
	"tiffinhub/internal/validators"
	"tiffinhub/pkg/logger"
	"tiffinhub/pkg/payment"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrPlanNotAvailable         = errors.New("subscription plan is not available")
	ErrAreaNotServiceable       = errors.New("delivery address is outside our service area")
	ErrMealSlotNotOnPlan        = errors.New("requested meal slot is not part of this plan")
	ErrPaymentNotCaptured       = errors.New("payment has not been captured")
	ErrNotTransactionOwner      = errors.New("transaction does not belong to this user")
	ErrVerificationInProgress   = errors.New("payment verification already in progress")
	ErrTransactionNotRefundable = errors.New("transaction is not in a refundable state")
)

// verificationLock is the slice of the cache the purchase flow needs. The
// client-side verify call and the gateway webhook can land at the same
// time; a short-lived SetNX lock keyed by gateway order serializes them.
type verificationLock interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

type PurchaseService interface {
	// InitiatePurchase validates the plan, zone and promo code, creates a
	// gateway order and records the pending transaction plus a workflow
	// document that the post-payment steps resume from.
	InitiatePurchase(ctx context.Context, userID primitive.ObjectID, request *validators.PurchaseInitiateRequest) (*PurchaseInitiation, error)

	// VerifyPayment is the client-side confirmation path. The gateway
	// signature is checked, the payment is fetched for its live status,
	// and the post-payment steps run to completion.
	VerifyPayment(ctx context.Context, userID primitive.ObjectID, request *validators.PurchaseVerifyRequest) (*models.PurchaseWorkflow, error)

	// HandleWebhook is the gateway-side confirmation path. It is expected
	// to race VerifyPayment and must be safe to run after it.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error

	// CheckPaymentStatus is the admin recovery path for a purchase stuck
	// between payment and completion, for example when the customer closed
	// the app before the verify call and the webhook was missed.
	CheckPaymentStatus(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (*models.PurchaseWorkflow, error)

	// ResumeIncomplete replays the remaining steps of every workflow whose
	// payment was captured but which never reached completed. Run at
	// startup and periodically.
	ResumeIncomplete(ctx context.Context) (int, error)

	PreviewPromo(ctx context.Context, userID primitive.ObjectID, request *validators.PromoPreviewRequest) (*PromoApplication, error)
	RefundPurchase(ctx context.Context, transactionID primitive.ObjectID, reason string) (*models.Transaction, error)
	GetWorkflow(ctx context.Context, id primitive.ObjectID) (*models.PurchaseWorkflow, error)
	ListUserTransactions(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Transaction, int64, error)
}

type PurchaseInitiation struct {
	WorkflowID      primitive.ObjectID `json:"workflow_id"`
	TransactionID   primitive.ObjectID `json:"transaction_id"`
	GatewayProvider string             `json:"gateway_provider"`
	GatewayOrderID  string             `json:"gateway_order_id"`
	Amount          float64            `json:"amount"`
	Currency        string             `json:"currency"`
	PlanPrice       float64            `json:"plan_price"`
	DeliveryFee     float64            `json:"delivery_fee"`
	Discount        float64            `json:"discount"`
}

type purchaseService struct {
	provider         payment.PaymentProvider
	paymentConfig    *config.PaymentConfig
	transactionRepo  interfaces.TransactionRepository
	workflowRepo     interfaces.PurchaseWorkflowRepository
	subscriptionRepo interfaces.UserSubscriptionRepository
	planRepo         interfaces.PlanRepository
	userRepo         interfaces.UserRepository
	zones            ZoneService
	promos           PromotionService
	assignments      AssignmentService
	notifications    NotificationService
	lock             verificationLock
	logger           *logger.Logger
}

func NewPurchaseService(
	provider payment.PaymentProvider,
	paymentConfig *config.PaymentConfig,
	transactionRepo interfaces.TransactionRepository,
	workflowRepo interfaces.PurchaseWorkflowRepository,
	subscriptionRepo interfaces.UserSubscriptionRepository,
	planRepo interfaces.PlanRepository,
	userRepo interfaces.UserRepository,
	zones ZoneService,
	promos PromotionService,
	assignments AssignmentService,
	notifications NotificationService,
	lock verificationLock,
	logger *logger.Logger,
) PurchaseService {
	return &purchaseService{
		provider:         provider,
		paymentConfig:    paymentConfig,
		transactionRepo:  transactionRepo,
		workflowRepo:     workflowRepo,
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		userRepo:         userRepo,
		zones:            zones,
		promos:           promos,
		assignments:      assignments,
		notifications:    notifications,
		lock:             lock,
		logger:           logger,
	}
}

func (s *purchaseService) InitiatePurchase(ctx context.Context, userID primitive.ObjectID, request *validators.PurchaseInitiateRequest) (*PurchaseInitiation, error) {
	planID, err := primitive.ObjectIDFromHex(request.PlanID)
	if err != nil {
		return nil, fmt.Errorf("invalid plan id: %w", err)
	}

	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if !plan.IsActive {
		return nil, ErrPlanNotAvailable
	}

	address := deliveryAddressFromRequest(&request.DeliveryAddress)

	availability, err := s.zones.CheckSubscriptionAvailability(ctx, address, plan.Category, plan.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if !availability.Available {
		return nil, fmt.Errorf("%w: %s", ErrAreaNotServiceable, availability.Reason)
	}

	timing, err := mealTimingFromRequest(request.MealTimings, plan)
	if err != nil {
		return nil, err
	}

	var discount float64
	var promotionID *primitive.ObjectID
	if request.PromoCode != "" {
		application, err := s.promos.ApplyPromotion(ctx, userID, request.PromoCode, plan)
		if err != nil {
			return nil, err
		}
		discount = application.Discount
		promotionID = &application.Promotion.ID
	}

	amount := roundMoney(plan.Price + availability.DeliveryFee - discount)
	if amount < utils.MinOrderAmount {
		// Gateways reject zero-value orders. A fully discounted purchase
		// still goes through checkout at the minimum amount.
		amount = utils.MinOrderAmount
	}

	transactionID := primitive.NewObjectID()
	order, err := s.provider.CreateOrder(ctx, &payment.OrderRequest{
		Amount:   amount,
		Currency: s.paymentConfig.Currency,
		Receipt:  transactionID.Hex(),
		Metadata: map[string]interface{}{
			"user_id": userID.Hex(),
			"plan_id": plan.ID.Hex(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}

	transaction := &models.Transaction{
		ID:              transactionID,
		UserID:          userID,
		PlanID:          plan.ID,
		Status:          models.TransactionStatusPending,
		Amount:          amount,
		Currency:        s.paymentConfig.Currency,
		PlanPrice:       plan.Price,
		DeliveryFee:     availability.DeliveryFee,
		DiscountAmount:  discount,
		PromoCode:       request.PromoCode,
		PromotionID:     promotionID,
		GatewayProvider: s.paymentConfig.DefaultProvider,
		GatewayOrderID:  order.OrderID,
	}
	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	startDate := startOfDay(time.Now().AddDate(0, 0, 1))
	if request.StartDate != nil {
		startDate = startOfDay(*request.StartDate)
	}

	workflow := &models.PurchaseWorkflow{
		UserID:         userID,
		PlanID:         plan.ID,
		TransactionID:  transaction.ID,
		GatewayOrderID: order.OrderID,
		Status:         models.WorkflowStatusPaymentPending,
		Details: models.PurchaseDetails{
			ZoneID:          availability.Zone.ID,
			DeliveryAddress: *address,
			MealTiming:      timing,
			StartDate:       startDate,
		},
	}
	if err := s.workflowRepo.Create(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to create purchase workflow: %w", err)
	}

	s.logger.LogPaymentEvent(transaction.ID, "purchase_initiated", amount, map[string]interface{}{
		"user_id":          userID.Hex(),
		"plan_id":          plan.ID.Hex(),
		"gateway_order_id": order.OrderID,
		"zone_id":          availability.Zone.ID.Hex(),
	})

	return &PurchaseInitiation{
		WorkflowID:      workflow.ID,
		TransactionID:   transaction.ID,
		GatewayProvider: transaction.GatewayProvider,
		GatewayOrderID:  order.OrderID,
		Amount:          amount,
		Currency:        transaction.Currency,
		PlanPrice:       plan.Price,
		DeliveryFee:     availability.DeliveryFee,
		Discount:        discount,
	}, nil
}

func (s *purchaseService) VerifyPayment(ctx context.Context, userID primitive.ObjectID, request *validators.PurchaseVerifyRequest) (*models.PurchaseWorkflow, error) {
	transaction, err := s.transactionRepo.GetByGatewayOrderID(ctx, request.GatewayOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if transaction.UserID != userID {
		return nil, ErrNotTransactionOwner
	}

	if err := s.provider.VerifyPaymentSignature(request.GatewayOrderID, request.GatewayPaymentID, request.Signature); err != nil {
		transaction.MarkAsFailed("invalid payment signature")
		if saveErr := s.transactionRepo.Save(ctx, transaction); saveErr != nil {
			s.logger.WithError(saveErr).Error("Failed to record signature failure")
		}
		return nil, fmt.Errorf("payment verification failed: %w", err)
	}

	return s.confirmPayment(ctx, transaction, request.GatewayPaymentID)
}

func (s *purchaseService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ValidateWebhook(ctx, payload, signature)
	if err != nil {
		return fmt.Errorf("webhook validation failed: %w", err)
	}

	orderID, paymentID, ok := capturedPaymentFromEvent(event)
	if !ok {
		s.logger.WithFields(map[string]interface{}{
			"event_id":   event.EventID,
			"event_type": event.EventType,
		}).Debug("Ignoring webhook event")
		return nil
	}

	transaction, err := s.transactionRepo.GetByGatewayOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to get transaction for webhook: %w", err)
	}

	if _, err := s.confirmPayment(ctx, transaction, paymentID); err != nil {
		// The verify call may hold the lock right now; the gateway will
		// retry the webhook and ResumeIncomplete covers the rest.
		if errors.Is(err, ErrVerificationInProgress) {
			return nil
		}
		return err
	}
	return nil
}

func (s *purchaseService) CheckPaymentStatus(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (*models.PurchaseWorkflow, error) {
	transaction, err := s.transactionRepo.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return s.confirmPayment(ctx, transaction, gatewayPaymentID)
}

// confirmPayment acquires the per-order lock, confirms capture with the
// gateway, marks the transaction paid and runs the remaining workflow
// steps. Safe to call repeatedly for the same order.
func (s *purchaseService) confirmPayment(ctx context.Context, transaction *models.Transaction, gatewayPaymentID string) (*models.PurchaseWorkflow, error) {
	lockKey := utils.CachePurchaseLockPrefix + transaction.GatewayOrderID
	acquired, err := s.lock.SetNX(ctx, lockKey, time.Now().Unix(), 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire verification lock: %w", err)
	}
	if !acquired {
		return nil, ErrVerificationInProgress
	}
	defer func() {
		if err := s.lock.Delete(ctx, lockKey); err != nil {
			s.logger.WithError(err).Warn("Failed to release verification lock")
		}
	}()

	if !transaction.IsPaid() {
		details, err := s.provider.FetchPayment(ctx, gatewayPaymentID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch payment: %w", err)
		}
		if details.OrderID != transaction.GatewayOrderID {
			return nil, fmt.Errorf("payment %s does not belong to order %s", gatewayPaymentID, transaction.GatewayOrderID)
		}
		if details.Status != payment.StatusCaptured {
			return nil, fmt.Errorf("%w: gateway reports %s", ErrPaymentNotCaptured, details.Status)
		}

		transaction.MarkAsPaid(gatewayPaymentID)
		if err := s.transactionRepo.Save(ctx, transaction); err != nil {
			return nil, fmt.Errorf("failed to save transaction: %w", err)
		}

		s.logger.LogPaymentEvent(transaction.ID, "payment_captured", transaction.Amount, map[string]interface{}{
			"gateway_order_id":   transaction.GatewayOrderID,
			"gateway_payment_id": gatewayPaymentID,
		})
	}

	workflow, err := s.workflowRepo.GetByGatewayOrderID(ctx, transaction.GatewayOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase workflow: %w", err)
	}

	if err := s.runWorkflowSteps(ctx, workflow, transaction); err != nil {
		return workflow, err
	}
	return workflow, nil
}

// runWorkflowSteps executes the post-payment steps in order, persisting the
// workflow after each one. Steps already recorded in StepsDone are skipped,
// so a crashed or raced run picks up exactly where the last one stopped.
func (s *purchaseService) runWorkflowSteps(ctx context.Context, workflow *models.PurchaseWorkflow, transaction *models.Transaction) error {
	if workflow.Status == models.WorkflowStatusCompleted {
		return nil
	}

	if !workflow.IsStepDone(models.StepPaymentCaptured) {
		if transaction.PromotionID != nil {
			if err := s.promos.RecordUsage(ctx, *transaction.PromotionID); err != nil {
				s.logger.WithError(err).WithField("promo_code", transaction.PromoCode).Warn("Failed to record promo usage")
			}
		}
		workflow.MarkStepDone(models.StepPaymentCaptured)
		if err := s.workflowRepo.Save(ctx, workflow); err != nil {
			return fmt.Errorf("failed to save workflow: %w", err)
		}
	}

	subscription, err := s.ensureSubscription(ctx, workflow, transaction)
	if err != nil {
		return err
	}

	if !workflow.IsStepDone(models.StepAssignmentRequested) {
		plan, err := s.planRepo.GetByID(ctx, workflow.PlanID)
		if err != nil {
			return fmt.Errorf("failed to get plan: %w", err)
		}

		request, err := s.assignments.CreateRequest(ctx, subscription, models.AssignmentTypeInitial, models.AssignmentReasonNewSubscription, preferredVendorType(plan.Category))
		if err != nil {
			return fmt.Errorf("failed to request vendor assignment: %w", err)
		}

		workflow.AssignmentRequestID = &request.ID
		workflow.MarkStepDone(models.StepAssignmentRequested)
		if err := s.workflowRepo.Save(ctx, workflow); err != nil {
			return fmt.Errorf("failed to save workflow: %w", err)
		}
	}

	if !workflow.IsStepDone(models.StepNotificationsSent) {
		user, err := s.userRepo.GetByID(ctx, workflow.UserID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if err := s.notifications.SendPurchaseConfirmation(ctx, user, subscription, transaction); err != nil {
			s.logger.WithError(err).Warn("Failed to send purchase confirmation")
		}

		workflow.MarkStepDone(models.StepNotificationsSent)
		if err := s.workflowRepo.Save(ctx, workflow); err != nil {
			return fmt.Errorf("failed to save workflow: %w", err)
		}
	}

	workflow.Status = models.WorkflowStatusCompleted
	if err := s.workflowRepo.Save(ctx, workflow); err != nil {
		return fmt.Errorf("failed to save workflow: %w", err)
	}

	s.logger.LogSubscriptionEvent(subscription.ID, "purchase_completed", map[string]interface{}{
		"workflow_id":    workflow.ID.Hex(),
		"transaction_id": transaction.ID.Hex(),
		"user_id":        workflow.UserID.Hex(),
	})
	return nil
}

// ensureSubscription creates the subscription for a paid workflow exactly
// once. The transaction_id unique index backstops a crash between the
// subscription insert and the workflow save.
func (s *purchaseService) ensureSubscription(ctx context.Context, workflow *models.PurchaseWorkflow, transaction *models.Transaction) (*models.UserSubscription, error) {
	if existing, err := s.subscriptionRepo.GetByTransaction(ctx, transaction.ID); err == nil && existing != nil {
		if !workflow.IsStepDone(models.StepSubscriptionCreated) {
			workflow.SubscriptionID = &existing.ID
			workflow.MarkStepDone(models.StepSubscriptionCreated)
			if err := s.workflowRepo.Save(ctx, workflow); err != nil {
				return nil, fmt.Errorf("failed to save workflow: %w", err)
			}
		}
		return existing, nil
	}

	plan, err := s.planRepo.GetByID(ctx, workflow.PlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	startDate := workflow.Details.StartDate
	if startDate.Before(startOfDay(time.Now())) {
		// Payment confirmed after the scheduled start, for example via
		// delayed recovery. The customer still gets the full duration.
		startDate = startOfDay(time.Now())
	}

	subscription := &models.UserSubscription{
		UserID:              workflow.UserID,
		PlanID:              plan.ID,
		TransactionID:       transaction.ID,
		ZoneID:              workflow.Details.ZoneID,
		Category:            plan.Category,
		CreditsGranted:      plan.MealCredits,
		SkipCreditAvailable: plan.SkipCredits,
		AmountPaid:          transaction.Amount,
		StartDate:           startDate,
		EndDate:             startDate.AddDate(0, 0, plan.DurationDays),
		Status:              models.SubscriptionStatusActive,
		MealTiming:          workflow.Details.MealTiming,
		DeliveryAddress:     workflow.Details.DeliveryAddress,
	}
	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	workflow.SubscriptionID = &subscription.ID
	workflow.MarkStepDone(models.StepSubscriptionCreated)
	if err := s.workflowRepo.Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	s.logger.LogSubscriptionEvent(subscription.ID, "subscription_created", map[string]interface{}{
		"user_id": subscription.UserID.Hex(),
		"plan_id": plan.ID.Hex(),
		"zone_id": subscription.ZoneID.Hex(),
	})
	return subscription, nil
}

func (s *purchaseService) ResumeIncomplete(ctx context.Context) (int, error) {
	workflows, err := s.workflowRepo.ListIncomplete(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list incomplete workflows: %w", err)
	}

	resumed := 0
	for _, workflow := range workflows {
		transaction, err := s.transactionRepo.GetByID(ctx, workflow.TransactionID)
		if err != nil {
			s.logger.WithError(err).WithField("workflow_id", workflow.ID.Hex()).Error("Failed to load transaction for resume")
			continue
		}
		if !transaction.IsPaid() {
			// Payment never arrived; the customer abandoned checkout or
			// the webhook is still pending. Nothing to resume.
			continue
		}

		if err := s.runWorkflowSteps(ctx, workflow, transaction); err != nil {
			s.logger.WithError(err).WithField("workflow_id", workflow.ID.Hex()).Error("Failed to resume purchase workflow")
			continue
		}
		resumed++
	}

	if resumed > 0 {
		s.logger.WithField("count", resumed).Info("Resumed incomplete purchase workflows")
	}
	return resumed, nil
}

func (s *purchaseService) PreviewPromo(ctx context.Context, userID primitive.ObjectID, request *validators.PromoPreviewRequest) (*PromoApplication, error) {
	planID, err := primitive.ObjectIDFromHex(request.PlanID)
	if err != nil {
		return nil, fmt.Errorf("invalid plan id: %w", err)
	}

	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return s.promos.ApplyPromotion(ctx, userID, request.PromoCode, plan)
}

func (s *purchaseService) RefundPurchase(ctx context.Context, transactionID primitive.ObjectID, reason string) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if transaction.Status != models.TransactionStatusCompleted {
		return nil, ErrTransactionNotRefundable
	}

	refund, err := s.provider.RefundPayment(ctx, &payment.RefundRequest{
		PaymentID: transaction.GatewayPaymentID,
		Amount:    transaction.Amount,
		Reason:    reason,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to refund payment: %w", err)
	}

	transaction.Status = models.TransactionStatusRefunded
	if err := s.transactionRepo.Save(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	if subscription, err := s.subscriptionRepo.GetByTransaction(ctx, transaction.ID); err == nil && subscription != nil {
		if subscription.Status == models.SubscriptionStatusActive {
			subscription.Cancel("refunded: " + reason)
			if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
				s.logger.WithError(err).WithField("subscription_id", subscription.ID.Hex()).Error("Failed to cancel refunded subscription")
			}
		}
	}

	s.logger.LogPaymentEvent(transaction.ID, "payment_refunded", transaction.Amount, map[string]interface{}{
		"refund_id": refund.RefundID,
		"reason":    reason,
	})
	return transaction, nil
}

func (s *purchaseService) GetWorkflow(ctx context.Context, id primitive.ObjectID) (*models.PurchaseWorkflow, error) {
	return s.workflowRepo.GetByID(ctx, id)
}

func (s *purchaseService) ListUserTransactions(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Transaction, int64, error) {
	return s.transactionRepo.GetByUser(ctx, userID, params)
}

func deliveryAddressFromRequest(request *validators.AddressRequest) *models.DeliveryAddress {
	line2 := request.AddressLine2
	if request.Landmark != "" {
		if line2 != "" {
			line2 += ", "
		}
		line2 += "near " + request.Landmark
	}

	address := &models.DeliveryAddress{
		Line1:   request.AddressLine1,
		Line2:   line2,
		City:    request.City,
		State:   request.State,
		ZipCode: request.Pincode,
	}
	if request.Latitude != 0 || request.Longitude != 0 {
		address.Coordinates = &models.GeoPoint{Latitude: request.Latitude, Longitude: request.Longitude}
	}
	return address
}

// mealTimingFromRequest maps the requested slots onto the plan. With no
// explicit timings, every slot the plan offers is enabled at its default
// window start.
func mealTimingFromRequest(requests []validators.MealTimingRequest, plan *models.SubscriptionPlan) (models.MealTiming, error) {
	timing := models.MealTiming{}

	if len(requests) == 0 {
		timing.LunchEnabled = plan.LunchEnabled
		timing.DinnerEnabled = plan.DinnerEnabled
		if timing.LunchEnabled {
			timing.LunchTime = utils.DefaultLunchTime
		}
		if timing.DinnerEnabled {
			timing.DinnerTime = utils.DefaultDinnerTime
		}
		return timing, nil
	}

	for _, request := range requests {
		switch request.Slot {
		case "lunch":
			if !plan.LunchEnabled {
				return timing, fmt.Errorf("%w: lunch", ErrMealSlotNotOnPlan)
			}
			timing.LunchEnabled = true
			timing.LunchTime = utils.DefaultLunchTime
			if request.WindowFrom != "" {
				timing.LunchTime = request.WindowFrom
			}
		case "dinner":
			if !plan.DinnerEnabled {
				return timing, fmt.Errorf("%w: dinner", ErrMealSlotNotOnPlan)
			}
			timing.DinnerEnabled = true
			timing.DinnerTime = utils.DefaultDinnerTime
			if request.WindowFrom != "" {
				timing.DinnerTime = request.WindowFrom
			}
		}
	}
	return timing, nil
}

func preferredVendorType(category models.SubscriptionCategory) models.VendorType {
	switch category {
	case models.CategoryFoodVendor:
		return models.VendorTypeFoodVendor
	case models.CategoryHomeChef:
		return models.VendorTypeHomeChef
	default:
		// Combo plans can be served by either type; the admin decides.
		return ""
	}
}

// capturedPaymentFromEvent extracts the order and payment ids from the
// capture events of the gateways we integrate. Other event types are not
// acted on.
func capturedPaymentFromEvent(event *payment.WebhookEvent) (orderID, paymentID string, ok bool) {
	switch event.EventType {
	case "payment.captured":
		// Razorpay nests the payment entity under payload.payment.entity.
		payload, _ := event.Data["payload"].(map[string]interface{})
		paymentWrapper, _ := payload["payment"].(map[string]interface{})
		entity, _ := paymentWrapper["entity"].(map[string]interface{})
		orderID, _ = entity["order_id"].(string)
		paymentID, _ = entity["id"].(string)
	case "payment_intent.succeeded":
		// Stripe's event data is the payment intent itself; the intent id
		// doubles as our order id.
		paymentID, _ = event.Data["id"].(string)
		orderID = paymentID
	}
	return orderID, paymentID, orderID != "" && paymentID != ""
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
