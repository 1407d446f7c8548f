package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tiffinhub/internal/config"
	"tiffinhub/internal/models"
	"tiffinhub/internal/repositories/interfaces"
	"tiffinhub/internal/utils"
	"tiffinhub/internal/validators"
	"tiffinhub/pkg/logger"
	"tiffinhub/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "json", Output: "stdout"})
	require.NoError(t, err)
	return log
}

type fakeTransactionRepo struct {
	byID      map[primitive.ObjectID]*models.Transaction
	byOrderID map[string]*models.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{
		byID:      make(map[primitive.ObjectID]*models.Transaction),
		byOrderID: make(map[string]*models.Transaction),
	}
}

func (r *fakeTransactionRepo) Create(ctx context.Context, transaction *models.Transaction) error {
	if transaction.ID.IsZero() {
		transaction.ID = primitive.NewObjectID()
	}
	r.byID[transaction.ID] = transaction
	r.byOrderID[transaction.GatewayOrderID] = transaction
	return nil
}

func (r *fakeTransactionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error) {
	transaction, ok := r.byID[id]
	if !ok {
		return nil, errors.New("transaction not found")
	}
	return transaction, nil
}

func (r *fakeTransactionRepo) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Transaction, error) {
	transaction, ok := r.byOrderID[gatewayOrderID]
	if !ok {
		return nil, errors.New("transaction not found")
	}
	return transaction, nil
}

func (r *fakeTransactionRepo) Save(ctx context.Context, transaction *models.Transaction) error {
	r.byID[transaction.ID] = transaction
	r.byOrderID[transaction.GatewayOrderID] = transaction
	return nil
}

func (r *fakeTransactionRepo) GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Transaction, int64, error) {
	var out []*models.Transaction
	for _, transaction := range r.byID {
		if transaction.UserID == userID {
			out = append(out, transaction)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeTransactionRepo) CountPromoUsesByUser(ctx context.Context, userID primitive.ObjectID, promoCode string) (int64, error) {
	return 0, nil
}

type fakeWorkflowRepo struct {
	byID      map[primitive.ObjectID]*models.PurchaseWorkflow
	byOrderID map[string]*models.PurchaseWorkflow
	saves     int
}

func newFakeWorkflowRepo() *fakeWorkflowRepo {
	return &fakeWorkflowRepo{
		byID:      make(map[primitive.ObjectID]*models.PurchaseWorkflow),
		byOrderID: make(map[string]*models.PurchaseWorkflow),
	}
}

func (r *fakeWorkflowRepo) Create(ctx context.Context, workflow *models.PurchaseWorkflow) error {
	if workflow.ID.IsZero() {
		workflow.ID = primitive.NewObjectID()
	}
	r.byID[workflow.ID] = workflow
	r.byOrderID[workflow.GatewayOrderID] = workflow
	return nil
}

func (r *fakeWorkflowRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PurchaseWorkflow, error) {
	workflow, ok := r.byID[id]
	if !ok {
		return nil, errors.New("workflow not found")
	}
	return workflow, nil
}

func (r *fakeWorkflowRepo) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.PurchaseWorkflow, error) {
	workflow, ok := r.byOrderID[gatewayOrderID]
	if !ok {
		return nil, errors.New("workflow not found")
	}
	return workflow, nil
}

func (r *fakeWorkflowRepo) Save(ctx context.Context, workflow *models.PurchaseWorkflow) error {
	r.saves++
	r.byID[workflow.ID] = workflow
	r.byOrderID[workflow.GatewayOrderID] = workflow
	return nil
}

func (r *fakeWorkflowRepo) ListIncomplete(ctx context.Context) ([]*models.PurchaseWorkflow, error) {
	var out []*models.PurchaseWorkflow
	for _, workflow := range r.byID {
		if workflow.Status != models.WorkflowStatusCompleted && workflow.Status != models.WorkflowStatusFailed {
			out = append(out, workflow)
		}
	}
	return out, nil
}

// fakeSubscriptionRepo embeds the interface so only the methods the purchase
// flow touches need real implementations.
type fakeSubscriptionRepo struct {
	interfaces.UserSubscriptionRepository
	byTransaction map[primitive.ObjectID]*models.UserSubscription
	creates       int
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{byTransaction: make(map[primitive.ObjectID]*models.UserSubscription)}
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, subscription *models.UserSubscription) error {
	if subscription.ID.IsZero() {
		subscription.ID = primitive.NewObjectID()
	}
	r.byTransaction[subscription.TransactionID] = subscription
	r.creates++
	return nil
}

func (r *fakeSubscriptionRepo) GetByTransaction(ctx context.Context, transactionID primitive.ObjectID) (*models.UserSubscription, error) {
	subscription, ok := r.byTransaction[transactionID]
	if !ok {
		return nil, errors.New("subscription not found")
	}
	return subscription, nil
}

func (r *fakeSubscriptionRepo) Save(ctx context.Context, subscription *models.UserSubscription) error {
	r.byTransaction[subscription.TransactionID] = subscription
	return nil
}

type fakePlanRepo struct {
	interfaces.PlanRepository
	plans map[primitive.ObjectID]*models.SubscriptionPlan
}

func (r *fakePlanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.SubscriptionPlan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, errors.New("plan not found")
	}
	return plan, nil
}

type fakeUserRepo struct {
	interfaces.UserRepository
	users map[primitive.ObjectID]*models.User
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

type fakeZoneService struct {
	ZoneService
	result *AvailabilityResult
}

func (s *fakeZoneService) CheckSubscriptionAvailability(ctx context.Context, address *models.DeliveryAddress, category models.SubscriptionCategory, orderValue float64) (*AvailabilityResult, error) {
	return s.result, nil
}

type fakePromotionService struct {
	PromotionService
	application *PromoApplication
	applyErr    error
	usages      []primitive.ObjectID
}

func (s *fakePromotionService) ApplyPromotion(ctx context.Context, userID primitive.ObjectID, code string, plan *models.SubscriptionPlan) (*PromoApplication, error) {
	if s.applyErr != nil {
		return nil, s.applyErr
	}
	return s.application, nil
}

func (s *fakePromotionService) RecordUsage(ctx context.Context, promotionID primitive.ObjectID) error {
	s.usages = append(s.usages, promotionID)
	return nil
}

type fakeAssignmentService struct {
	AssignmentService
	requests []*models.VendorAssignmentRequest
}

func (s *fakeAssignmentService) CreateRequest(ctx context.Context, subscription *models.UserSubscription, requestType models.AssignmentRequestType, reason models.AssignmentReason, preferredType models.VendorType) (*models.VendorAssignmentRequest, error) {
	request := &models.VendorAssignmentRequest{
		ID:                  primitive.NewObjectID(),
		SubscriptionID:      subscription.ID,
		UserID:              subscription.UserID,
		RequestType:         requestType,
		Reason:              reason,
		Status:              models.AssignmentStatusPending,
		PreferredVendorType: preferredType,
	}
	s.requests = append(s.requests, request)
	return request, nil
}

type fakeNotificationService struct {
	NotificationService
	confirmations   int
	skips           int
	cancellations   int
	vendorsAssigned int
}

func (s *fakeNotificationService) SendPurchaseConfirmation(ctx context.Context, user *models.User, subscription *models.UserSubscription, transaction *models.Transaction) error {
	s.confirmations++
	return nil
}

type fakePaymentProvider struct {
	orderID      string
	signatureErr error
	details      *payment.PaymentDetails
	webhookEvent *payment.WebhookEvent
	refunds      []*payment.RefundRequest
}

func (p *fakePaymentProvider) CreateOrder(ctx context.Context, request *payment.OrderRequest) (*payment.OrderResponse, error) {
	return &payment.OrderResponse{OrderID: p.orderID, Status: "created", Amount: request.Amount, Currency: request.Currency}, nil
}

func (p *fakePaymentProvider) VerifyPaymentSignature(orderID, paymentID, signature string) error {
	return p.signatureErr
}

func (p *fakePaymentProvider) ValidateWebhook(ctx context.Context, payload []byte, signature string) (*payment.WebhookEvent, error) {
	return p.webhookEvent, nil
}

func (p *fakePaymentProvider) FetchPayment(ctx context.Context, paymentID string) (*payment.PaymentDetails, error) {
	return p.details, nil
}

func (p *fakePaymentProvider) RefundPayment(ctx context.Context, request *payment.RefundRequest) (*payment.RefundResponse, error) {
	p.refunds = append(p.refunds, request)
	return &payment.RefundResponse{RefundID: "rfnd_test", Status: "processed", Amount: request.Amount}, nil
}

type fakeLock struct {
	held map[string]bool
}

func (l *fakeLock) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	if l.held == nil {
		l.held = make(map[string]bool)
	}
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *fakeLock) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(l.held, key)
	}
	return nil
}

type purchaseFixture struct {
	service       PurchaseService
	provider      *fakePaymentProvider
	transactions  *fakeTransactionRepo
	workflows     *fakeWorkflowRepo
	subscriptions *fakeSubscriptionRepo
	promos        *fakePromotionService
	assignments   *fakeAssignmentService
	notifications *fakeNotificationService
	lock          *fakeLock
	plan          *models.SubscriptionPlan
	user          *models.User
}

func newPurchaseFixture(t *testing.T) *purchaseFixture {
	t.Helper()

	plan := &models.SubscriptionPlan{
		ID:            primitive.NewObjectID(),
		Name:          "Monthly Lunch",
		Category:      models.CategoryHomeChef,
		DurationDays:  30,
		MealCredits:   30,
		SkipCredits:   4,
		Price:         3000,
		LunchEnabled:  true,
		DinnerEnabled: false,
		IsActive:      true,
	}
	user := &models.User{
		ID:        primitive.NewObjectID(),
		FirstName: "Asha",
		LastName:  "Nair",
		Email:     "asha@example.com",
		Phone:     "9876543210",
		UserType:  models.UserTypeCustomer,
		Status:    models.UserStatusActive,
	}

	fixture := &purchaseFixture{
		provider:      &fakePaymentProvider{orderID: "order_test_1"},
		transactions:  newFakeTransactionRepo(),
		workflows:     newFakeWorkflowRepo(),
		subscriptions: newFakeSubscriptionRepo(),
		promos:        &fakePromotionService{},
		assignments:   &fakeAssignmentService{},
		notifications: &fakeNotificationService{},
		lock:          &fakeLock{},
		plan:          plan,
		user:          user,
	}

	zones := &fakeZoneService{result: &AvailabilityResult{
		Available:   true,
		Zone:        &models.LocationZone{ID: primitive.NewObjectID(), Name: "HSR Layout"},
		DeliveryFee: 40,
	}}

	fixture.service = NewPurchaseService(
		fixture.provider,
		&config.PaymentConfig{DefaultProvider: "razorpay", Currency: "INR"},
		fixture.transactions,
		fixture.workflows,
		fixture.subscriptions,
		&fakePlanRepo{plans: map[primitive.ObjectID]*models.SubscriptionPlan{plan.ID: plan}},
		&fakeUserRepo{users: map[primitive.ObjectID]*models.User{user.ID: user}},
		zones,
		fixture.promos,
		fixture.assignments,
		fixture.notifications,
		fixture.lock,
		testLogger(t),
	)
	return fixture
}

func initiateRequest(planID primitive.ObjectID) *validators.PurchaseInitiateRequest {
	return &validators.PurchaseInitiateRequest{
		PlanID: planID.Hex(),
		DeliveryAddress: validators.AddressRequest{
			AddressLine1: "42 2nd Cross, HSR Layout",
			City:         "Bengaluru",
			Pincode:      "560102",
		},
	}
}

func TestPurchaseService_InitiatePurchase_Success(t *testing.T) {
	fixture := newPurchaseFixture(t)
	ctx := context.Background()

	initiation, err := fixture.service.InitiatePurchase(ctx, fixture.user.ID, initiateRequest(fixture.plan.ID))
	require.NoError(t, err)

	assert.Equal(t, 3040.0, initiation.Amount, "plan price plus delivery fee")
	assert.Equal(t, "order_test_1", initiation.GatewayOrderID)
	assert.Equal(t, "razorpay", initiation.GatewayProvider)

	transaction, err := fixture.transactions.GetByID(ctx, initiation.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, transaction.Status)
	assert.Equal(t, 40.0, transaction.DeliveryFee)

	workflow, err := fixture.workflows.GetByID(ctx, initiation.WorkflowID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatusPaymentPending, workflow.Status)
	assert.True(t, workflow.Details.MealTiming.LunchEnabled)
	assert.False(t, workflow.Details.MealTiming.DinnerEnabled)
	assert.False(t, workflow.Details.StartDate.IsZero())
}

func TestPurchaseService_InitiatePurchase_InactivePlan(t *testing.T) {
	fixture := newPurchaseFixture(t)
	fixture.plan.IsActive = false

	_, err := fixture.service.InitiatePurchase(context.Background(), fixture.user.ID, initiateRequest(fixture.plan.ID))
	assert.ErrorIs(t, err, ErrPlanNotAvailable)
}

func TestPurchaseService_InitiatePurchase_MealSlotNotOnPlan(t *testing.T) {
	fixture := newPurchaseFixture(t)

	request := initiateRequest(fixture.plan.ID)
	request.MealTimings = []validators.MealTimingRequest{{Slot: "dinner"}}

	_, err := fixture.service.InitiatePurchase(context.Background(), fixture.user.ID, request)
	assert.ErrorIs(t, err, ErrMealSlotNotOnPlan)
}

func TestPurchaseService_InitiatePurchase_PromoApplied(t *testing.T) {
	fixture := newPurchaseFixture(t)
	promo := &models.Promotion{ID: primitive.NewObjectID(), Code: "WELCOME20"}
	fixture.promos.application = &PromoApplication{Promotion: promo, Discount: 500}

	request := initiateRequest(fixture.plan.ID)
	request.PromoCode = "WELCOME20"

	initiation, err := fixture.service.InitiatePurchase(context.Background(), fixture.user.ID, request)
	require.NoError(t, err)

	assert.Equal(t, 2540.0, initiation.Amount)
	assert.Equal(t, 500.0, initiation.Discount)

	transaction, err := fixture.transactions.GetByID(context.Background(), initiation.TransactionID)
	require.NoError(t, err)
	require.NotNil(t, transaction.PromotionID)
	assert.Equal(t, promo.ID, *transaction.PromotionID)
}

func verifyRequest(orderID string) *validators.PurchaseVerifyRequest {
	return &validators.PurchaseVerifyRequest{
		GatewayOrderID:   orderID,
		GatewayPaymentID: "pay_test_1",
		Signature:        "sig",
	}
}

func TestPurchaseService_VerifyPayment_CompletesWorkflow(t *testing.T) {
	fixture := newPurchaseFixture(t)
	ctx := context.Background()

	initiation, err := fixture.service.InitiatePurchase(ctx, fixture.user.ID, initiateRequest(fixture.plan.ID))
	require.NoError(t, err)

	fixture.provider.details = &payment.PaymentDetails{
		PaymentID: "pay_test_1",
		OrderID:   initiation.GatewayOrderID,
		Status:    payment.StatusCaptured,
	}

	workflow, err := fixture.service.VerifyPayment(ctx, fixture.user.ID, verifyRequest(initiation.GatewayOrderID))
	require.NoError(t, err)

	assert.Equal(t, models.WorkflowStatusCompleted, workflow.Status)
	assert.True(t, workflow.IsStepDone(models.StepPaymentCaptured))
	assert.True(t, workflow.IsStepDone(models.StepSubscriptionCreated))
	assert.True(t, workflow.IsStepDone(models.StepAssignmentRequested))
	assert.True(t, workflow.IsStepDone(models.StepNotificationsSent))

	transaction, err := fixture.transactions.GetByID(ctx, initiation.TransactionID)
	require.NoError(t, err)
	assert.True(t, transaction.IsPaid())
	assert.Equal(t, "pay_test_1", transaction.GatewayPaymentID)

	subscription, err := fixture.subscriptions.GetByTransaction(ctx, initiation.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusActive, subscription.Status)
	assert.Equal(t, 30, subscription.CreditsGranted)
	assert.Equal(t, 4, subscription.SkipCreditAvailable)
	assert.Equal(t, 3040.0, subscription.AmountPaid)
	assert.Equal(t, subscription.StartDate.AddDate(0, 0, 30), subscription.EndDate)

	require.Len(t, fixture.assignments.requests, 1)
	assert.Equal(t, models.AssignmentTypeInitial, fixture.assignments.requests[0].RequestType)
	assert.Equal(t, models.VendorTypeHomeChef, fixture.assignments.requests[0].PreferredVendorType)
	assert.Equal(t, 1, fixture.notifications.confirmations)
	assert.Empty(t, fixture.lock.held, "verification lock must be released")
}

func TestPurchaseService_VerifyPayment_WrongUser(t *testing.T) {
	fixture := newPurchaseFixture(t)
	ctx := context.Background()

	initiation, err := fixture.service.InitiatePurchase(ctx, fixture.user.ID, initiateRequest(fixture.plan.ID))
	require.NoError(t, err)

	_, err = fixture.service.VerifyPayment(ctx, primitive.NewObjectID(), verifyRequest(initiation.GatewayOrderID))
	assert.ErrorIs(t, err, ErrNotTransactionOwner)
}

func TestPurchaseService_VerifyPayment_BadSignature(t *testing.T) {
	fixture := newPurchaseFixture(t)
	ctx := context.Background()

	initiation, err := fixture.service.InitiatePurchase(ctx, fixture.user.ID, initiateRequest(fixture.plan.ID))
	require.NoError(t, err)

	fixture.provider.signatureErr = errors.New("signature mismatch")

	_, err = fixture.service.VerifyPayment(ctx, fixture.user.ID, verifyRequest(initiation.GatewayOrderID))
	require.Error(t, err)

	transaction, err := fixture.transactions.GetByID(ctx, initiation.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusFailed, transaction.Status)
}

func TestPurchaseService_VerifyPayment_NotCaptured(t *testing.T) {
	fixture := newPurchaseFixture(t)
	ctx := context.Background()

	initiation, err := fixture.service.InitiatePurchase(ctx, fixture.user.ID, initiateRequest(fixture.plan.ID))
	require.NoError(t, err)

	fixture.provider.details = &payment.PaymentDetails{
		PaymentID: "pay_test_1",
		OrderID:   initiation.GatewayOrderID,
		Status:    payment.StatusAuthorized,
	}

	_, err = fixture.service.VerifyPayment(ctx, fixture.user.ID, verifyRequest(initiation.GatewayOrderID))
	assert.ErrorIs(t, err, ErrPaymentNotCaptured)
	assert.Equal(t, 0, fixture.subscriptions.creates)
}

func TestPurchaseService_VerifyPayment_LockHeld(t *testing.T) {
	fixture := newPurchaseFixture(t)
	ctx := context.Background()

	initiation, err := fixture.service.InitiatePurchase(ctx, fixture.user.ID, initiateRequest(fixture.plan.ID))
	require.NoError(t, err)

	_, err = fixture.lock.SetNX(ctx, utils.CachePurchaseLockPrefix+initiation.GatewayOrderID, 1, time.Minute)
	require.NoError(t, err)

	_, err = fixture.service.VerifyPayment(ctx, fixture.user.ID, verifyRequest(initiation.GatewayOrderID))
	assert.ErrorIs(t, err, ErrVerificationInProgress)
}

func TestPurchaseService_VerifyPayment_Idempotent(t *testing.T) {
	fixture := newPurchaseFixture(t)
	ctx := context.Background()

	initiation, err := fixture.service.InitiatePurchase(ctx, fixture.user.ID, initiateRequest(fixture.plan.ID))
	require.NoError(t, err)

	fixture.provider.details = &payment.PaymentDetails{
		PaymentID: "pay_test_1",
		OrderID:   initiation.GatewayOrderID,
		Status:    payment.StatusCaptured,
	}

	_, err = fixture.service.VerifyPayment(ctx, fixture.user.ID, verifyRequest(initiation.GatewayOrderID))
	require.NoError(t, err)
	_, err = fixture.service.VerifyPayment(ctx, fixture.user.ID, verifyRequest(initiation.GatewayOrderID))
	require.NoError(t, err)

	assert.Equal(t, 1, fixture.subscriptions.creates, "subscription must be created exactly once")
	assert.Len(t, fixture.assignments.requests, 1)
}

func TestPurchaseService_HandleWebhook_RazorpayCapture(t *testing.T) {
	fixture := newPurchaseFixture(t)
	ctx := context.Background()

	initiation, err := fixture.service.InitiatePurchase(ctx, fixture.user.ID, initiateRequest(fixture.plan.ID))
	require.NoError(t, err)

	fixture.provider.details = &payment.PaymentDetails{
		PaymentID: "pay_test_1",
		OrderID:   initiation.GatewayOrderID,
		Status:    payment.StatusCaptured,
	}
	fixture.provider.webhookEvent = &payment.WebhookEvent{
		EventID:   "evt_1",
		EventType: "payment.captured",
		Data: map[string]interface{}{
			"payload": map[string]interface{}{
				"payment": map[string]interface{}{
					"entity": map[string]interface{}{
						"id":       "pay_test_1",
						"order_id": initiation.GatewayOrderID,
					},
				},
			},
		},
	}

	require.NoError(t, fixture.service.HandleWebhook(ctx, []byte("{}"), "sig"))

	workflow, err := fixture.workflows.GetByGatewayOrderID(ctx, initiation.GatewayOrderID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatusCompleted, workflow.Status)
}

func TestPurchaseService_HandleWebhook_IgnoresOtherEvents(t *testing.T) {
	fixture := newPurchaseFixture(t)
	fixture.provider.webhookEvent = &payment.WebhookEvent{
		EventID:   "evt_2",
		EventType: "refund.created",
		Data:      map[string]interface{}{},
	}

	require.NoError(t, fixture.service.HandleWebhook(context.Background(), []byte("{}"), "sig"))
	assert.Equal(t, 0, fixture.subscriptions.creates)
}

func TestPurchaseService_ResumeIncomplete(t *testing.T) {
	fixture := newPurchaseFixture(t)
	ctx := context.Background()

	initiation, err := fixture.service.InitiatePurchase(ctx, fixture.user.ID, initiateRequest(fixture.plan.ID))
	require.NoError(t, err)

	// Simulate a crash after payment capture but before the remaining steps.
	transaction, err := fixture.transactions.GetByID(ctx, initiation.TransactionID)
	require.NoError(t, err)
	transaction.MarkAsPaid("pay_test_1")
	require.NoError(t, fixture.transactions.Save(ctx, transaction))

	workflow, err := fixture.workflows.GetByID(ctx, initiation.WorkflowID)
	require.NoError(t, err)
	workflow.MarkStepDone(models.StepPaymentCaptured)
	require.NoError(t, fixture.workflows.Save(ctx, workflow))

	resumed, err := fixture.service.ResumeIncomplete(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, resumed)

	workflow, err = fixture.workflows.GetByID(ctx, initiation.WorkflowID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatusCompleted, workflow.Status)
	assert.Equal(t, 1, fixture.subscriptions.creates)
}

func TestPurchaseService_ResumeIncomplete_SkipsUnpaid(t *testing.T) {
	fixture := newPurchaseFixture(t)
	ctx := context.Background()

	_, err := fixture.service.InitiatePurchase(ctx, fixture.user.ID, initiateRequest(fixture.plan.ID))
	require.NoError(t, err)

	resumed, err := fixture.service.ResumeIncomplete(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, resumed)
	assert.Equal(t, 0, fixture.subscriptions.creates)
}

func TestPurchaseService_RefundPurchase(t *testing.T) {
	fixture := newPurchaseFixture(t)
	ctx := context.Background()

	initiation, err := fixture.service.InitiatePurchase(ctx, fixture.user.ID, initiateRequest(fixture.plan.ID))
	require.NoError(t, err)

	fixture.provider.details = &payment.PaymentDetails{
		PaymentID: "pay_test_1",
		OrderID:   initiation.GatewayOrderID,
		Status:    payment.StatusCaptured,
	}
	_, err = fixture.service.VerifyPayment(ctx, fixture.user.ID, verifyRequest(initiation.GatewayOrderID))
	require.NoError(t, err)

	transaction, err := fixture.service.RefundPurchase(ctx, initiation.TransactionID, "quality complaint")
	require.NoError(t, err)

	assert.Equal(t, models.TransactionStatusRefunded, transaction.Status)
	require.Len(t, fixture.provider.refunds, 1)
	assert.Equal(t, "pay_test_1", fixture.provider.refunds[0].PaymentID)

	subscription, err := fixture.subscriptions.GetByTransaction(ctx, initiation.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusCancelled, subscription.Status)
}

func TestPurchaseService_RefundPurchase_NotRefundable(t *testing.T) {
	fixture := newPurchaseFixture(t)
	ctx := context.Background()

	initiation, err := fixture.service.InitiatePurchase(ctx, fixture.user.ID, initiateRequest(fixture.plan.ID))
	require.NoError(t, err)

	_, err = fixture.service.RefundPurchase(ctx, initiation.TransactionID, "changed mind")
	assert.ErrorIs(t, err, ErrTransactionNotRefundable)
}
