package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tiffinhub/internal/models"
	"tiffinhub/internal/repositories/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *fakeNotificationService) SendVendorAssigned(ctx context.Context, user *models.User, subscription *models.UserSubscription, vendorName string) error {
	s.vendorsAssigned++
	return nil
}

type fakeAssignmentRepo struct {
	interfaces.VendorAssignmentRepository
	byID map[primitive.ObjectID]*models.VendorAssignmentRequest
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{byID: make(map[primitive.ObjectID]*models.VendorAssignmentRequest)}
}

func (r *fakeAssignmentRepo) Create(ctx context.Context, request *models.VendorAssignmentRequest) error {
	if request.ID.IsZero() {
		request.ID = primitive.NewObjectID()
	}
	r.byID[request.ID] = request
	return nil
}

func (r *fakeAssignmentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.VendorAssignmentRequest, error) {
	request, ok := r.byID[id]
	if !ok {
		return nil, errors.New("assignment request not found")
	}
	return request, nil
}

func (r *fakeAssignmentRepo) Save(ctx context.Context, request *models.VendorAssignmentRequest) error {
	r.byID[request.ID] = request
	return nil
}

func (r *fakeAssignmentRepo) GetPendingBySubscription(ctx context.Context, subscriptionID primitive.ObjectID) (*models.VendorAssignmentRequest, error) {
	for _, request := range r.byID {
		if request.SubscriptionID == subscriptionID && request.Status == models.AssignmentStatusPending {
			return request, nil
		}
	}
	return nil, errors.New("no pending request")
}

type fakeVendorRepo struct {
	interfaces.VendorRepository
	byID map[primitive.ObjectID]*models.Vendor
}

func (r *fakeVendorRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vendor, error) {
	vendor, ok := r.byID[id]
	if !ok {
		return nil, errors.New("vendor not found")
	}
	return vendor, nil
}

func (r *fakeVendorRepo) ListActiveByZone(ctx context.Context, zoneID primitive.ObjectID, vendorType models.VendorType) ([]*models.Vendor, error) {
	var out []*models.Vendor
	for _, vendor := range r.byID {
		if !vendor.IsActive || vendor.ZoneID != zoneID {
			continue
		}
		if vendorType != "" && vendor.VendorType != vendorType {
			continue
		}
		out = append(out, vendor)
	}
	return out, nil
}

type assignmentFixture struct {
	service       AssignmentService
	requests      *fakeAssignmentRepo
	vendors       *fakeVendorRepo
	store         *fakeSubscriptionStore
	notifications *fakeNotificationService
	subscription  *models.UserSubscription
	vendor        *models.Vendor
	admin         primitive.ObjectID
}

func newAssignmentFixture(t *testing.T) *assignmentFixture {
	t.Helper()

	zoneID := primitive.NewObjectID()
	user := &models.User{
		ID:       primitive.NewObjectID(),
		Email:    "meena@example.com",
		UserType: models.UserTypeCustomer,
		Status:   models.UserStatusActive,
	}
	subscription := &models.UserSubscription{
		ID:        primitive.NewObjectID(),
		UserID:    user.ID,
		ZoneID:    zoneID,
		Status:    models.SubscriptionStatusActive,
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 1, 0),
	}
	vendor := &models.Vendor{
		ID:           primitive.NewObjectID(),
		BusinessName: "Amma's Kitchen",
		VendorType:   models.VendorTypeHomeChef,
		ZoneID:       zoneID,
		IsActive:     true,
	}

	fixture := &assignmentFixture{
		requests:      newFakeAssignmentRepo(),
		vendors:       &fakeVendorRepo{byID: map[primitive.ObjectID]*models.Vendor{vendor.ID: vendor}},
		store:         newFakeSubscriptionStore(subscription),
		notifications: &fakeNotificationService{},
		subscription:  subscription,
		vendor:        vendor,
		admin:         primitive.NewObjectID(),
	}
	fixture.service = NewAssignmentService(
		fixture.requests,
		fixture.store,
		fixture.vendors,
		&fakeUserRepo{users: map[primitive.ObjectID]*models.User{user.ID: user}},
		fixture.notifications,
		testLogger(t),
	)
	return fixture
}

func TestAssignmentService_CreateRequest_DefaultPriority(t *testing.T) {
	fixture := newAssignmentFixture(t)

	request, err := fixture.service.CreateRequest(context.Background(), fixture.subscription, models.AssignmentTypeInitial, models.AssignmentReasonNewSubscription, models.VendorTypeHomeChef)
	require.NoError(t, err)

	assert.Equal(t, models.AssignmentStatusPending, request.Status)
	assert.Equal(t, models.AssignmentPriorityHigh, request.Priority)
	assert.Equal(t, 30, request.PriorityWeight)
}

func TestAssignmentService_CreateRequest_DeduplicatesPending(t *testing.T) {
	fixture := newAssignmentFixture(t)
	ctx := context.Background()

	first, err := fixture.service.CreateRequest(ctx, fixture.subscription, models.AssignmentTypeInitial, models.AssignmentReasonNewSubscription, "")
	require.NoError(t, err)

	second, err := fixture.service.CreateRequest(ctx, fixture.subscription, models.AssignmentTypeSwitch, models.AssignmentReasonCustomerRequest, "")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, fixture.requests.byID, 1)
}

func TestAssignmentService_Approve(t *testing.T) {
	fixture := newAssignmentFixture(t)
	ctx := context.Background()

	request, err := fixture.service.CreateRequest(ctx, fixture.subscription, models.AssignmentTypeInitial, models.AssignmentReasonNewSubscription, models.VendorTypeHomeChef)
	require.NoError(t, err)

	approved, err := fixture.service.Approve(ctx, request.ID, fixture.vendor.ID, fixture.admin, "closest home chef")
	require.NoError(t, err)

	assert.Equal(t, models.AssignmentStatusApproved, approved.Status)
	require.NotNil(t, approved.AssignedVendorID)
	assert.Equal(t, fixture.vendor.ID, *approved.AssignedVendorID)

	require.NotNil(t, fixture.subscription.CurrentVendor)
	assert.Equal(t, fixture.vendor.ID, fixture.subscription.CurrentVendor.VendorID)
	assert.Equal(t, fixture.admin, fixture.subscription.CurrentVendor.AssignedBy)
	assert.Equal(t, 1, fixture.notifications.vendorsAssigned)

	_, err = fixture.service.Approve(ctx, request.ID, fixture.vendor.ID, fixture.admin, "again")
	assert.ErrorIs(t, err, ErrAssignmentAlreadyProcessed)
}

func TestAssignmentService_Approve_VendorWrongZone(t *testing.T) {
	fixture := newAssignmentFixture(t)
	ctx := context.Background()
	fixture.vendor.ZoneID = primitive.NewObjectID()

	request, err := fixture.service.CreateRequest(ctx, fixture.subscription, models.AssignmentTypeInitial, models.AssignmentReasonNewSubscription, "")
	require.NoError(t, err)

	_, err = fixture.service.Approve(ctx, request.ID, fixture.vendor.ID, fixture.admin, "")
	assert.ErrorIs(t, err, ErrVendorNotEligible)
	assert.Nil(t, fixture.subscription.CurrentVendor)
}

func TestAssignmentService_Approve_VendorTypeMismatch(t *testing.T) {
	fixture := newAssignmentFixture(t)
	ctx := context.Background()

	request, err := fixture.service.CreateRequest(ctx, fixture.subscription, models.AssignmentTypeInitial, models.AssignmentReasonNewSubscription, models.VendorTypeFoodVendor)
	require.NoError(t, err)

	_, err = fixture.service.Approve(ctx, request.ID, fixture.vendor.ID, fixture.admin, "")
	assert.ErrorIs(t, err, ErrVendorNotEligible)
}

func TestAssignmentService_Approve_RejectsCurrentVendor(t *testing.T) {
	fixture := newAssignmentFixture(t)
	ctx := context.Background()
	fixture.subscription.AssignVendor(fixture.vendor.ID, fixture.vendor.VendorType, fixture.admin)

	request, err := fixture.service.CreateRequest(ctx, fixture.subscription, models.AssignmentTypeSwitch, models.AssignmentReasonCustomerRequest, "")
	require.NoError(t, err)

	_, err = fixture.service.Approve(ctx, request.ID, fixture.vendor.ID, fixture.admin, "")
	assert.ErrorIs(t, err, ErrVendorNotEligible)
}

func TestAssignmentService_Reject(t *testing.T) {
	fixture := newAssignmentFixture(t)
	ctx := context.Background()

	request, err := fixture.service.CreateRequest(ctx, fixture.subscription, models.AssignmentTypeInitial, models.AssignmentReasonNewSubscription, "")
	require.NoError(t, err)

	rejected, err := fixture.service.Reject(ctx, request.ID, fixture.admin, "no capacity this week")
	require.NoError(t, err)

	assert.Equal(t, models.AssignmentStatusRejected, rejected.Status)
	assert.Equal(t, "no capacity this week", rejected.AdminNote)
	assert.Nil(t, fixture.subscription.CurrentVendor)
}

func TestAssignmentService_Complete_OnlyApproved(t *testing.T) {
	fixture := newAssignmentFixture(t)
	ctx := context.Background()

	request, err := fixture.service.CreateRequest(ctx, fixture.subscription, models.AssignmentTypeInitial, models.AssignmentReasonNewSubscription, "")
	require.NoError(t, err)

	_, err = fixture.service.Complete(ctx, request.ID, fixture.admin)
	require.Error(t, err)

	_, err = fixture.service.Approve(ctx, request.ID, fixture.vendor.ID, fixture.admin, "")
	require.NoError(t, err)

	completed, err := fixture.service.Complete(ctx, request.ID, fixture.admin)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusCompleted, completed.Status)
}

func TestAssignmentService_SetPriority(t *testing.T) {
	fixture := newAssignmentFixture(t)
	ctx := context.Background()

	request, err := fixture.service.CreateRequest(ctx, fixture.subscription, models.AssignmentTypeSwitch, models.AssignmentReasonCustomerRequest, "")
	require.NoError(t, err)
	require.Equal(t, models.AssignmentPriorityMedium, request.Priority)

	require.NoError(t, fixture.service.SetPriority(ctx, request.ID, models.AssignmentPriorityUrgent))
	assert.Equal(t, models.AssignmentPriorityUrgent, request.Priority)
	assert.Equal(t, 40, request.PriorityWeight)

	_, err = fixture.service.Reject(ctx, request.ID, fixture.admin, "stale")
	require.NoError(t, err)
	assert.ErrorIs(t, fixture.service.SetPriority(ctx, request.ID, models.AssignmentPriorityLow), ErrAssignmentAlreadyProcessed)
}

func TestAssignmentService_EligibleVendors(t *testing.T) {
	fixture := newAssignmentFixture(t)
	ctx := context.Background()

	otherType := &models.Vendor{
		ID:           primitive.NewObjectID(),
		BusinessName: "Tiffin Express",
		VendorType:   models.VendorTypeFoodVendor,
		ZoneID:       fixture.subscription.ZoneID,
		IsActive:     true,
	}
	fixture.vendors.byID[otherType.ID] = otherType

	request, err := fixture.service.CreateRequest(ctx, fixture.subscription, models.AssignmentTypeInitial, models.AssignmentReasonNewSubscription, models.VendorTypeHomeChef)
	require.NoError(t, err)

	eligible, err := fixture.service.EligibleVendors(ctx, request.ID)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, fixture.vendor.ID, eligible[0].ID)
}
