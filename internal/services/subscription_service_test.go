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

func (s *fakeNotificationService) SendSkipConfirmation(ctx context.Context, user *models.User, subscription *models.UserSubscription) error {
	s.skips++
	return nil
}

func (s *fakeNotificationService) SendCancellation(ctx context.Context, user *models.User, subscription *models.UserSubscription) error {
	s.cancellations++
	return nil
}

type fakeSubscriptionStore struct {
	interfaces.UserSubscriptionRepository
	byID  map[primitive.ObjectID]*models.UserSubscription
	saves int
}

func newFakeSubscriptionStore(subscriptions ...*models.UserSubscription) *fakeSubscriptionStore {
	store := &fakeSubscriptionStore{byID: make(map[primitive.ObjectID]*models.UserSubscription)}
	for _, subscription := range subscriptions {
		store.byID[subscription.ID] = subscription
	}
	return store
}

func (r *fakeSubscriptionStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.UserSubscription, error) {
	subscription, ok := r.byID[id]
	if !ok {
		return nil, errors.New("subscription not found")
	}
	return subscription, nil
}

func (r *fakeSubscriptionStore) Save(ctx context.Context, subscription *models.UserSubscription) error {
	r.saves++
	r.byID[subscription.ID] = subscription
	return nil
}

func (r *fakeSubscriptionStore) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	var swept int64
	for _, subscription := range r.byID {
		if subscription.Status == models.SubscriptionStatusActive && now.After(subscription.EndDate) {
			subscription.Status = models.SubscriptionStatusExpired
			swept++
		}
	}
	return swept, nil
}

type subscriptionFixture struct {
	service       SubscriptionService
	store         *fakeSubscriptionStore
	assignments   *fakeAssignmentService
	notifications *fakeNotificationService
	subscription  *models.UserSubscription
	user          *models.User
}

func newSubscriptionFixture(t *testing.T) *subscriptionFixture {
	t.Helper()

	user := &models.User{
		ID:        primitive.NewObjectID(),
		FirstName: "Ravi",
		Email:     "ravi@example.com",
		UserType:  models.UserTypeCustomer,
		Status:    models.UserStatusActive,
	}
	subscription := &models.UserSubscription{
		ID:                  primitive.NewObjectID(),
		UserID:              user.ID,
		PlanID:              primitive.NewObjectID(),
		Status:              models.SubscriptionStatusActive,
		CreditsGranted:      30,
		SkipCreditAvailable: 4,
		StartDate:           time.Now().AddDate(0, 0, -2),
		EndDate:             time.Now().AddDate(0, 0, 28),
	}

	fixture := &subscriptionFixture{
		store:         newFakeSubscriptionStore(subscription),
		assignments:   &fakeAssignmentService{},
		notifications: &fakeNotificationService{},
		subscription:  subscription,
		user:          user,
	}
	fixture.service = NewSubscriptionService(
		fixture.store,
		&fakeUserRepo{users: map[primitive.ObjectID]*models.User{user.ID: user}},
		fixture.assignments,
		fixture.notifications,
		testLogger(t),
	)
	return fixture
}

func TestSubscriptionService_GetSubscription_OwnershipEnforced(t *testing.T) {
	fixture := newSubscriptionFixture(t)

	_, err := fixture.service.GetSubscription(context.Background(), fixture.subscription.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotSubscriptionOwner)

	subscription, err := fixture.service.GetSubscription(context.Background(), fixture.subscription.ID, fixture.user.ID)
	require.NoError(t, err)
	assert.Equal(t, fixture.subscription.ID, subscription.ID)
}

func TestSubscriptionService_UseCredits(t *testing.T) {
	fixture := newSubscriptionFixture(t)

	subscription, err := fixture.service.UseCredits(context.Background(), fixture.subscription.ID, fixture.user.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, subscription.CreditsUsed)
	assert.Equal(t, 1, fixture.store.saves)
}

func TestSubscriptionService_UseCredits_InsufficientNotSaved(t *testing.T) {
	fixture := newSubscriptionFixture(t)
	fixture.subscription.CreditsUsed = 30

	_, err := fixture.service.UseCredits(context.Background(), fixture.subscription.ID, fixture.user.ID, 1)
	assert.ErrorIs(t, err, models.ErrInsufficientCredits)
	assert.Equal(t, 0, fixture.store.saves)
}

func TestSubscriptionService_SkipMeal(t *testing.T) {
	fixture := newSubscriptionFixture(t)

	subscription, err := fixture.service.SkipMeal(context.Background(), fixture.subscription.ID, fixture.user.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, subscription.SkipCreditAvailable)
	assert.Equal(t, 1, subscription.SkipCreditUsed)
	assert.Equal(t, 1, fixture.notifications.skips)
}

func TestSubscriptionService_RequestVendorSwitch(t *testing.T) {
	fixture := newSubscriptionFixture(t)
	fixture.subscription.AssignVendor(primitive.NewObjectID(), models.VendorTypeHomeChef, primitive.NewObjectID())

	request, err := fixture.service.RequestVendorSwitch(context.Background(), fixture.subscription.ID, fixture.user.ID, "food too spicy")
	require.NoError(t, err)

	assert.Equal(t, models.AssignmentTypeSwitch, request.RequestType)
	assert.Equal(t, models.AssignmentReasonCustomerRequest, request.Reason)
	assert.Equal(t, models.VendorTypeHomeChef, request.PreferredVendorType)
	assert.True(t, fixture.subscription.VendorSwitchUsed)

	_, err = fixture.service.RequestVendorSwitch(context.Background(), fixture.subscription.ID, fixture.user.ID, "again")
	assert.ErrorIs(t, err, models.ErrVendorSwitchUsed)
}

func TestSubscriptionService_RequestVendorSwitch_NoVendorAssigned(t *testing.T) {
	fixture := newSubscriptionFixture(t)

	_, err := fixture.service.RequestVendorSwitch(context.Background(), fixture.subscription.ID, fixture.user.ID, "want a change")
	assert.ErrorIs(t, err, models.ErrVendorSwitchUsed)
	assert.Empty(t, fixture.assignments.requests)
}

func TestSubscriptionService_CancelSubscription(t *testing.T) {
	fixture := newSubscriptionFixture(t)

	subscription, err := fixture.service.CancelSubscription(context.Background(), fixture.subscription.ID, fixture.user.ID, "relocating")
	require.NoError(t, err)

	assert.Equal(t, models.SubscriptionStatusCancelled, subscription.Status)
	assert.Equal(t, "relocating", subscription.CancelReason)
	assert.Equal(t, 1, fixture.notifications.cancellations)

	_, err = fixture.service.CancelSubscription(context.Background(), fixture.subscription.ID, fixture.user.ID, "twice")
	assert.ErrorIs(t, err, models.ErrSubscriptionNotActive)
}

func TestSubscriptionService_SweepExpired(t *testing.T) {
	fixture := newSubscriptionFixture(t)
	expired := &models.UserSubscription{
		ID:      primitive.NewObjectID(),
		UserID:  fixture.user.ID,
		Status:  models.SubscriptionStatusActive,
		EndDate: time.Now().AddDate(0, 0, -1),
	}
	fixture.store.byID[expired.ID] = expired

	swept, err := fixture.service.SweepExpired(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), swept)
	assert.Equal(t, models.SubscriptionStatusExpired, expired.Status)
	assert.Equal(t, models.SubscriptionStatusActive, fixture.subscription.Status)
}
