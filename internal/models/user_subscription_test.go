package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func activeSubscription() *UserSubscription {
	return &UserSubscription{
		ID:                  primitive.NewObjectID(),
		UserID:              primitive.NewObjectID(),
		PlanID:              primitive.NewObjectID(),
		Status:              SubscriptionStatusActive,
		CreditsGranted:      30,
		SkipCreditAvailable: 4,
		StartDate:           time.Now().AddDate(0, 0, -5),
		EndDate:             time.Now().AddDate(0, 0, 25),
	}
}

func TestUserSubscription_UseCredits_Success(t *testing.T) {
	sub := activeSubscription()

	err := sub.UseCredits(2)
	require.NoError(t, err)
	assert.Equal(t, 2, sub.CreditsUsed)
	assert.Equal(t, 28, sub.GetRemainingCredits())
}

func TestUserSubscription_UseCredits_Insufficient(t *testing.T) {
	sub := activeSubscription()
	sub.CreditsUsed = 29

	err := sub.UseCredits(2)
	assert.ErrorIs(t, err, ErrInsufficientCredits)
	assert.Equal(t, 29, sub.CreditsUsed, "failed use must not mutate state")
}

func TestUserSubscription_UseCredits_NotActive(t *testing.T) {
	sub := activeSubscription()
	sub.Status = SubscriptionStatusCancelled

	err := sub.UseCredits(1)
	assert.ErrorIs(t, err, ErrSubscriptionNotActive)
}

func TestUserSubscription_UseCredits_Expired(t *testing.T) {
	sub := activeSubscription()
	sub.EndDate = time.Now().AddDate(0, 0, -1)

	err := sub.UseCredits(1)
	assert.ErrorIs(t, err, ErrSubscriptionNotActive)
}

func TestUserSubscription_SkipMeal_ExtendsEveryOtherSkip(t *testing.T) {
	sub := activeSubscription()
	sub.SkipCreditAvailable = 3
	end := sub.EndDate

	require.NoError(t, sub.SkipMeal())
	assert.Equal(t, end, sub.EndDate, "first skip alone must not extend")

	require.NoError(t, sub.SkipMeal())
	assert.Equal(t, end.AddDate(0, 0, 1), sub.EndDate, "second skip extends by one day")

	require.NoError(t, sub.SkipMeal())
	assert.Equal(t, end.AddDate(0, 0, 1), sub.EndDate, "third skip leaves the extension unchanged")

	assert.Equal(t, 0, sub.SkipCreditAvailable)
	assert.Equal(t, 3, sub.SkipCreditUsed)
}

func TestUserSubscription_SkipMeal_NoCredits(t *testing.T) {
	sub := activeSubscription()
	sub.SkipCreditAvailable = 0

	err := sub.SkipMeal()
	assert.ErrorIs(t, err, ErrNoSkipCredits)
}

func TestUserSubscription_AssignVendor_ArchivesPrevious(t *testing.T) {
	sub := activeSubscription()
	admin := primitive.NewObjectID()
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	sub.AssignVendor(first, VendorTypeFoodVendor, admin)
	require.NotNil(t, sub.CurrentVendor)
	assert.Equal(t, first, sub.CurrentVendor.VendorID)
	assert.Empty(t, sub.VendorsAssignedHistory)

	sub.AssignVendor(second, VendorTypeHomeChef, admin)
	assert.Equal(t, second, sub.CurrentVendor.VendorID)
	require.Len(t, sub.VendorsAssignedHistory, 1)
	assert.Equal(t, first, sub.VendorsAssignedHistory[0].VendorID)
	assert.Equal(t, DeassignReasonAdminReassignment, sub.VendorsAssignedHistory[0].Reason)
}

func TestUserSubscription_AssignVendor_SwitchReason(t *testing.T) {
	sub := activeSubscription()
	admin := primitive.NewObjectID()

	sub.AssignVendor(primitive.NewObjectID(), VendorTypeFoodVendor, admin)
	require.NoError(t, sub.UseVendorSwitch())
	sub.AssignVendor(primitive.NewObjectID(), VendorTypeFoodVendor, admin)

	require.Len(t, sub.VendorsAssignedHistory, 1)
	assert.Equal(t, DeassignReasonVendorSwitch, sub.VendorsAssignedHistory[0].Reason)
}

func TestUserSubscription_UseVendorSwitch_OnlyOnce(t *testing.T) {
	sub := activeSubscription()
	sub.AssignVendor(primitive.NewObjectID(), VendorTypeFoodVendor, primitive.NewObjectID())

	require.True(t, sub.CanSwitchVendor())
	require.NoError(t, sub.UseVendorSwitch())

	assert.False(t, sub.CanSwitchVendor())
	assert.ErrorIs(t, sub.UseVendorSwitch(), ErrVendorSwitchUsed)
}

func TestUserSubscription_CanSwitchVendor_RequiresAssignedVendor(t *testing.T) {
	sub := activeSubscription()
	assert.False(t, sub.CanSwitchVendor())
}

func TestUserSubscription_GetDaysRemaining(t *testing.T) {
	sub := activeSubscription()
	sub.EndDate = time.Now().Add(36 * time.Hour)
	assert.Equal(t, 2, sub.GetDaysRemaining(), "partial days round up")

	sub.EndDate = time.Now().AddDate(0, 0, -3)
	assert.Negative(t, sub.GetDaysRemaining())
}

func TestUserSubscription_Cancel(t *testing.T) {
	sub := activeSubscription()
	sub.Cancel("moving out of the city")

	assert.Equal(t, SubscriptionStatusCancelled, sub.Status)
	require.NotNil(t, sub.CancelledAt)
	assert.Equal(t, "moving out of the city", sub.CancelReason)
	assert.False(t, sub.IsActive())
}
