package models

import (
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubscriptionStatus string
type DeassignReason string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCompleted SubscriptionStatus = "completed"

	DeassignReasonVendorSwitch      DeassignReason = "vendor_switch"
	DeassignReasonAdminReassignment DeassignReason = "admin_reassignment"
)

var (
	ErrSubscriptionNotActive = errors.New("subscription is not active")
	ErrInsufficientCredits   = errors.New("insufficient meal credits")
	ErrNoSkipCredits         = errors.New("no skip credits available")
	ErrVendorSwitchUsed      = errors.New("vendor switch already used")
)

// MealTiming holds which meals the subscriber receives and at what time.
type MealTiming struct {
	LunchEnabled  bool   `json:"lunch_enabled" bson:"lunch_enabled"`
	LunchTime     string `json:"lunch_time" bson:"lunch_time"`
	DinnerEnabled bool   `json:"dinner_enabled" bson:"dinner_enabled"`
	DinnerTime    string `json:"dinner_time" bson:"dinner_time"`
}

// VendorAssignment is the currently assigned vendor for a subscription.
type VendorAssignment struct {
	VendorID   primitive.ObjectID `json:"vendor_id" bson:"vendor_id"`
	VendorType VendorType         `json:"vendor_type" bson:"vendor_type"`
	AssignedBy primitive.ObjectID `json:"assigned_by" bson:"assigned_by"`
	AssignedAt time.Time          `json:"assigned_at" bson:"assigned_at"`
}

// VendorHistoryEntry archives a past assignment when a vendor is replaced.
type VendorHistoryEntry struct {
	VendorAssignment `bson:",inline"`
	DeassignedAt     time.Time      `json:"deassigned_at" bson:"deassigned_at"`
	Reason           DeassignReason `json:"reason" bson:"reason"`
}

type DeliveryAddress struct {
	Line1       string    `json:"line1" bson:"line1"`
	Line2       string    `json:"line2,omitempty" bson:"line2,omitempty"`
	City        string    `json:"city" bson:"city"`
	State       string    `json:"state" bson:"state"`
	ZipCode     string    `json:"zip_code" bson:"zip_code"`
	Coordinates *GeoPoint `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
}

type UserSubscription struct {
	ID                     primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	UserID                 primitive.ObjectID   `json:"user_id" bson:"user_id" validate:"required"`
	PlanID                 primitive.ObjectID   `json:"plan_id" bson:"plan_id" validate:"required"`
	TransactionID          primitive.ObjectID   `json:"transaction_id" bson:"transaction_id"`
	ZoneID                 primitive.ObjectID   `json:"zone_id" bson:"zone_id"`
	Category               SubscriptionCategory `json:"category" bson:"category"`
	CreditsGranted         int                  `json:"credits_granted" bson:"credits_granted"`
	CreditsUsed            int                  `json:"credits_used" bson:"credits_used"`
	SkipCreditAvailable    int                  `json:"skip_credit_available" bson:"skip_credit_available"`
	SkipCreditUsed         int                  `json:"skip_credit_used" bson:"skip_credit_used"`
	AmountPaid             float64              `json:"amount_paid" bson:"amount_paid"`
	StartDate              time.Time            `json:"start_date" bson:"start_date"`
	EndDate                time.Time            `json:"end_date" bson:"end_date"`
	Status                 SubscriptionStatus   `json:"status" bson:"status"`
	CurrentVendor          *VendorAssignment    `json:"current_vendor,omitempty" bson:"current_vendor,omitempty"`
	VendorsAssignedHistory []VendorHistoryEntry `json:"vendors_assigned_history" bson:"vendors_assigned_history"`
	VendorSwitchUsed       bool                 `json:"vendor_switch_used" bson:"vendor_switch_used"`
	MealTiming             MealTiming           `json:"meal_timing" bson:"meal_timing"`
	DeliveryAddress        DeliveryAddress      `json:"delivery_address" bson:"delivery_address"`
	CancelledAt            *time.Time           `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CancelReason           string               `json:"cancel_reason,omitempty" bson:"cancel_reason,omitempty"`
	CreatedAt              time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt              time.Time            `json:"updated_at" bson:"updated_at"`
}

// IsActive requires both the stored status and a live end date. Expiry is
// computed here; the stored status only flips to expired when swept.
func (s *UserSubscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive && !time.Now().After(s.EndDate)
}

func (s *UserSubscription) GetRemainingCredits() int {
	remaining := s.CreditsGranted - s.CreditsUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// UseCredits consumes n meal credits. State is untouched on failure.
func (s *UserSubscription) UseCredits(n int) error {
	if !s.IsActive() {
		return ErrSubscriptionNotActive
	}
	if s.GetRemainingCredits() < n {
		return ErrInsufficientCredits
	}
	s.CreditsUsed += n
	return nil
}

// SkipMeal consumes one skip credit. Every second cumulative skip extends
// the subscription by a full day, so skipped meals never lose value without
// granting fractional-day extensions.
func (s *UserSubscription) SkipMeal() error {
	if !s.IsActive() {
		return ErrSubscriptionNotActive
	}
	if s.SkipCreditAvailable == 0 {
		return ErrNoSkipCredits
	}
	s.SkipCreditAvailable--
	s.SkipCreditUsed++
	if s.SkipCreditUsed%2 == 0 {
		s.EndDate = s.EndDate.AddDate(0, 0, 1)
	}
	return nil
}

// AssignVendor replaces the current vendor, archiving the old one with the
// reason derived from whether the customer's one-time switch was spent.
func (s *UserSubscription) AssignVendor(vendorID primitive.ObjectID, vendorType VendorType, assignedBy primitive.ObjectID) {
	now := time.Now()
	if s.CurrentVendor != nil {
		reason := DeassignReasonAdminReassignment
		if s.VendorSwitchUsed {
			reason = DeassignReasonVendorSwitch
		}
		s.VendorsAssignedHistory = append(s.VendorsAssignedHistory, VendorHistoryEntry{
			VendorAssignment: *s.CurrentVendor,
			DeassignedAt:     now,
			Reason:           reason,
		})
	}
	s.CurrentVendor = &VendorAssignment{
		VendorID:   vendorID,
		VendorType: vendorType,
		AssignedBy: assignedBy,
		AssignedAt: now,
	}
}

// CanSwitchVendor allows exactly one customer-initiated switch per
// subscription, and only while a vendor is actually assigned.
func (s *UserSubscription) CanSwitchVendor() bool {
	return !s.VendorSwitchUsed && s.IsActive() && s.CurrentVendor != nil
}

func (s *UserSubscription) UseVendorSwitch() error {
	if !s.CanSwitchVendor() {
		return ErrVendorSwitchUsed
	}
	s.VendorSwitchUsed = true
	return nil
}

// GetDaysRemaining may be negative once expired; callers clamp to zero.
func (s *UserSubscription) GetDaysRemaining() int {
	return int(math.Ceil(time.Until(s.EndDate).Hours() / 24))
}

func (s *UserSubscription) Cancel(reason string) {
	now := time.Now()
	s.Status = SubscriptionStatusCancelled
	s.CancelledAt = &now
	s.CancelReason = reason
}
