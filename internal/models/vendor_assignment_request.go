package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AssignmentRequestType string
type AssignmentRequestStatus string
type AssignmentPriority string
type AssignmentReason string

const (
	AssignmentTypeInitial AssignmentRequestType = "initial_assignment"
	AssignmentTypeSwitch  AssignmentRequestType = "vendor_switch"

	AssignmentStatusPending   AssignmentRequestStatus = "pending"
	AssignmentStatusApproved  AssignmentRequestStatus = "approved"
	AssignmentStatusRejected  AssignmentRequestStatus = "rejected"
	AssignmentStatusCompleted AssignmentRequestStatus = "completed"

	AssignmentPriorityLow    AssignmentPriority = "low"
	AssignmentPriorityMedium AssignmentPriority = "medium"
	AssignmentPriorityHigh   AssignmentPriority = "high"
	AssignmentPriorityUrgent AssignmentPriority = "urgent"

	AssignmentReasonNewSubscription   AssignmentReason = "new_subscription"
	AssignmentReasonCustomerRequest   AssignmentReason = "customer_request"
	AssignmentReasonVendorUnavailable AssignmentReason = "vendor_unavailable"
	AssignmentReasonServiceQuality    AssignmentReason = "service_quality"
	AssignmentReasonAdminAction       AssignmentReason = "admin_action"
)

// Weight gives priorities a numeric severity so queue sorts never depend on
// how the strings happen to collate.
func (p AssignmentPriority) Weight() int {
	switch p {
	case AssignmentPriorityUrgent:
		return 40
	case AssignmentPriorityHigh:
		return 30
	case AssignmentPriorityMedium:
		return 20
	case AssignmentPriorityLow:
		return 10
	}
	return 0
}

// DefaultPriorityFor gives initial assignments precedence over switches: a
// new subscriber has no vendor at all, a switcher still gets meals.
func DefaultPriorityFor(requestType AssignmentRequestType) AssignmentPriority {
	if requestType == AssignmentTypeInitial {
		return AssignmentPriorityHigh
	}
	return AssignmentPriorityMedium
}

// VendorAssignmentRequest is a queue item worked by admins, not a state
// machine with enforced transitions. Terminal states are set directly by
// admin actions.
type VendorAssignmentRequest struct {
	ID                  primitive.ObjectID      `json:"id" bson:"_id,omitempty"`
	SubscriptionID      primitive.ObjectID      `json:"subscription_id" bson:"subscription_id" validate:"required"`
	UserID              primitive.ObjectID      `json:"user_id" bson:"user_id" validate:"required"`
	RequestType         AssignmentRequestType   `json:"request_type" bson:"request_type" validate:"required"`
	Reason              AssignmentReason        `json:"reason" bson:"reason"`
	Status              AssignmentRequestStatus `json:"status" bson:"status"`
	Priority            AssignmentPriority      `json:"priority" bson:"priority"`
	PriorityWeight      int                     `json:"priority_weight" bson:"priority_weight"`
	PreferredVendorType VendorType              `json:"preferred_vendor_type" bson:"preferred_vendor_type"`
	AssignedVendorID    *primitive.ObjectID     `json:"assigned_vendor_id,omitempty" bson:"assigned_vendor_id,omitempty"`
	RequestedAt         time.Time               `json:"requested_at" bson:"requested_at"`
	ProcessedAt         *time.Time              `json:"processed_at,omitempty" bson:"processed_at,omitempty"`
	ProcessedBy         *primitive.ObjectID     `json:"processed_by,omitempty" bson:"processed_by,omitempty"`
	AdminNote           string                  `json:"admin_note,omitempty" bson:"admin_note,omitempty"`
	CreatedAt           time.Time               `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time               `json:"updated_at" bson:"updated_at"`
}

// SetPriority keeps the persisted numeric weight in lockstep with the
// string value the API exposes.
func (r *VendorAssignmentRequest) SetPriority(p AssignmentPriority) {
	r.Priority = p
	r.PriorityWeight = p.Weight()
}

func (r *VendorAssignmentRequest) IsTerminal() bool {
	return r.Status == AssignmentStatusApproved ||
		r.Status == AssignmentStatusRejected ||
		r.Status == AssignmentStatusCompleted
}

func (r *VendorAssignmentRequest) MarkProcessed(status AssignmentRequestStatus, adminID primitive.ObjectID, note string) {
	now := time.Now()
	r.Status = status
	r.ProcessedAt = &now
	r.ProcessedBy = &adminID
	r.AdminNote = note
}
