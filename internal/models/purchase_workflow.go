package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkflowStatus string
type WorkflowStep string

const (
	WorkflowStatusInitiated      WorkflowStatus = "initiated"
	WorkflowStatusPaymentPending WorkflowStatus = "payment_pending"
	WorkflowStatusCompleted      WorkflowStatus = "completed"
	WorkflowStatusFailed         WorkflowStatus = "failed"

	StepPaymentCaptured     WorkflowStep = "payment_captured"
	StepSubscriptionCreated WorkflowStep = "subscription_created"
	StepAssignmentRequested WorkflowStep = "assignment_requested"
	StepNotificationsSent   WorkflowStep = "notifications_sent"
)

// PurchaseDetails snapshots what the customer asked for at initiation, so
// the post-payment steps can run without the original request.
type PurchaseDetails struct {
	ZoneID          primitive.ObjectID `json:"zone_id" bson:"zone_id"`
	DeliveryAddress DeliveryAddress    `json:"delivery_address" bson:"delivery_address"`
	MealTiming      MealTiming         `json:"meal_timing" bson:"meal_timing"`
	StartDate       time.Time          `json:"start_date" bson:"start_date"`
}

// PurchaseWorkflow persists how far a purchase has progressed. The steps
// after payment capture are not wrapped in a database transaction, so a
// crash mid-flow leaves a resumable record instead of an orphaned payment.
type PurchaseWorkflow struct {
	ID                  primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	UserID              primitive.ObjectID   `json:"user_id" bson:"user_id"`
	PlanID              primitive.ObjectID   `json:"plan_id" bson:"plan_id"`
	TransactionID       primitive.ObjectID   `json:"transaction_id" bson:"transaction_id"`
	GatewayOrderID      string               `json:"gateway_order_id" bson:"gateway_order_id"`
	Status              WorkflowStatus       `json:"status" bson:"status"`
	StepsDone           map[string]time.Time `json:"steps_done" bson:"steps_done"`
	Details             PurchaseDetails      `json:"details" bson:"details"`
	SubscriptionID      *primitive.ObjectID  `json:"subscription_id,omitempty" bson:"subscription_id,omitempty"`
	AssignmentRequestID *primitive.ObjectID  `json:"assignment_request_id,omitempty" bson:"assignment_request_id,omitempty"`
	FailureReason       string               `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	CreatedAt           time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at" bson:"updated_at"`
}

func (w *PurchaseWorkflow) IsStepDone(step WorkflowStep) bool {
	if w.StepsDone == nil {
		return false
	}
	_, done := w.StepsDone[string(step)]
	return done
}

func (w *PurchaseWorkflow) MarkStepDone(step WorkflowStep) {
	if w.StepsDone == nil {
		w.StepsDone = make(map[string]time.Time)
	}
	w.StepsDone[string(step)] = time.Now()
}

func (w *PurchaseWorkflow) MarkFailed(reason string) {
	w.Status = WorkflowStatusFailed
	w.FailureReason = reason
}
