package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusRefunded  TransactionStatus = "refunded"
)

// Transaction records one purchase attempt against the payment gateway.
// Failures are recorded here rather than dropped, so the admin recovery
// path can always reconstruct what happened.
type Transaction struct {
	ID               primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID           primitive.ObjectID  `json:"user_id" bson:"user_id" validate:"required"`
	PlanID           primitive.ObjectID  `json:"plan_id" bson:"plan_id" validate:"required"`
	Status           TransactionStatus   `json:"status" bson:"status"`
	Amount           float64             `json:"amount" bson:"amount" validate:"required,gt=0"`
	Currency         string              `json:"currency" bson:"currency"`
	PlanPrice        float64             `json:"plan_price" bson:"plan_price"`
	DeliveryFee      float64             `json:"delivery_fee" bson:"delivery_fee"`
	DiscountAmount   float64             `json:"discount_amount" bson:"discount_amount"`
	PromoCode        string              `json:"promo_code,omitempty" bson:"promo_code,omitempty"`
	PromotionID      *primitive.ObjectID `json:"promotion_id,omitempty" bson:"promotion_id,omitempty"`
	GatewayProvider  string              `json:"gateway_provider" bson:"gateway_provider"`
	GatewayOrderID   string              `json:"gateway_order_id" bson:"gateway_order_id"`
	GatewayPaymentID string              `json:"gateway_payment_id,omitempty" bson:"gateway_payment_id,omitempty"`
	FailureReason    string              `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	ProcessedAt      *time.Time          `json:"processed_at,omitempty" bson:"processed_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at" bson:"updated_at"`
}

func (t *Transaction) MarkAsPaid(gatewayPaymentID string) {
	now := time.Now()
	t.Status = TransactionStatusCompleted
	t.GatewayPaymentID = gatewayPaymentID
	t.FailureReason = ""
	t.ProcessedAt = &now
}

func (t *Transaction) MarkAsFailed(reason string) {
	now := time.Now()
	t.Status = TransactionStatusFailed
	t.FailureReason = reason
	t.ProcessedAt = &now
}

func (t *Transaction) IsPaid() bool {
	return t.Status == TransactionStatusCompleted
}
