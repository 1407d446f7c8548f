package payment

import (
	"context"
)

// PaymentProvider abstracts a payment gateway. Orders are created server
// side, authorized by the customer on the client, then confirmed either by
// a signed client callback or by the gateway webhook.
type PaymentProvider interface {
	CreateOrder(ctx context.Context, request *OrderRequest) (*OrderResponse, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) error
	ValidateWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error)
	FetchPayment(ctx context.Context, paymentID string) (*PaymentDetails, error)
	RefundPayment(ctx context.Context, request *RefundRequest) (*RefundResponse, error)
}

type OrderRequest struct {
	Amount   float64                `json:"amount"`
	Currency string                 `json:"currency"`
	Receipt  string                 `json:"receipt"`
	Metadata map[string]interface{} `json:"metadata"`
}

type OrderResponse struct {
	OrderID   string  `json:"order_id"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	CreatedAt int64   `json:"created_at"`
}

type PaymentDetails struct {
	PaymentID string  `json:"payment_id"`
	OrderID   string  `json:"order_id"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Method    string  `json:"method"`
	CreatedAt int64   `json:"created_at"`
}

type RefundRequest struct {
	PaymentID string  `json:"payment_id"`
	Amount    float64 `json:"amount"`
	Reason    string  `json:"reason"`
}

type RefundResponse struct {
	RefundID  string  `json:"refund_id"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	CreatedAt int64   `json:"created_at"`
}

type WebhookEvent struct {
	EventID   string                 `json:"event_id"`
	EventType string                 `json:"event_type"`
	Data      map[string]interface{} `json:"data"`
	CreatedAt int64                  `json:"created_at"`
}

// Payment statuses reported by FetchPayment, normalized across providers.
const (
	StatusCaptured   = "captured"
	StatusAuthorized = "authorized"
	StatusFailed     = "failed"
	StatusCreated    = "created"
)
