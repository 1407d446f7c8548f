package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/razorpay/razorpay-go"
)

type RazorpayProvider struct {
	client        *razorpay.Client
	keySecret     string
	webhookSecret string
}

func NewRazorpayProvider(keyID, keySecret, webhookSecret string) *RazorpayProvider {
	client := razorpay.NewClient(keyID, keySecret)

	return &RazorpayProvider{
		client:        client,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

func (r *RazorpayProvider) CreateOrder(ctx context.Context, request *OrderRequest) (*OrderResponse, error) {
	orderData := map[string]interface{}{
		"amount":   int(request.Amount * 100), // Amount in paise
		"currency": request.Currency,
		"receipt":  request.Receipt,
		"notes":    request.Metadata,
	}

	order, err := r.client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Payment is authorized on the frontend against this order and then
	// confirmed via VerifyPaymentSignature or the webhook.
	return &OrderResponse{
		OrderID:   order["id"].(string),
		Status:    order["status"].(string),
		Amount:    toFloat(order["amount"]) / 100,
		Currency:  order["currency"].(string),
		CreatedAt: int64(toFloat(order["created_at"])),
	}, nil
}

// VerifyPaymentSignature checks the HMAC the checkout flow returns after a
// successful payment. Razorpay signs "<order_id>|<payment_id>" with the key
// secret.
func (r *RazorpayProvider) VerifyPaymentSignature(orderID, paymentID, signature string) error {
	h := hmac.New(sha256.New, []byte(r.keySecret))
	h.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(h.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return fmt.Errorf("invalid payment signature")
	}

	return nil
}

func (r *RazorpayProvider) ValidateWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error) {
	expectedSignature := r.generateWebhookSignature(string(payload))
	if !hmac.Equal([]byte(signature), []byte(expectedSignature)) {
		return nil, fmt.Errorf("invalid webhook signature")
	}

	var event map[string]interface{}
	err := json.Unmarshal(payload, &event)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal webhook payload: %w", err)
	}

	eventType, _ := event["event"].(string)
	eventID, _ := event["id"].(string)

	return &WebhookEvent{
		EventID:   eventID,
		EventType: eventType,
		Data:      event,
		CreatedAt: time.Now().Unix(),
	}, nil
}

func (r *RazorpayProvider) FetchPayment(ctx context.Context, paymentID string) (*PaymentDetails, error) {
	paymentData, err := r.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}

	orderID, _ := paymentData["order_id"].(string)
	method, _ := paymentData["method"].(string)

	return &PaymentDetails{
		PaymentID: paymentData["id"].(string),
		OrderID:   orderID,
		Status:    paymentData["status"].(string),
		Amount:    toFloat(paymentData["amount"]) / 100,
		Currency:  paymentData["currency"].(string),
		Method:    method,
		CreatedAt: int64(toFloat(paymentData["created_at"])),
	}, nil
}

func (r *RazorpayProvider) RefundPayment(ctx context.Context, request *RefundRequest) (*RefundResponse, error) {
	refundData := map[string]interface{}{
		"notes": map[string]interface{}{
			"reason": request.Reason,
		},
	}

	amount := int(request.Amount * 100)
	refund, err := r.client.Payment.Refund(request.PaymentID, amount, refundData, map[string]string{})
	if err != nil {
		return nil, fmt.Errorf("failed to create refund: %w", err)
	}

	return &RefundResponse{
		RefundID:  refund["id"].(string),
		Status:    refund["status"].(string),
		Amount:    toFloat(refund["amount"]) / 100,
		Currency:  refund["currency"].(string),
		CreatedAt: int64(toFloat(refund["created_at"])),
	}, nil
}

func (r *RazorpayProvider) generateWebhookSignature(payload string) string {
	h := hmac.New(sha256.New, []byte(r.webhookSecret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

// The Razorpay SDK returns numbers as float64 or json.Number depending on
// the endpoint.
func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	default:
		return 0
	}
}
