package models

import (
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PromotionType string
type PromotionStatus string

const (
	PromotionTypePercentage PromotionType = "percentage"
	PromotionTypeFixed      PromotionType = "fixed"

	PromotionStatusActive   PromotionStatus = "active"
	PromotionStatusInactive PromotionStatus = "inactive"
	PromotionStatusExpired  PromotionStatus = "expired"
)

var (
	ErrPromoNotActive     = errors.New("promo code is not active")
	ErrPromoExpired       = errors.New("promo code has expired")
	ErrPromoUsageExceeded = errors.New("promo code usage limit reached")
	ErrPromoMinAmount     = errors.New("order amount below promo code minimum")
	ErrPromoNotApplicable = errors.New("promo code not applicable to this plan")
)

type Promotion struct {
	ID                   primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	Code                 string                 `json:"code" bson:"code" validate:"required"`
	Title                string                 `json:"title" bson:"title" validate:"required"`
	Description          string                 `json:"description" bson:"description"`
	Type                 PromotionType          `json:"type" bson:"type" validate:"required"`
	Status               PromotionStatus        `json:"status" bson:"status"`
	DiscountValue        float64                `json:"discount_value" bson:"discount_value" validate:"required"`
	MaxDiscount          float64                `json:"max_discount" bson:"max_discount"`
	MinOrderAmount       float64                `json:"min_order_amount" bson:"min_order_amount"`
	UsageLimit           int                    `json:"usage_limit" bson:"usage_limit"`
	UserLimit            int                    `json:"user_limit" bson:"user_limit"`
	UsedCount            int                    `json:"used_count" bson:"used_count"`
	ApplicableCategories []SubscriptionCategory `json:"applicable_categories" bson:"applicable_categories"`
	ValidFrom            time.Time              `json:"valid_from" bson:"valid_from"`
	ValidUntil           time.Time              `json:"valid_until" bson:"valid_until"`
	CreatedAt            time.Time              `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at" bson:"updated_at"`
}

// Validate checks everything except per-user usage, which needs a query.
func (p *Promotion) Validate(now time.Time, amount float64, category SubscriptionCategory) error {
	if p.Status != PromotionStatusActive {
		return ErrPromoNotActive
	}
	if now.Before(p.ValidFrom) || now.After(p.ValidUntil) {
		return ErrPromoExpired
	}
	if p.UsageLimit > 0 && p.UsedCount >= p.UsageLimit {
		return ErrPromoUsageExceeded
	}
	if amount < p.MinOrderAmount {
		return ErrPromoMinAmount
	}
	if len(p.ApplicableCategories) > 0 {
		supported := false
		for _, c := range p.ApplicableCategories {
			if c == category {
				supported = true
				break
			}
		}
		if !supported {
			return ErrPromoNotApplicable
		}
	}
	return nil
}

// DiscountFor never exceeds MaxDiscount (when set) or the amount itself.
func (p *Promotion) DiscountFor(amount float64) float64 {
	var discount float64
	switch p.Type {
	case PromotionTypePercentage:
		discount = amount * p.DiscountValue / 100
	case PromotionTypeFixed:
		discount = p.DiscountValue
	}
	if p.MaxDiscount > 0 && discount > p.MaxDiscount {
		discount = p.MaxDiscount
	}
	if discount > amount {
		discount = amount
	}
	return math.Round(discount*100) / 100
}
