package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func livePromotion() *Promotion {
	return &Promotion{
		Code:           "WELCOME20",
		Type:           PromotionTypePercentage,
		Status:         PromotionStatusActive,
		DiscountValue:  20,
		MaxDiscount:    300,
		MinOrderAmount: 500,
		UsageLimit:     100,
		ValidFrom:      time.Now().AddDate(0, 0, -1),
		ValidUntil:     time.Now().AddDate(0, 1, 0),
	}
}

func TestPromotion_Validate(t *testing.T) {
	now := time.Now()

	promo := livePromotion()
	assert.NoError(t, promo.Validate(now, 1000, CategoryHomeChef))

	promo = livePromotion()
	promo.Status = PromotionStatusInactive
	assert.ErrorIs(t, promo.Validate(now, 1000, CategoryHomeChef), ErrPromoNotActive)

	promo = livePromotion()
	promo.ValidUntil = now.AddDate(0, 0, -1)
	assert.ErrorIs(t, promo.Validate(now, 1000, CategoryHomeChef), ErrPromoExpired)

	promo = livePromotion()
	promo.UsedCount = promo.UsageLimit
	assert.ErrorIs(t, promo.Validate(now, 1000, CategoryHomeChef), ErrPromoUsageExceeded)

	promo = livePromotion()
	assert.ErrorIs(t, promo.Validate(now, 499, CategoryHomeChef), ErrPromoMinAmount)

	promo = livePromotion()
	promo.ApplicableCategories = []SubscriptionCategory{CategoryFoodVendor}
	assert.ErrorIs(t, promo.Validate(now, 1000, CategoryHomeChef), ErrPromoNotApplicable)
	assert.NoError(t, promo.Validate(now, 1000, CategoryFoodVendor))
}

func TestPromotion_DiscountFor_Percentage(t *testing.T) {
	promo := livePromotion()

	assert.Equal(t, 200.0, promo.DiscountFor(1000))
	assert.Equal(t, 300.0, promo.DiscountFor(5000), "capped at max discount")
}

func TestPromotion_DiscountFor_Fixed(t *testing.T) {
	promo := &Promotion{Type: PromotionTypeFixed, DiscountValue: 150}

	assert.Equal(t, 150.0, promo.DiscountFor(1000))
	assert.Equal(t, 100.0, promo.DiscountFor(100), "never exceeds the amount itself")
}
