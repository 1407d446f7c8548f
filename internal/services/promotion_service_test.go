package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tiffinhub/internal/models"
	"tiffinhub/internal/repositories/interfaces"
	"tiffinhub/internal/validators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakePromoRepo struct {
	interfaces.PromotionRepository

	byCode     map[string]*models.Promotion
	created    []*models.Promotion
	increments int
}

func (f *fakePromoRepo) Create(ctx context.Context, promo *models.Promotion) error {
	promo.ID = primitive.NewObjectID()
	f.created = append(f.created, promo)
	if f.byCode == nil {
		f.byCode = make(map[string]*models.Promotion)
	}
	f.byCode[promo.Code] = promo
	return nil
}

func (f *fakePromoRepo) GetByCode(ctx context.Context, code string) (*models.Promotion, error) {
	promo, ok := f.byCode[code]
	if !ok {
		return nil, errors.New("promotion not found")
	}
	return promo, nil
}

func (f *fakePromoRepo) IncrementUsage(ctx context.Context, id primitive.ObjectID) error {
	f.increments++
	return nil
}

type fakePromoTransactionRepo struct {
	interfaces.TransactionRepository

	usesByUser map[primitive.ObjectID]int64
}

func (f *fakePromoTransactionRepo) CountPromoUsesByUser(ctx context.Context, userID primitive.ObjectID, promoCode string) (int64, error) {
	return f.usesByUser[userID], nil
}

func lunchPlan(price float64) *models.SubscriptionPlan {
	return &models.SubscriptionPlan{
		ID:       primitive.NewObjectID(),
		Name:     "Monthly Lunch",
		Category: models.CategoryHomeChef,
		Price:    price,
	}
}

func TestPromotionService_ApplyPromotion_Discount(t *testing.T) {
	promoRepo := &fakePromoRepo{byCode: map[string]*models.Promotion{
		"FEAST10": {
			ID:            primitive.NewObjectID(),
			Code:          "FEAST10",
			Type:          models.PromotionTypePercentage,
			Status:        models.PromotionStatusActive,
			DiscountValue: 10,
			MaxDiscount:   250,
			ValidFrom:     time.Now().Add(-time.Hour),
			ValidUntil:    time.Now().Add(time.Hour),
		},
	}}
	svc := NewPromotionService(promoRepo, &fakePromoTransactionRepo{}, testLogger(t))

	applied, err := svc.ApplyPromotion(context.Background(), primitive.NewObjectID(), "FEAST10", lunchPlan(2000))
	require.NoError(t, err)
	assert.Equal(t, 200.0, applied.Discount)

	applied, err = svc.ApplyPromotion(context.Background(), primitive.NewObjectID(), "FEAST10", lunchPlan(5000))
	require.NoError(t, err)
	assert.Equal(t, 250.0, applied.Discount)
}

func TestPromotionService_ApplyPromotion_PerUserLimit(t *testing.T) {
	userID := primitive.NewObjectID()
	promoRepo := &fakePromoRepo{byCode: map[string]*models.Promotion{
		"ONCE": {
			ID:            primitive.NewObjectID(),
			Code:          "ONCE",
			Type:          models.PromotionTypeFixed,
			Status:        models.PromotionStatusActive,
			DiscountValue: 100,
			UserLimit:     1,
			ValidFrom:     time.Now().Add(-time.Hour),
			ValidUntil:    time.Now().Add(time.Hour),
		},
	}}
	txRepo := &fakePromoTransactionRepo{usesByUser: map[primitive.ObjectID]int64{userID: 1}}
	svc := NewPromotionService(promoRepo, txRepo, testLogger(t))

	_, err := svc.ApplyPromotion(context.Background(), userID, "ONCE", lunchPlan(1000))
	assert.ErrorIs(t, err, models.ErrPromoUsageExceeded)

	// A user who has never used the code is unaffected by someone else's usage.
	_, err = svc.ApplyPromotion(context.Background(), primitive.NewObjectID(), "ONCE", lunchPlan(1000))
	assert.NoError(t, err)
}

func TestPromotionService_ApplyPromotion_UnknownCode(t *testing.T) {
	svc := NewPromotionService(&fakePromoRepo{}, &fakePromoTransactionRepo{}, testLogger(t))

	_, err := svc.ApplyPromotion(context.Background(), primitive.NewObjectID(), "NOPE", lunchPlan(1000))
	assert.Error(t, err)
}

func TestPromotionService_CreatePromotion_Defaults(t *testing.T) {
	promoRepo := &fakePromoRepo{}
	svc := NewPromotionService(promoRepo, &fakePromoTransactionRepo{}, testLogger(t))

	promo, err := svc.CreatePromotion(context.Background(), &validators.PromotionCreateRequest{
		Code:     "diwali25",
		Title:    "Diwali Feast Offer",
		Type:     "percentage",
		Value:    25,
		Category: "combo",
	})
	require.NoError(t, err)

	assert.Equal(t, "DIWALI25", promo.Code)
	assert.Equal(t, "Diwali Feast Offer", promo.Title)
	assert.Equal(t, models.PromotionStatusActive, promo.Status)
	assert.Equal(t, []models.SubscriptionCategory{models.CategoryCombo}, promo.ApplicableCategories)
	assert.WithinDuration(t, time.Now().AddDate(0, 1, 0), promo.ValidUntil, time.Minute)
	require.Len(t, promoRepo.created, 1)
}

func TestPromotionService_RecordUsage(t *testing.T) {
	promoRepo := &fakePromoRepo{}
	svc := NewPromotionService(promoRepo, &fakePromoTransactionRepo{}, testLogger(t))

	require.NoError(t, svc.RecordUsage(context.Background(), primitive.NewObjectID()))
	assert.Equal(t, 1, promoRepo.increments)
}
