package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tiffinhub/internal/models"
	"tiffinhub/internal/repositories/interfaces"
	"tiffinhub/internal/utils"
	"tiffinhub/internal/validators"
	"tiffinhub/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PromotionService interface {
	CreatePromotion(ctx context.Context, request *validators.PromotionCreateRequest) (*models.Promotion, error)
	ListPromotions(ctx context.Context, params *utils.PaginationParams) ([]*models.Promotion, int64, error)

	// ApplyPromotion validates the code against the plan and the user's
	// prior usage and returns the discount amount. It does not consume the
	// code; usage is recorded only once payment is captured.
	ApplyPromotion(ctx context.Context, userID primitive.ObjectID, code string, plan *models.SubscriptionPlan) (*PromoApplication, error)

	// RecordUsage consumes one use of the code after a successful payment.
	RecordUsage(ctx context.Context, promotionID primitive.ObjectID) error
}

type PromoApplication struct {
	Promotion *models.Promotion `json:"promotion"`
	Discount  float64           `json:"discount"`
}

type promotionService struct {
	promoRepo       interfaces.PromotionRepository
	transactionRepo interfaces.TransactionRepository
	logger          *logger.Logger
}

func NewPromotionService(promoRepo interfaces.PromotionRepository, transactionRepo interfaces.TransactionRepository, logger *logger.Logger) PromotionService {
	return &promotionService{
		promoRepo:       promoRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

func (s *promotionService) CreatePromotion(ctx context.Context, request *validators.PromotionCreateRequest) (*models.Promotion, error) {
	promo := &models.Promotion{
		Code:           strings.ToUpper(request.Code),
		Title:          request.Title,
		Description:    request.Description,
		Type:           models.PromotionType(request.Type),
		Status:         models.PromotionStatusActive,
		DiscountValue:  request.Value,
		MaxDiscount:    request.MaxDiscount,
		MinOrderAmount: request.MinOrderAmount,
		UsageLimit:     request.UsageLimit,
		UserLimit:      request.PerUserLimit,
	}

	if request.Category != "" {
		promo.ApplicableCategories = []models.SubscriptionCategory{models.SubscriptionCategory(request.Category)}
	}

	promo.ValidFrom = time.Now()
	if request.ValidFrom != nil {
		promo.ValidFrom = *request.ValidFrom
	}
	promo.ValidUntil = promo.ValidFrom.AddDate(0, 1, 0)
	if request.ValidUntil != nil {
		promo.ValidUntil = *request.ValidUntil
	}

	if err := s.promoRepo.Create(ctx, promo); err != nil {
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"promotion_id": promo.ID.Hex(),
		"code":         promo.Code,
	}).Info("Promotion created")

	return promo, nil
}

func (s *promotionService) ListPromotions(ctx context.Context, params *utils.PaginationParams) ([]*models.Promotion, int64, error) {
	return s.promoRepo.List(ctx, params)
}

func (s *promotionService) ApplyPromotion(ctx context.Context, userID primitive.ObjectID, code string, plan *models.SubscriptionPlan) (*PromoApplication, error) {
	promo, err := s.promoRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := promo.Validate(time.Now(), plan.Price, plan.Category); err != nil {
		return nil, err
	}

	if promo.UserLimit > 0 {
		uses, err := s.transactionRepo.CountPromoUsesByUser(ctx, userID, promo.Code)
		if err != nil {
			return nil, fmt.Errorf("failed to count promo uses: %w", err)
		}
		if uses >= int64(promo.UserLimit) {
			return nil, models.ErrPromoUsageExceeded
		}
	}

	return &PromoApplication{
		Promotion: promo,
		Discount:  promo.DiscountFor(plan.Price),
	}, nil
}

func (s *promotionService) RecordUsage(ctx context.Context, promotionID primitive.ObjectID) error {
	return s.promoRepo.IncrementUsage(ctx, promotionID)
}
