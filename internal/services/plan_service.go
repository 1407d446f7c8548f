package services

import (
	"context"
	"fmt"

	"tiffinhub/internal/models"
	"tiffinhub/internal/repositories/interfaces"
	"tiffinhub/internal/utils"
	"tiffinhub/internal/validators"
	"tiffinhub/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlanService interface {
	CreatePlan(ctx context.Context, request *validators.PlanCreateRequest) (*models.SubscriptionPlan, error)
	UpdatePlan(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.SubscriptionPlan, error)
	GetPlan(ctx context.Context, id primitive.ObjectID) (*models.SubscriptionPlan, error)
	ListActivePlans(ctx context.Context, category models.SubscriptionCategory, params *utils.PaginationParams) ([]*models.SubscriptionPlan, int64, error)
}

type planService struct {
	planRepo interfaces.PlanRepository
	logger   *logger.Logger
}

func NewPlanService(planRepo interfaces.PlanRepository, logger *logger.Logger) PlanService {
	return &planService{
		planRepo: planRepo,
		logger:   logger,
	}
}

func (s *planService) CreatePlan(ctx context.Context, request *validators.PlanCreateRequest) (*models.SubscriptionPlan, error) {
	plan := &models.SubscriptionPlan{
		Name:          request.Name,
		Description:   request.Description,
		Category:      models.SubscriptionCategory(request.Category),
		DurationDays:  request.DurationDays,
		MealCredits:   request.MealCredits,
		SkipCredits:   request.SkipCredits,
		Price:         request.Price,
		Currency:      utils.DefaultCurrency,
		LunchEnabled:  request.LunchEnabled,
		DinnerEnabled: request.DinnerEnabled,
		IsActive:      true,
	}
	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"plan_id":  plan.ID.Hex(),
		"name":     plan.Name,
		"category": string(plan.Category),
		"price":    plan.Price,
	}).Info("Subscription plan created")

	return plan, nil
}

func (s *planService) UpdatePlan(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.SubscriptionPlan, error) {
	if len(updates) > 0 {
		if err := s.planRepo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("failed to update plan: %w", err)
		}
	}
	return s.planRepo.GetByID(ctx, id)
}

func (s *planService) GetPlan(ctx context.Context, id primitive.ObjectID) (*models.SubscriptionPlan, error) {
	return s.planRepo.GetByID(ctx, id)
}

func (s *planService) ListActivePlans(ctx context.Context, category models.SubscriptionCategory, params *utils.PaginationParams) ([]*models.SubscriptionPlan, int64, error) {
	return s.planRepo.ListActive(ctx, category, params)
}
