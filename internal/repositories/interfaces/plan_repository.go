package interfaces

import (
	"context"

	"tiffinhub/internal/models"
	"tiffinhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlanRepository interface {
	Create(ctx context.Context, plan *models.SubscriptionPlan) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.SubscriptionPlan, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	ListActive(ctx context.Context, category models.SubscriptionCategory, params *utils.PaginationParams) ([]*models.SubscriptionPlan, int64, error)
}
