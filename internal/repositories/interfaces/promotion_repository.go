package interfaces

import (
	"context"

	"tiffinhub/internal/models"
	"tiffinhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PromotionRepository interface {
	Create(ctx context.Context, promotion *models.Promotion) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Promotion, error)
	GetByCode(ctx context.Context, code string) (*models.Promotion, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	IncrementUsage(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Promotion, int64, error)
}
