package interfaces

import (
	"context"

	"tiffinhub/internal/models"
	"tiffinhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TransactionRepository interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Transaction, error)
	Save(ctx context.Context, transaction *models.Transaction) error
	GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Transaction, int64, error)
	CountPromoUsesByUser(ctx context.Context, userID primitive.ObjectID, promoCode string) (int64, error)
}
