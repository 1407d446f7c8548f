package interfaces

import (
	"context"

	"tiffinhub/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PurchaseWorkflowRepository interface {
	Create(ctx context.Context, workflow *models.PurchaseWorkflow) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.PurchaseWorkflow, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.PurchaseWorkflow, error)
	Save(ctx context.Context, workflow *models.PurchaseWorkflow) error
	ListIncomplete(ctx context.Context) ([]*models.PurchaseWorkflow, error)
}
