package interfaces

import (
	"context"

	"tiffinhub/internal/models"
	"tiffinhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ZoneRepository interface {
	Create(ctx context.Context, zone *models.LocationZone) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.LocationZone, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.LocationZone, int64, error)

	// GetActiveByPincode returns active zones covering the pincode, sorted
	// by priority descending. Callers rely on that ordering for tie-breaks.
	GetActiveByPincode(ctx context.Context, pincode string) ([]*models.LocationZone, error)

	// GetAllByPincode includes inactive zones, for diagnostics.
	GetAllByPincode(ctx context.Context, pincode string) ([]*models.LocationZone, error)
}
