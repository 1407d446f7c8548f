package interfaces

import (
	"context"

	"tiffinhub/internal/models"
	"tiffinhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VendorRepository interface {
	Create(ctx context.Context, vendor *models.Vendor) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vendor, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Vendor, int64, error)
	ListActiveByZone(ctx context.Context, zoneID primitive.ObjectID, vendorType models.VendorType) ([]*models.Vendor, error)
	UpdateRating(ctx context.Context, id primitive.ObjectID, average float64, count int64) error
}
