package interfaces

import (
	"context"

	"tiffinhub/internal/models"
	"tiffinhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VendorRatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByVendor(ctx context.Context, vendorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)
	ExistsForSubscription(ctx context.Context, userID, subscriptionID primitive.ObjectID) (bool, error)
	GetVendorRating(ctx context.Context, vendorID primitive.ObjectID) (*VendorRatingSummary, error)
}
