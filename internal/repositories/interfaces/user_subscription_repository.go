package interfaces

import (
	"context"
	"time"

	"tiffinhub/internal/models"
	"tiffinhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubscriptionStats struct {
	Total          int64            `json:"total"`
	ByStatus       map[string]int64 `json:"by_status"`
	ActiveRevenue  float64          `json:"active_revenue"`
	CreditsGranted int64            `json:"credits_granted"`
	CreditsUsed    int64            `json:"credits_used"`
}

type VendorSubscriptionStats struct {
	Total       int64            `json:"total"`
	ByStatus    map[string]int64 `json:"by_status"`
	CreditsUsed int64            `json:"credits_used"`
}

type UserSubscriptionRepository interface {
	Create(ctx context.Context, subscription *models.UserSubscription) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.UserSubscription, error)

	// Save persists the whole document after in-memory method mutations
	// (credit use, skips, vendor assignment). Single-document write, so
	// MongoDB's per-document atomicity is the consistency guarantee.
	Save(ctx context.Context, subscription *models.UserSubscription) error

	GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.UserSubscription, int64, error)
	GetByTransaction(ctx context.Context, transactionID primitive.ObjectID) (*models.UserSubscription, error)
	GetByVendor(ctx context.Context, vendorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.UserSubscription, int64, error)

	// Search runs an admin query with a pre-validated filter.
	Search(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.UserSubscription, int64, error)
	GetStats(ctx context.Context) (*SubscriptionStats, error)
	GetVendorStats(ctx context.Context, vendorID primitive.ObjectID) (*VendorSubscriptionStats, error)

	// MarkExpired flips status on active subscriptions whose end date has
	// passed, returning how many were swept.
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}
