package interfaces

import (
	"context"

	"tiffinhub/internal/models"
	"tiffinhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AssignmentQueueStats struct {
	Pending    int64            `json:"pending"`
	Approved   int64            `json:"approved"`
	Rejected   int64            `json:"rejected"`
	Completed  int64            `json:"completed"`
	ByPriority map[string]int64 `json:"by_priority"`
}

type VendorAssignmentRepository interface {
	Create(ctx context.Context, request *models.VendorAssignmentRequest) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.VendorAssignmentRequest, error)
	Save(ctx context.Context, request *models.VendorAssignmentRequest) error

	// ListByStatus sorts by priority_weight descending then requested_at
	// ascending, so urgent requests surface first and equal priorities are
	// worked oldest-first.
	ListByStatus(ctx context.Context, status models.AssignmentRequestStatus, params *utils.PaginationParams) ([]*models.VendorAssignmentRequest, int64, error)

	GetPendingBySubscription(ctx context.Context, subscriptionID primitive.ObjectID) (*models.VendorAssignmentRequest, error)
	GetQueueStats(ctx context.Context) (*AssignmentQueueStats, error)
}
