package mongodb

import (
	"context"
	"fmt"
	"time"

	"tiffinhub/internal/models"
	"tiffinhub/internal/repositories/interfaces"
	"tiffinhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type vendorAssignmentRepository struct {
	collection *mongo.Collection
}

func NewVendorAssignmentRepository(db *mongo.Database) interfaces.VendorAssignmentRepository {
	return &vendorAssignmentRepository{
		collection: db.Collection("vendor_assignment_requests"),
	}
}

func (r *vendorAssignmentRepository) Create(ctx context.Context, request *models.VendorAssignmentRequest) error {
	request.ID = primitive.NewObjectID()
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()
	if request.RequestedAt.IsZero() {
		request.RequestedAt = request.CreatedAt
	}
	// The weight is what queries sort on; never persist one without it.
	if request.PriorityWeight == 0 {
		request.PriorityWeight = request.Priority.Weight()
	}

	_, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		return fmt.Errorf("failed to create assignment request: %w", err)
	}
	return nil
}

func (r *vendorAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.VendorAssignmentRequest, error) {
	var request models.VendorAssignmentRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("assignment request not found")
		}
		return nil, fmt.Errorf("failed to get assignment request: %w", err)
	}
	return &request, nil
}

func (r *vendorAssignmentRepository) Save(ctx context.Context, request *models.VendorAssignmentRequest) error {
	request.UpdatedAt = time.Now()
	request.PriorityWeight = request.Priority.Weight()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": request.ID}, request)
	if err != nil {
		return fmt.Errorf("failed to save assignment request: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("assignment request not found")
	}
	return nil
}

func (r *vendorAssignmentRepository) ListByStatus(ctx context.Context, status models.AssignmentRequestStatus, params *utils.PaginationParams) ([]*models.VendorAssignmentRequest, int64, error) {
	filter := bson.M{"status": status}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count assignment requests: %w", err)
	}

	opts := options.Find().
		SetSkip(int64(params.GetSkip())).
		SetLimit(int64(params.GetLimit())).
		SetSort(bson.D{
			{Key: "priority_weight", Value: -1},
			{Key: "requested_at", Value: 1},
		})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query assignment requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []*models.VendorAssignmentRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, 0, fmt.Errorf("failed to decode assignment requests: %w", err)
	}

	return requests, total, nil
}

func (r *vendorAssignmentRepository) GetPendingBySubscription(ctx context.Context, subscriptionID primitive.ObjectID) (*models.VendorAssignmentRequest, error) {
	var request models.VendorAssignmentRequest
	err := r.collection.FindOne(ctx, bson.M{
		"subscription_id": subscriptionID,
		"status":          models.AssignmentStatusPending,
	}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pending assignment request: %w", err)
	}
	return &request, nil
}

func (r *vendorAssignmentRepository) GetQueueStats(ctx context.Context) (*interfaces.AssignmentQueueStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"status": "$status", "priority": "$priority"},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate queue stats: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Key struct {
			Status   string `bson:"status"`
			Priority string `bson:"priority"`
		} `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode queue stats: %w", err)
	}

	stats := &interfaces.AssignmentQueueStats{
		ByPriority: make(map[string]int64),
	}
	for _, row := range rows {
		switch models.AssignmentRequestStatus(row.Key.Status) {
		case models.AssignmentStatusPending:
			stats.Pending += row.Count
			stats.ByPriority[row.Key.Priority] += row.Count
		case models.AssignmentStatusApproved:
			stats.Approved += row.Count
		case models.AssignmentStatusRejected:
			stats.Rejected += row.Count
		case models.AssignmentStatusCompleted:
			stats.Completed += row.Count
		}
	}

	return stats, nil
}
