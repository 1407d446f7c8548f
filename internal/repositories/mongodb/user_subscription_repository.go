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
)

type userSubscriptionRepository struct {
	collection *mongo.Collection
}

func NewUserSubscriptionRepository(db *mongo.Database) interfaces.UserSubscriptionRepository {
	return &userSubscriptionRepository{
		collection: db.Collection("user_subscriptions"),
	}
}

func (r *userSubscriptionRepository) Create(ctx context.Context, subscription *models.UserSubscription) error {
	subscription.ID = primitive.NewObjectID()
	subscription.CreatedAt = time.Now()
	subscription.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, subscription)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (r *userSubscriptionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.UserSubscription, error) {
	var subscription models.UserSubscription
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&subscription)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("subscription not found")
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &subscription, nil
}

func (r *userSubscriptionRepository) Save(ctx context.Context, subscription *models.UserSubscription) error {
	subscription.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": subscription.ID}, subscription)
	if err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("subscription not found")
	}
	return nil
}

func (r *userSubscriptionRepository) GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.UserSubscription, int64, error) {
	return r.findPage(ctx, bson.M{"user_id": userID}, params)
}

func (r *userSubscriptionRepository) GetByTransaction(ctx context.Context, transactionID primitive.ObjectID) (*models.UserSubscription, error) {
	var subscription models.UserSubscription
	err := r.collection.FindOne(ctx, bson.M{"transaction_id": transactionID}).Decode(&subscription)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("subscription not found")
		}
		return nil, fmt.Errorf("failed to get subscription by transaction: %w", err)
	}
	return &subscription, nil
}

func (r *userSubscriptionRepository) GetByVendor(ctx context.Context, vendorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.UserSubscription, int64, error) {
	return r.findPage(ctx, bson.M{"current_vendor.vendor_id": vendorID}, params)
}

func (r *userSubscriptionRepository) Search(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.UserSubscription, int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return r.findPage(ctx, filter, params)
}

func (r *userSubscriptionRepository) findPage(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.UserSubscription, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var subscriptions []*models.UserSubscription
	if err := cursor.All(ctx, &subscriptions); err != nil {
		return nil, 0, fmt.Errorf("failed to decode subscriptions: %w", err)
	}

	return subscriptions, total, nil
}

func (r *userSubscriptionRepository) GetStats(ctx context.Context) (*interfaces.SubscriptionStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":             "$status",
			"count":           bson.M{"$sum": 1},
			"credits_granted": bson.M{"$sum": "$credits_granted"},
			"credits_used":    bson.M{"$sum": "$credits_used"},
			"revenue":         bson.M{"$sum": "$amount_paid"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate subscription stats: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status         string  `bson:"_id"`
		Count          int64   `bson:"count"`
		CreditsGranted int64   `bson:"credits_granted"`
		CreditsUsed    int64   `bson:"credits_used"`
		Revenue        float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode subscription stats: %w", err)
	}

	stats := &interfaces.SubscriptionStats{
		ByStatus: make(map[string]int64),
	}
	for _, row := range rows {
		stats.Total += row.Count
		stats.ByStatus[row.Status] = row.Count
		stats.CreditsGranted += row.CreditsGranted
		stats.CreditsUsed += row.CreditsUsed
		if row.Status == string(models.SubscriptionStatusActive) {
			stats.ActiveRevenue = row.Revenue
		}
	}

	return stats, nil
}

func (r *userSubscriptionRepository) GetVendorStats(ctx context.Context, vendorID primitive.ObjectID) (*interfaces.VendorSubscriptionStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"current_vendor.vendor_id": vendorID}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$status",
			"count":        bson.M{"$sum": 1},
			"credits_used": bson.M{"$sum": "$credits_used"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate vendor subscription stats: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status      string `bson:"_id"`
		Count       int64  `bson:"count"`
		CreditsUsed int64  `bson:"credits_used"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode vendor subscription stats: %w", err)
	}

	stats := &interfaces.VendorSubscriptionStats{
		ByStatus: make(map[string]int64),
	}
	for _, row := range rows {
		stats.Total += row.Count
		stats.ByStatus[row.Status] = row.Count
		stats.CreditsUsed += row.CreditsUsed
	}

	return stats, nil
}

func (r *userSubscriptionRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{
			"status":   models.SubscriptionStatusActive,
			"end_date": bson.M{"$lt": now},
		},
		bson.M{"$set": bson.M{
			"status":     models.SubscriptionStatusExpired,
			"updated_at": now,
		}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark expired subscriptions: %w", err)
	}
	return result.ModifiedCount, nil
}
