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

type planRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewPlanRepository(db *mongo.Database, cache CacheService) interfaces.PlanRepository {
	return &planRepository{
		collection: db.Collection("subscription_plans"),
		cache:      cache,
	}
}

func (r *planRepository) Create(ctx context.Context, plan *models.SubscriptionPlan) error {
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

func (r *planRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.SubscriptionPlan, error) {
	cacheKey := utils.CachePlanPrefix + id.Hex()
	if r.cache != nil {
		var plan models.SubscriptionPlan
		if err := r.cache.Get(ctx, cacheKey, &plan); err == nil && !plan.ID.IsZero() {
			return &plan, nil
		}
	}

	var plan models.SubscriptionPlan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("plan not found")
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	if r.cache != nil && plan.IsActive {
		r.cache.Set(ctx, cacheKey, &plan, 30*time.Minute)
	}

	return &plan, nil
}

func (r *planRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}

	if r.cache != nil {
		r.cache.Delete(ctx, utils.CachePlanPrefix+id.Hex())
	}
	return nil
}

func (r *planRepository) ListActive(ctx context.Context, category models.SubscriptionCategory, params *utils.PaginationParams) ([]*models.SubscriptionPlan, int64, error) {
	filter := bson.M{"is_active": true}
	if category != "" {
		filter["category"] = category
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count plans: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query plans: %w", err)
	}
	defer cursor.Close(ctx)

	var plans []*models.SubscriptionPlan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, 0, fmt.Errorf("failed to decode plans: %w", err)
	}

	return plans, total, nil
}
