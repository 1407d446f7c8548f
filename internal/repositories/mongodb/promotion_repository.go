package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tiffinhub/internal/models"
	"tiffinhub/internal/repositories/interfaces"
	"tiffinhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type promotionRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewPromotionRepository(db *mongo.Database, cache CacheService) interfaces.PromotionRepository {
	return &promotionRepository{
		collection: db.Collection("promotions"),
		cache:      cache,
	}
}

func (r *promotionRepository) Create(ctx context.Context, promotion *models.Promotion) error {
	promotion.ID = primitive.NewObjectID()
	promotion.CreatedAt = time.Now()
	promotion.UpdatedAt = time.Now()
	promotion.Code = strings.ToUpper(promotion.Code)

	_, err := r.collection.InsertOne(ctx, promotion)
	if err != nil {
		return fmt.Errorf("failed to create promotion: %w", err)
	}
	return nil
}

func (r *promotionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Promotion, error) {
	var promotion models.Promotion
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&promotion)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("promotion not found")
		}
		return nil, fmt.Errorf("failed to get promotion: %w", err)
	}
	return &promotion, nil
}

func (r *promotionRepository) GetByCode(ctx context.Context, code string) (*models.Promotion, error) {
	code = strings.ToUpper(code)

	cacheKey := utils.CachePromotionPrefix + code
	if r.cache != nil {
		var promotion models.Promotion
		if err := r.cache.Get(ctx, cacheKey, &promotion); err == nil && !promotion.ID.IsZero() {
			return &promotion, nil
		}
	}

	var promotion models.Promotion
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&promotion)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("promotion not found")
		}
		return nil, fmt.Errorf("failed to get promotion by code: %w", err)
	}

	if r.cache != nil && promotion.Status == models.PromotionStatusActive {
		r.cache.Set(ctx, cacheKey, &promotion, 5*time.Minute)
	}

	return &promotion, nil
}

func (r *promotionRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	if code, exists := updates["code"]; exists {
		if codeStr, ok := code.(string); ok {
			updates["code"] = strings.ToUpper(codeStr)
		}
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update promotion: %w", err)
	}

	r.invalidate(ctx, id)
	return nil
}

// IncrementUsage is a single atomic update; used counts may briefly exceed
// the limit under concurrent redemptions, which validation tolerates.
func (r *promotionRepository) IncrementUsage(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"used_count": 1},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to increment promotion usage: %w", err)
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *promotionRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Promotion, int64, error) {
	filter := params.GetSearchFilter([]string{"code", "title"})

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count promotions: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query promotions: %w", err)
	}
	defer cursor.Close(ctx)

	var promotions []*models.Promotion
	if err := cursor.All(ctx, &promotions); err != nil {
		return nil, 0, fmt.Errorf("failed to decode promotions: %w", err)
	}

	return promotions, total, nil
}

func (r *promotionRepository) invalidate(ctx context.Context, id primitive.ObjectID) {
	if r.cache == nil {
		return
	}
	if promotion, err := r.GetByID(ctx, id); err == nil {
		r.cache.Delete(ctx, utils.CachePromotionPrefix+promotion.Code)
	}
}
