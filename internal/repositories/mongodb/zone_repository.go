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

type zoneRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewZoneRepository(db *mongo.Database, cache CacheService) interfaces.ZoneRepository {
	return &zoneRepository{
		collection: db.Collection("location_zones"),
		cache:      cache,
	}
}

func (r *zoneRepository) Create(ctx context.Context, zone *models.LocationZone) error {
	zone.ID = primitive.NewObjectID()
	zone.CreatedAt = time.Now()
	zone.UpdatedAt = time.Now()
	zone.Pincodes = dedupePincodes(zone.Pincodes)

	_, err := r.collection.InsertOne(ctx, zone)
	if err != nil {
		return fmt.Errorf("failed to create zone: %w", err)
	}

	r.invalidatePincodes(ctx, zone.Pincodes)
	return nil
}

func (r *zoneRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.LocationZone, error) {
	var zone models.LocationZone
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&zone)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("zone not found")
		}
		return nil, fmt.Errorf("failed to get zone: %w", err)
	}
	return &zone, nil
}

func (r *zoneRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	if pincodes, exists := updates["pincodes"]; exists {
		if list, ok := pincodes.([]string); ok {
			updates["pincodes"] = dedupePincodes(list)
		}
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update zone: %w", err)
	}

	// Cached pincode lookups may refer to the old coverage, drop them all.
	if zone, err := r.GetByID(ctx, id); err == nil {
		r.invalidatePincodes(ctx, zone.Pincodes)
	}
	return nil
}

func (r *zoneRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	zone, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete zone: %w", err)
	}

	r.invalidatePincodes(ctx, zone.Pincodes)
	return nil
}

func (r *zoneRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.LocationZone, int64, error) {
	filter := params.GetSearchFilter([]string{"name", "city", "state"})

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count zones: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list zones: %w", err)
	}
	defer cursor.Close(ctx)

	var zones []*models.LocationZone
	if err := cursor.All(ctx, &zones); err != nil {
		return nil, 0, fmt.Errorf("failed to decode zones: %w", err)
	}

	return zones, total, nil
}

func (r *zoneRepository) GetActiveByPincode(ctx context.Context, pincode string) ([]*models.LocationZone, error) {
	cacheKey := utils.CacheZonePincodePrefix + pincode
	if r.cache != nil {
		var zones []*models.LocationZone
		if err := r.cache.Get(ctx, cacheKey, &zones); err == nil && zones != nil {
			return zones, nil
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{
		"pincodes":  pincode,
		"is_active": true,
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query zones by pincode: %w", err)
	}
	defer cursor.Close(ctx)

	var zones []*models.LocationZone
	if err := cursor.All(ctx, &zones); err != nil {
		return nil, fmt.Errorf("failed to decode zones: %w", err)
	}

	if r.cache != nil && len(zones) > 0 {
		r.cache.Set(ctx, cacheKey, zones, 10*time.Minute)
	}

	return zones, nil
}

func (r *zoneRepository) GetAllByPincode(ctx context.Context, pincode string) ([]*models.LocationZone, error) {
	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"pincodes": pincode}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query zones by pincode: %w", err)
	}
	defer cursor.Close(ctx)

	var zones []*models.LocationZone
	if err := cursor.All(ctx, &zones); err != nil {
		return nil, fmt.Errorf("failed to decode zones: %w", err)
	}
	return zones, nil
}

func (r *zoneRepository) invalidatePincodes(ctx context.Context, pincodes []string) {
	if r.cache == nil {
		return
	}
	for _, p := range pincodes {
		r.cache.Delete(ctx, utils.CacheZonePincodePrefix+p)
	}
}

// Pincodes must be unique within a zone.
func dedupePincodes(pincodes []string) []string {
	seen := make(map[string]bool, len(pincodes))
	out := pincodes[:0]
	for _, p := range pincodes {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
