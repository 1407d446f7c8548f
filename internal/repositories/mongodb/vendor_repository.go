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

type vendorRepository struct {
	collection *mongo.Collection
}

func NewVendorRepository(db *mongo.Database) interfaces.VendorRepository {
	return &vendorRepository{
		collection: db.Collection("vendors"),
	}
}

func (r *vendorRepository) Create(ctx context.Context, vendor *models.Vendor) error {
	vendor.ID = primitive.NewObjectID()
	vendor.CreatedAt = time.Now()
	vendor.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, vendor)
	if err != nil {
		return fmt.Errorf("failed to create vendor: %w", err)
	}
	return nil
}

func (r *vendorRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&vendor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("vendor not found")
		}
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	return &vendor, nil
}

func (r *vendorRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update vendor: %w", err)
	}
	return nil
}

func (r *vendorRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Vendor, int64, error) {
	filter := params.GetSearchFilter([]string{"business_name", "email"})

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count vendors: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query vendors: %w", err)
	}
	defer cursor.Close(ctx)

	var vendors []*models.Vendor
	if err := cursor.All(ctx, &vendors); err != nil {
		return nil, 0, fmt.Errorf("failed to decode vendors: %w", err)
	}

	return vendors, total, nil
}

func (r *vendorRepository) ListActiveByZone(ctx context.Context, zoneID primitive.ObjectID, vendorType models.VendorType) ([]*models.Vendor, error) {
	filter := bson.M{"zone_id": zoneID, "is_active": true}
	if vendorType != "" {
		filter["vendor_type"] = vendorType
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendors by zone: %w", err)
	}
	defer cursor.Close(ctx)

	var vendors []*models.Vendor
	if err := cursor.All(ctx, &vendors); err != nil {
		return nil, fmt.Errorf("failed to decode vendors: %w", err)
	}
	return vendors, nil
}

func (r *vendorRepository) UpdateRating(ctx context.Context, id primitive.ObjectID, average float64, count int64) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"rating_average": average,
			"rating_count":   count,
			"updated_at":     time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update vendor rating: %w", err)
	}
	return nil
}
