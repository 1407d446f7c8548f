package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Migration struct {
	Version     int
	Description string
	Up          func(*mongo.Database) error
	Down        func(*mongo.Database) error
}

type Migrator struct {
	db         *mongo.Database
	migrations []Migration
}

func NewMigrator(db *mongo.Database) *Migrator {
	return &Migrator{
		db:         db,
		migrations: getMigrations(),
	}
}

func (m *Migrator) Up() error {
	err := m.createMigrationsCollection()
	if err != nil {
		return err
	}

	currentVersion, err := m.getCurrentVersion()
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if migration.Version > currentVersion {
			log.Printf("Running migration %d: %s", migration.Version, migration.Description)

			err := migration.Up(m.db)
			if err != nil {
				return fmt.Errorf("migration %d failed: %w", migration.Version, err)
			}

			err = m.updateVersion(migration.Version)
			if err != nil {
				return fmt.Errorf("failed to update migration version: %w", err)
			}

			log.Printf("Migration %d completed successfully", migration.Version)
		}
	}

	return nil
}

func (m *Migrator) createMigrationsCollection() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collections, err := m.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return err
	}

	for _, name := range collections {
		if name == "migrations" {
			return nil
		}
	}

	return m.db.CreateCollection(ctx, "migrations")
}

func (m *Migrator) getCurrentVersion() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result struct {
		Version int `bson:"version"`
	}

	err := m.db.Collection("migrations").FindOne(ctx, bson.D{}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}

	return result.Version, nil
}

func (m *Migrator) updateVersion(version int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := m.db.Collection("migrations").ReplaceOne(
		ctx,
		bson.D{},
		bson.D{{Key: "version", Value: version}, {Key: "updated_at", Value: time.Now()}},
		options.Replace().SetUpsert(true),
	)

	return err
}

func getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users collection with indexes",
			Up:          createUsersIndexes,
			Down: func(db *mongo.Database) error {
				return db.Collection("users").Drop(context.Background())
			},
		},
		{
			Version:     2,
			Description: "Create location_zones collection with indexes",
			Up:          createZonesIndexes,
			Down: func(db *mongo.Database) error {
				return db.Collection("location_zones").Drop(context.Background())
			},
		},
		{
			Version:     3,
			Description: "Create user_subscriptions collection with indexes",
			Up:          createSubscriptionsIndexes,
			Down: func(db *mongo.Database) error {
				return db.Collection("user_subscriptions").Drop(context.Background())
			},
		},
		{
			Version:     4,
			Description: "Create vendor_assignment_requests collection with indexes",
			Up:          createAssignmentIndexes,
			Down: func(db *mongo.Database) error {
				return db.Collection("vendor_assignment_requests").Drop(context.Background())
			},
		},
		{
			Version:     5,
			Description: "Create transactions and purchase_workflows indexes",
			Up:          createPaymentIndexes,
			Down: func(db *mongo.Database) error {
				if err := db.Collection("transactions").Drop(context.Background()); err != nil {
					return err
				}
				return db.Collection("purchase_workflows").Drop(context.Background())
			},
		},
		{
			Version:     6,
			Description: "Create promotions, vendors and reviews indexes",
			Up:          createCatalogIndexes,
			Down: func(db *mongo.Database) error {
				for _, name := range []string{"promotions", "vendors", "reviews"} {
					if err := db.Collection(name).Drop(context.Background()); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}

func createUsersIndexes(db *mongo.Database) error {
	ctx := context.Background()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "phone", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "user_type", Value: 1}},
		},
	}

	_, err := db.Collection("users").Indexes().CreateMany(ctx, indexes)
	return err
}

func createZonesIndexes(db *mongo.Database) error {
	ctx := context.Background()

	indexes := []mongo.IndexModel{
		{
			// Pincode lookups always filter on is_active and sort by priority.
			Keys: bson.D{
				{Key: "pincodes", Value: 1},
				{Key: "is_active", Value: 1},
				{Key: "priority", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "city", Value: 1}},
		},
	}

	_, err := db.Collection("location_zones").Indexes().CreateMany(ctx, indexes)
	return err
}

func createSubscriptionsIndexes(db *mongo.Database) error {
	ctx := context.Background()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "current_vendor.vendor_id", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "transaction_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Expiry sweeps scan active subscriptions by end date.
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "end_date", Value: 1}},
		},
	}

	_, err := db.Collection("user_subscriptions").Indexes().CreateMany(ctx, indexes)
	return err
}

func createAssignmentIndexes(db *mongo.Database) error {
	ctx := context.Background()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "priority_weight", Value: -1},
				{Key: "requested_at", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "subscription_id", Value: 1}, {Key: "status", Value: 1}},
		},
	}

	_, err := db.Collection("vendor_assignment_requests").Indexes().CreateMany(ctx, indexes)
	return err
}

func createPaymentIndexes(db *mongo.Database) error {
	ctx := context.Background()

	txnIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "gateway_order_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "promo_code", Value: 1}, {Key: "status", Value: 1}},
		},
	}
	if _, err := db.Collection("transactions").Indexes().CreateMany(ctx, txnIndexes); err != nil {
		return err
	}

	wfIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "gateway_order_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	}
	_, err := db.Collection("purchase_workflows").Indexes().CreateMany(ctx, wfIndexes)
	return err
}

func createCatalogIndexes(db *mongo.Database) error {
	ctx := context.Background()

	promoIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("promotions").Indexes().CreateMany(ctx, promoIndexes); err != nil {
		return err
	}

	vendorIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "zone_id", Value: 1}, {Key: "vendor_type", Value: 1}, {Key: "is_active", Value: 1}},
		},
	}
	if _, err := db.Collection("vendors").Indexes().CreateMany(ctx, vendorIndexes); err != nil {
		return err
	}

	reviewIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "vendor_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "subscription_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := db.Collection("reviews").Indexes().CreateMany(ctx, reviewIndexes)
	return err
}
