package mongodb

import (
	"context"
	"fmt"
	"time"

	"tiffinhub/internal/models"
	"tiffinhub/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type purchaseWorkflowRepository struct {
	collection *mongo.Collection
}

func NewPurchaseWorkflowRepository(db *mongo.Database) interfaces.PurchaseWorkflowRepository {
	return &purchaseWorkflowRepository{
		collection: db.Collection("purchase_workflows"),
	}
}

func (r *purchaseWorkflowRepository) Create(ctx context.Context, workflow *models.PurchaseWorkflow) error {
	workflow.ID = primitive.NewObjectID()
	workflow.CreatedAt = time.Now()
	workflow.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, workflow)
	if err != nil {
		return fmt.Errorf("failed to create purchase workflow: %w", err)
	}
	return nil
}

func (r *purchaseWorkflowRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PurchaseWorkflow, error) {
	var workflow models.PurchaseWorkflow
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&workflow)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("purchase workflow not found")
		}
		return nil, fmt.Errorf("failed to get purchase workflow: %w", err)
	}
	return &workflow, nil
}

func (r *purchaseWorkflowRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.PurchaseWorkflow, error) {
	var workflow models.PurchaseWorkflow
	err := r.collection.FindOne(ctx, bson.M{"gateway_order_id": gatewayOrderID}).Decode(&workflow)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("purchase workflow not found")
		}
		return nil, fmt.Errorf("failed to get purchase workflow by order id: %w", err)
	}
	return &workflow, nil
}

func (r *purchaseWorkflowRepository) Save(ctx context.Context, workflow *models.PurchaseWorkflow) error {
	workflow.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": workflow.ID}, workflow)
	if err != nil {
		return fmt.Errorf("failed to save purchase workflow: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("purchase workflow not found")
	}
	return nil
}

func (r *purchaseWorkflowRepository) ListIncomplete(ctx context.Context) ([]*models.PurchaseWorkflow, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"status": bson.M{"$nin": []models.WorkflowStatus{
			models.WorkflowStatusCompleted,
			models.WorkflowStatusFailed,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query incomplete workflows: %w", err)
	}
	defer cursor.Close(ctx)

	var workflows []*models.PurchaseWorkflow
	if err := cursor.All(ctx, &workflows); err != nil {
		return nil, fmt.Errorf("failed to decode workflows: %w", err)
	}
	return workflows, nil
}
