package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/handymantracker/backend/internal/models"
)

var (
	ErrPONotFound   = errors.New("purchase order not found")
	ErrPOTransition = errors.New("invalid purchase order status transition")
	ErrNoLowStock   = errors.New("no items below par level")
)

type PurchaseOrderService struct {
	collection *mongo.Collection
	inventory  *InventoryService
	logger     *logrus.Logger
}

func NewPurchaseOrderService(db *mongo.Database, inventory *InventoryService, logger *logrus.Logger) *PurchaseOrderService {
	return &PurchaseOrderService{
		collection: db.Collection("purchase_orders"),
		inventory:  inventory,
		logger:     logger,
	}
}

// newPONumber derives a short human-readable order number from a v4 UUID.
func newPONumber() string {
	return "PO-" + strings.ToUpper(uuid.NewString()[:8])
}

// Generate builds one draft purchase order per supplier from the current
// low-stock items, ordering each item back up to its par level. Items with no
// supplier on record are grouped onto a single supplier-less order.
func (s *PurchaseOrderService) Generate(ctx context.Context, createdBy primitive.ObjectID) ([]models.PurchaseOrder, error) {
	low, err := s.inventory.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	if len(low) == 0 {
		return nil, ErrNoLowStock
	}

	bySupplier := make(map[primitive.ObjectID][]models.POItem)
	for _, item := range low {
		qty := item.ParLevel - item.Quantity
		if qty <= 0 {
			continue
		}
		bySupplier[item.SupplierID] = append(bySupplier[item.SupplierID], models.POItem{
			ItemID:   item.ID,
			Name:     item.Name,
			Quantity: qty,
			Cost:     item.Cost,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	orders := make([]models.PurchaseOrder, 0, len(bySupplier))
	for supplierID, items := range bySupplier {
		po := models.PurchaseOrder{
			ID:         primitive.NewObjectID(),
			Number:     newPONumber(),
			SupplierID: supplierID,
			Items:      items,
			Status:     models.POStatusDraft,
			CreatedBy:  createdBy,
			CreatedAt:  time.Now(),
		}
		if _, err := s.collection.InsertOne(ctx, po); err != nil {
			return nil, err
		}
		orders = append(orders, po)
	}

	s.logger.WithField("orders", len(orders)).Info("generated purchase orders from low stock")
	return orders, nil
}

func (s *PurchaseOrderService) OrderList(ctx context.Context) ([]models.PurchaseOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cur, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var orders []models.PurchaseOrder
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *PurchaseOrderService) GetOrder(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var order models.PurchaseOrder
	if err := s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&order); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPONotFound
		}
		return nil, err
	}
	return &order, nil
}

// Submit moves a draft order to Submitted. Any other starting status fails.
func (s *PurchaseOrderService) Submit(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	return s.transition(ctx, id, models.POStatusDraft, models.POStatusSubmitted)
}

// Receive moves a submitted order to Received and adds the ordered
// quantities back onto inventory.
func (s *PurchaseOrderService) Receive(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	order, err := s.transition(ctx, id, models.POStatusSubmitted, models.POStatusReceived)
	if err != nil {
		return nil, err
	}

	for _, item := range order.Items {
		if _, err := s.inventory.AdjustQuantity(ctx, item.ItemID.Hex(), item.Quantity); err != nil {
			// A deleted item should not fail receipt of the rest of the
			// order.
			s.logger.WithError(err).WithField("item", item.Name).Warn("failed to restock item on PO receipt")
		}
	}
	return order, nil
}

func (s *PurchaseOrderService) transition(ctx context.Context, id, from, to string) (*models.PurchaseOrder, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != from {
		return nil, fmt.Errorf("%w: %s -> %s", ErrPOTransition, order.Status, to)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err = s.collection.UpdateOne(ctx,
		bson.M{"_id": order.ID},
		bson.M{"$set": bson.M{"status": to}})
	if err != nil {
		return nil, err
	}

	order.Status = to
	return order, nil
}

func (s *PurchaseOrderService) DeleteOrder(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrPONotFound
	}
	return nil
}
