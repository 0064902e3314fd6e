package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/handymantracker/backend/internal/models"
)

var ErrItemNotFound = errors.New("inventory item not found")

type InventoryService struct {
	collection *mongo.Collection
	logger     *logrus.Logger
}

func NewInventoryService(db *mongo.Database, logger *logrus.Logger) *InventoryService {
	return &InventoryService{collection: db.Collection("inventory"), logger: logger}
}

type InventoryUpdate struct {
	Name       *string  `json:"name"`
	SKU        *string  `json:"sku"`
	Category   *string  `json:"category"`
	Quantity   *float64 `json:"quantity"`
	ParLevel   *float64 `json:"par_level"`
	Unit       *string  `json:"unit"`
	Cost       *float64 `json:"cost"`
	SupplierID *string  `json:"supplier_id"`
}

func (s *InventoryService) CreateItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	item.ID = primitive.NewObjectID()
	item.UpdatedAt = time.Now()
	if item.Quantity < 0 {
		item.Quantity = 0
	}

	if _, err := s.collection.InsertOne(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *InventoryService) ItemList(ctx context.Context) ([]models.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cur, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.InventoryItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// LowStock returns every item whose quantity sits below its par level.
func (s *InventoryService) LowStock(ctx context.Context) ([]models.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"$expr": bson.M{"$lt": bson.A{"$quantity", "$par_level"}}}
	cur, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.InventoryItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *InventoryService) GetItem(ctx context.Context, id string) (*models.InventoryItem, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var item models.InventoryItem
	if err := s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&item); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *InventoryService) UpdateItem(ctx context.Context, id string, update InventoryUpdate) (*models.InventoryItem, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	set := bson.M{"updated_at": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.SKU != nil {
		set["sku"] = *update.SKU
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Quantity != nil {
		set["quantity"] = *update.Quantity
	}
	if update.ParLevel != nil {
		set["par_level"] = *update.ParLevel
	}
	if update.Unit != nil {
		set["unit"] = *update.Unit
	}
	if update.Cost != nil {
		set["cost"] = *update.Cost
	}
	if update.SupplierID != nil {
		supplierObjID, err := primitive.ObjectIDFromHex(*update.SupplierID)
		if err != nil {
			return nil, ErrInvalidID
		}
		set["supplier_id"] = supplierObjID
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, ErrItemNotFound
	}

	var item models.InventoryItem
	if err := s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// AdjustQuantity applies a signed delta to an item's quantity, flooring at
// zero.
func (s *InventoryService) AdjustQuantity(ctx context.Context, id string, delta float64) (*models.InventoryItem, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	quantity := item.Quantity + delta
	if quantity < 0 {
		quantity = 0
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	_, err = s.collection.UpdateOne(ctx,
		bson.M{"_id": item.ID},
		bson.M{"$set": bson.M{"quantity": quantity, "updated_at": now}})
	if err != nil {
		return nil, err
	}

	item.Quantity = quantity
	item.UpdatedAt = now
	return item, nil
}

func (s *InventoryService) DeleteItem(ctx context.Context, id string) error {
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
		return ErrItemNotFound
	}
	return nil
}
