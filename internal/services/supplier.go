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

var ErrSupplierNotFound = errors.New("supplier not found")

type SupplierService struct {
	collection *mongo.Collection
	logger     *logrus.Logger
}

func NewSupplierService(db *mongo.Database, logger *logrus.Logger) *SupplierService {
	return &SupplierService{collection: db.Collection("suppliers"), logger: logger}
}

type SupplierUpdate struct {
	Name        *string `json:"name"`
	ContactName *string `json:"contact_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Notes       *string `json:"notes"`
}

func (s *SupplierService) CreateSupplier(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	supplier.ID = primitive.NewObjectID()
	supplier.CreatedAt = time.Now()

	if _, err := s.collection.InsertOne(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *SupplierService) SupplierList(ctx context.Context) ([]models.Supplier, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cur, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var suppliers []models.Supplier
	if err := cur.All(ctx, &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (s *SupplierService) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var supplier models.Supplier
	if err := s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&supplier); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

func (s *SupplierService) UpdateSupplier(ctx context.Context, id string, update SupplierUpdate) (*models.Supplier, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.ContactName != nil {
		set["contact_name"] = *update.ContactName
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.Notes != nil {
		set["notes"] = *update.Notes
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if len(set) > 0 {
		result, err := s.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set})
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, ErrSupplierNotFound
		}
	}

	var supplier models.Supplier
	if err := s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&supplier); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

func (s *SupplierService) DeleteSupplier(ctx context.Context, id string) error {
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
		return ErrSupplierNotFound
	}
	return nil
}
