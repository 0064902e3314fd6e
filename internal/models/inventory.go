package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InventoryItem tracks stock against a par level. Items below par show up in
// the low-stock report and feed purchase-order generation.
type InventoryItem struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	SKU        string             `bson:"sku" json:"sku"`
	Category   string             `bson:"category" json:"category"`
	Quantity   float64            `bson:"quantity" json:"quantity"`
	ParLevel   float64            `bson:"par_level" json:"par_level"`
	Unit       string             `bson:"unit" json:"unit"`
	Cost       float64            `bson:"cost" json:"cost"`
	SupplierID primitive.ObjectID `bson:"supplier_id,omitempty" json:"supplier_id,omitempty"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// Supplier record
type Supplier struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	ContactName string             `bson:"contact_name" json:"contact_name"`
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"phone" json:"phone"`
	Notes       string             `bson:"notes" json:"notes"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
