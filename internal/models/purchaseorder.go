package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Purchase order status values. Transitions are one-way:
// Draft -> Submitted -> Received.
const (
	POStatusDraft     = "Draft"
	POStatusSubmitted = "Submitted"
	POStatusReceived  = "Received"
)

// POItem is one ordered line on a purchase order. Name and cost are copied
// from the inventory item at generation time so the PO stays readable even if
// the item record changes later.
type POItem struct {
	ItemID   primitive.ObjectID `bson:"item_id" json:"item_id"`
	Name     string             `bson:"name" json:"name"`
	Quantity float64            `bson:"quantity" json:"quantity"`
	Cost     float64            `bson:"cost" json:"cost"`
}

// PurchaseOrder groups low-stock items for a single supplier.
type PurchaseOrder struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Number     string             `bson:"number" json:"number"`
	SupplierID primitive.ObjectID `bson:"supplier_id,omitempty" json:"supplier_id,omitempty"`
	Items      []POItem           `bson:"items" json:"items"`
	Status     string             `bson:"status" json:"status"`
	CreatedBy  primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
