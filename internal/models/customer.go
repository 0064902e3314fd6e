package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project status values, driven one-way by the bid/schedule/complete/bill routes.
const (
	ProjectPending   = "Pending"
	ProjectBidded    = "Bidded"
	ProjectScheduled = "Scheduled"
	ProjectCompleted = "Completed"
	ProjectBilled    = "Billed"
)

// Material is a single line-item cost embedded in a project.
type Material struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Item     string             `bson:"item" json:"item"`
	Quantity float64            `bson:"quantity" json:"quantity"`
	Cost     float64            `bson:"cost" json:"cost"`
}

// Project is a job embedded in a customer document. It has no identity
// outside its parent.
type Project struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	BidAmount    float64            `bson:"bid_amount,omitempty" json:"bid_amount,omitempty"`
	BillAmount   float64            `bson:"bill_amount,omitempty" json:"bill_amount,omitempty"`
	Status       string             `bson:"status" json:"status"`
	ScheduleDate *time.Time         `bson:"schedule_date,omitempty" json:"schedule_date,omitempty"`
	Materials    []Material         `bson:"materials" json:"materials"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// Customer represents one client and owns its embedded projects.
type Customer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	Address   string             `bson:"address" json:"address"`
	Projects  []Project          `bson:"projects" json:"projects"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
