package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role values a user account can hold.
const (
	RolePending    = "pending"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super-admin"
)

// Approval status values.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// User model
type User struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Username   string              `bson:"username" json:"username"`
	Email      string              `bson:"email" json:"email"`
	HPassword  string              `bson:"password" json:"-"`
	Role       string              `bson:"role" json:"role"`
	Status     string              `bson:"status" json:"status"`
	ApprovedBy *primitive.ObjectID `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	ApprovedAt *time.Time          `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
}

// IsAdmin reports whether the user passes the admin gate.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}
