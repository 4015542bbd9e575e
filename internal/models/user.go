package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser     = "user"
	RoleAdmin    = "admin"
	RoleGardener = "gardener"
)

// ValidRole reports whether role is one of the known permission tiers.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleGardener:
		return true
	}
	return false
}

// User represents an account. Role determines route access.
type User struct {
	ID           primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Username     string                 `bson:"username" json:"username"`
	Email        string                 `bson:"email" json:"email"`
	PasswordHash string                 `bson:"password" json:"-"`
	Role         string                 `bson:"role" json:"role"`
	CartData     map[string]interface{} `bson:"cartData" json:"cartData"`
	CreatedAt    time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time              `bson:"updatedAt" json:"updatedAt"`
}
