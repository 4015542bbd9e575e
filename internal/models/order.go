package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusPacked     = "packed"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderStatuses lists every legal status value in display order.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusPacked,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether status is one of the six known values.
// Any known status may replace any other; delivered and cancelled are
// terminal by convention only.
func ValidOrderStatus(status string) bool {
	validStatuses := map[string]bool{
		OrderStatusPending:    true,
		OrderStatusProcessing: true,
		OrderStatusPacked:     true,
		OrderStatusShipped:    true,
		OrderStatusDelivered:  true,
		OrderStatusCancelled:  true,
	}
	return validStatuses[status]
}

// OrderItem represents a single product entry within an order.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
}

// ShippingAddress captures the delivery contact details for an order.
type ShippingAddress struct {
	FullName   string `bson:"fullName" json:"fullName"`
	Email      string `bson:"email" json:"email"`
	PhoneNo    string `bson:"phoneNo" json:"phoneNo"`
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
}

// Order defines the persisted order document.
type Order struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID          *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	Products        []OrderItem         `bson:"products" json:"products"`
	ShippingAddress ShippingAddress     `bson:"shippingAddress" json:"shippingAddress"`
	TotalAmount     float64             `bson:"totalAmount" json:"totalAmount"`
	Status          string              `bson:"status" json:"status"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
}
