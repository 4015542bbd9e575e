package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	SubCategory string             `bson:"subCategory,omitempty" json:"subCategory,omitempty"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Weight      string             `bson:"weight,omitempty" json:"weight,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Images      []string           `bson:"images" json:"images"`
	Bestseller  bool               `bson:"bestseller" json:"bestseller"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
