package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GardenerProfile is keyed by its generated _id; email carries a unique
// index but is a mutable attribute. UserID links the profile to its
// account when one exists.
type GardenerProfile struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID         *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	Name           string              `bson:"name,omitempty" json:"name,omitempty"`
	Email          string              `bson:"email" json:"email"`
	Phone          string              `bson:"phone" json:"phone"`
	Location       string              `bson:"location" json:"location"`
	Experience     string              `bson:"experience" json:"experience"`
	HourlyRate     float64             `bson:"hourlyRate" json:"hourlyRate"`
	MinimumHours   int                 `bson:"minimumHours" json:"minimumHours"`
	Certifications StringList          `bson:"certifications" json:"certifications"`
	Languages      StringList          `bson:"languages" json:"languages"`
	Bio            string              `bson:"bio" json:"bio"`
	FaceImage      string              `bson:"faceImage,omitempty" json:"faceImage,omitempty"`
	WorkImages     []string            `bson:"workImages" json:"workImages"`
	Rating         float64             `bson:"rating" json:"rating"`
	IsAvailable    bool                `bson:"isAvailable" json:"isAvailable"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}
