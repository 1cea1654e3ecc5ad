package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxProductImages caps how many images a single listing may carry.
const MaxProductImages = 10

// Product represents a seller-owned listing.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Seller      primitive.ObjectID `bson:"seller" json:"seller"`
	Category    primitive.ObjectID `bson:"category,omitempty" json:"category,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Weight      float64            `bson:"weight" json:"weight"`
	Images      []string           `bson:"images" json:"images"`
	Colors      []string           `bson:"colors" json:"colors"`
	Sizes       []string           `bson:"sizes" json:"sizes"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}
