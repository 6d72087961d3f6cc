package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	Pictures    []string             `bson:"pictures" json:"pictures"`
	Stock       int                  `bson:"stock" json:"stock"`
	Price       float64              `bson:"price" json:"price"`
	Categories  []primitive.ObjectID `bson:"categories" json:"categories"`
	CreatedAt   time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updatedAt"`
}
