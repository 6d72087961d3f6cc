package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Cart struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"userId"`
	Items      []CartItem         `bson:"items" json:"items"`
	TotalPrice float64            `bson:"total_cart_price" json:"totalCartPrice"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}

type CartItem struct {
	ProductID  primitive.ObjectID `bson:"product_id" json:"productId"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	Price      float64            `bson:"price" json:"price"`
	TotalPrice float64            `bson:"total_price" json:"totalPrice"`

	// Product is resolved on reads, never persisted with the cart.
	Product *Product `bson:"-" json:"product,omitempty"`
}

// RecalculateTotal recomputes the cart total from its line totals.
// Client input is never trusted for this field.
func (c *Cart) RecalculateTotal() {
	var total float64
	for _, item := range c.Items {
		total += item.TotalPrice
	}
	c.TotalPrice = total
}

// FindItem returns the index of the line holding productID, or -1.
func (c *Cart) FindItem(productID primitive.ObjectID) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
