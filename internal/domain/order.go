package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderCompleted  OrderStatus = "Completed"
	OrderCancelled  OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "Credit Card"
	PaymentPayPal       PaymentMethod = "PayPal"
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentPayPal, PaymentBankTransfer:
		return true
	}
	return false
}

// OrderItem is a line captured from the cart at checkout time. It is never
// re-derived from the live cart or live product price afterward.
type OrderItem struct {
	ProductID  primitive.ObjectID `bson:"product_id" json:"productId"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	Price      float64            `bson:"price" json:"price"`
	TotalPrice float64            `bson:"total_price" json:"totalPrice"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"userId"`
	Items           []OrderItem        `bson:"final_cart_items" json:"finalCartItems"`
	PaymentMethod   PaymentMethod      `bson:"payment_method" json:"paymentMethod"`
	TotalPrice      float64            `bson:"total_price" json:"totalPrice"`
	Status          OrderStatus        `bson:"status" json:"status"`
	PaymentIntentID string             `bson:"payment_intent_id" json:"paymentIntentId"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`

	// User carries display fields resolved for admin reads, never persisted
	// with the order.
	User *UserInfo `bson:"-" json:"user,omitempty"`
}
