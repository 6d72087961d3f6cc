// Package httpapi exposes the REST surface. Handlers depend on the small
// interfaces below rather than the concrete services, so tests can swap in
// mocks.
package httpapi

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cartway/shop-backend/internal/domain"
)

type CartAPI interface {
	GetCart(ctx context.Context, userID primitive.ObjectID) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*domain.Cart, error)
	UpdateItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*domain.Cart, error)
	ListAll(ctx context.Context) ([]domain.Cart, error)
}

type CheckoutAPI interface {
	CreateCheckout(ctx context.Context, userID primitive.ObjectID, method string) (string, error)
	UpdateStatus(ctx context.Context, orderID primitive.ObjectID, status string) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID primitive.ObjectID) (*domain.Order, error)
	ListAllOrders(ctx context.Context) ([]domain.Order, error)
	HandlePaymentEvent(ctx context.Context, intentID, intentStatus string) error
}

type CategoryAPI interface {
	Create(ctx context.Context, name, description string, parentID *primitive.ObjectID) (*domain.Category, error)
	Subtree(ctx context.Context, id primitive.ObjectID) (*domain.CategoryTree, error)
	DeleteCascade(ctx context.Context, id primitive.ObjectID) (int64, error)
}
