package httpapi

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cartway/shop-backend/internal/domain"
)

// Function-field mocks so each test pins down only the calls it cares about.

type mockCartAPI struct {
	getCart    func(ctx context.Context, userID primitive.ObjectID) (*domain.Cart, error)
	addItem    func(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*domain.Cart, error)
	updateItem func(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*domain.Cart, error)
	removeItem func(ctx context.Context, userID, productID primitive.ObjectID) (*domain.Cart, error)
	listAll    func(ctx context.Context) ([]domain.Cart, error)
}

func (m *mockCartAPI) GetCart(ctx context.Context, userID primitive.ObjectID) (*domain.Cart, error) {
	return m.getCart(ctx, userID)
}

func (m *mockCartAPI) AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*domain.Cart, error) {
	return m.addItem(ctx, userID, productID, quantity)
}

func (m *mockCartAPI) UpdateItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*domain.Cart, error) {
	return m.updateItem(ctx, userID, productID, quantity)
}

func (m *mockCartAPI) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*domain.Cart, error) {
	return m.removeItem(ctx, userID, productID)
}

func (m *mockCartAPI) ListAll(ctx context.Context) ([]domain.Cart, error) {
	return m.listAll(ctx)
}

type mockCheckoutAPI struct {
	createCheckout     func(ctx context.Context, userID primitive.ObjectID, method string) (string, error)
	updateStatus       func(ctx context.Context, orderID primitive.ObjectID, status string) (*domain.Order, error)
	getOrder           func(ctx context.Context, orderID primitive.ObjectID) (*domain.Order, error)
	listAllOrders      func(ctx context.Context) ([]domain.Order, error)
	handlePaymentEvent func(ctx context.Context, intentID, intentStatus string) error
}

func (m *mockCheckoutAPI) CreateCheckout(ctx context.Context, userID primitive.ObjectID, method string) (string, error) {
	return m.createCheckout(ctx, userID, method)
}

func (m *mockCheckoutAPI) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, status string) (*domain.Order, error) {
	return m.updateStatus(ctx, orderID, status)
}

func (m *mockCheckoutAPI) GetOrder(ctx context.Context, orderID primitive.ObjectID) (*domain.Order, error) {
	return m.getOrder(ctx, orderID)
}

func (m *mockCheckoutAPI) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	return m.listAllOrders(ctx)
}

func (m *mockCheckoutAPI) HandlePaymentEvent(ctx context.Context, intentID, intentStatus string) error {
	return m.handlePaymentEvent(ctx, intentID, intentStatus)
}

type mockCategoryAPI struct {
	create        func(ctx context.Context, name, description string, parentID *primitive.ObjectID) (*domain.Category, error)
	subtree       func(ctx context.Context, id primitive.ObjectID) (*domain.CategoryTree, error)
	deleteCascade func(ctx context.Context, id primitive.ObjectID) (int64, error)
}

func (m *mockCategoryAPI) Create(ctx context.Context, name, description string, parentID *primitive.ObjectID) (*domain.Category, error) {
	return m.create(ctx, name, description, parentID)
}

func (m *mockCategoryAPI) Subtree(ctx context.Context, id primitive.ObjectID) (*domain.CategoryTree, error) {
	return m.subtree(ctx, id)
}

func (m *mockCategoryAPI) DeleteCascade(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return m.deleteCascade(ctx, id)
}

// withUser plants the identity the auth middleware would have extracted.
func withUser(r *http.Request, userID primitive.ObjectID, admin bool) *http.Request {
	ctx := context.WithValue(r.Context(), ctxKeyUserID, userID)
	ctx = context.WithValue(ctx, ctxKeyAdmin, admin)
	return r.WithContext(ctx)
}
