package service

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart            = errors.New("cart is empty, nothing to checkout")
	ErrInvalidQuantity      = errors.New("quantity must be a positive integer")
	ErrNegativeQuantity     = errors.New("quantity must not be negative")
	ErrCannotCreateCart     = errors.New("cannot create cart with non-positive quantity")
	ErrItemNotInCart        = errors.New("cannot update item not in cart with non-positive quantity")
	ErrCartItemNotFound     = errors.New("item not found in cart")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// InsufficientStockError reports the current stock and the quantity that was
// asked for. With a product name set it takes the checkout wording, which
// names the product that sank the whole attempt.
type InsufficientStockError struct {
	ProductName string
	Stock       int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	if e.ProductName != "" {
		return fmt.Sprintf("insufficient stock for product: %s", e.ProductName)
	}
	return fmt.Sprintf("insufficient stock available. current stock: %d, requested: %d", e.Stock, e.Requested)
}
