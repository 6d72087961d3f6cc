// Package stock is the authoritative counter of purchasable inventory.
// All mutation goes through an atomic conditional decrement; callers never
// read-modify-write stock in their own memory.
package stock

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Ledger exposes atomic per-product stock mutation. Decrement refuses to
// drive stock below zero and reports that distinctly from success; a ledger
// rejection is authoritative over any advisory availability check made
// upstream.
type Ledger interface {
	// Decrement atomically subtracts qty iff the remaining stock stays >= 0.
	// Returns ErrInsufficientStock when it would go negative.
	Decrement(ctx context.Context, productID primitive.ObjectID, qty int) error

	// Increment adds qty back (restock / compensation).
	Increment(ctx context.Context, productID primitive.ObjectID, qty int) error
}
