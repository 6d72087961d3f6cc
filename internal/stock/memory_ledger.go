package stock

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryLedger implements Ledger with in-memory counters. Used by tests and
// local runs without a database; the mutex gives the same serialization the
// Mongo ledger gets from server-side atomic updates.
type MemoryLedger struct {
	mu     sync.Mutex
	stocks map[primitive.ObjectID]int
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{stocks: make(map[primitive.ObjectID]int)}
}

// SetStock sets the stock level for a product (initialization only).
func (l *MemoryLedger) SetStock(productID primitive.ObjectID, qty int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stocks[productID] = qty
}

// Stock returns the current stock level for a product.
func (l *MemoryLedger) Stock(productID primitive.ObjectID) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	qty, ok := l.stocks[productID]
	return qty, ok
}

func (l *MemoryLedger) Decrement(_ context.Context, productID primitive.ObjectID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("decrement quantity must be positive, got %d", qty)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current, ok := l.stocks[productID]
	if !ok {
		return ErrProductNotFound
	}
	if current < qty {
		return ErrInsufficientStock
	}
	l.stocks[productID] = current - qty
	return nil
}

func (l *MemoryLedger) Increment(_ context.Context, productID primitive.ObjectID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("increment quantity must be positive, got %d", qty)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.stocks[productID]; !ok {
		return ErrProductNotFound
	}
	l.stocks[productID] += qty
	return nil
}
