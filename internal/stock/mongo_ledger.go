package stock

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoLedger struct {
	products *mongo.Collection
}

// NewMongoLedger builds a Ledger over the products collection. The stock
// field is mutated only through $inc guarded by a $gte filter, so the
// check and the write are a single atomic operation on the server.
func NewMongoLedger(db *mongo.Database) Ledger {
	return &mongoLedger{products: db.Collection("products")}
}

func (l *mongoLedger) Decrement(ctx context.Context, productID primitive.ObjectID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("decrement quantity must be positive, got %d", qty)
	}

	filter := bson.M{"_id": productID, "stock": bson.M{"$gte": qty}}
	update := bson.M{
		"$inc": bson.M{"stock": -qty},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := l.products.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: either the product is gone or the floor would be
	// crossed. Tell the two apart so callers can report 404 vs 400.
	n, err := l.products.CountDocuments(ctx, bson.M{"_id": productID})
	if err != nil {
		return fmt.Errorf("failed to check product existence: %w", err)
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return ErrInsufficientStock
}

func (l *mongoLedger) Increment(ctx context.Context, productID primitive.ObjectID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("increment quantity must be positive, got %d", qty)
	}

	filter := bson.M{"_id": productID}
	update := bson.M{
		"$inc": bson.M{"stock": qty},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := l.products.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to increment stock: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}
