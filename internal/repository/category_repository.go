package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cartway/shop-backend/internal/domain"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *domain.Category) error
	GetCategory(ctx context.Context, id primitive.ObjectID) (*domain.Category, error)
	ListChildren(ctx context.Context, parentID primitive.ObjectID) ([]domain.Category, error)
	DeleteCategories(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}

type mongoCategoryRepository struct {
	collection *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) CategoryRepository {
	return &mongoCategoryRepository{collection: db.Collection("categories")}
}

func (m *mongoCategoryRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	now := time.Now().UTC()
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	category.CreatedAt = now
	category.UpdatedAt = now

	if _, err := m.collection.InsertOne(ctx, category); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

func (m *mongoCategoryRepository) GetCategory(ctx context.Context, id primitive.ObjectID) (*domain.Category, error) {
	var category domain.Category

	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &category, nil
}

func (m *mongoCategoryRepository) ListChildren(ctx context.Context, parentID primitive.ObjectID) ([]domain.Category, error) {
	cursor, err := m.collection.Find(ctx, bson.M{"parent_category": parentID})
	if err != nil {
		return nil, fmt.Errorf("failed to list child categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []domain.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode child categories: %w", err)
	}

	return categories, nil
}

func (m *mongoCategoryRepository) DeleteCategories(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := m.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete categories: %w", err)
	}

	return result.DeletedCount, nil
}
