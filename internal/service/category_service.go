package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cartway/shop-backend/internal/domain"
	"github.com/cartway/shop-backend/internal/repository"
)

// CategoryService walks the category tree over its parent-reference
// adjacency list. Traversal is iterative with a visited set, so a corrupted
// parent link cannot recurse forever.
type CategoryService struct {
	categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) Create(ctx context.Context, name, description string, parentID *primitive.ObjectID) (*domain.Category, error) {
	if parentID != nil {
		if _, err := s.categories.GetCategory(ctx, *parentID); err != nil {
			return nil, err
		}
	}

	category := &domain.Category{
		Name:        name,
		Description: description,
		ParentID:    parentID,
	}
	if err := s.categories.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// Subtree returns the category and all of its descendants as a tree.
func (s *CategoryService) Subtree(ctx context.Context, id primitive.ObjectID) (*domain.CategoryTree, error) {
	root, err := s.categories.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	visited := map[primitive.ObjectID]bool{id: true}
	tree := &domain.CategoryTree{Category: *root}

	// Iterative walk; each frame points at the node whose children are
	// being expanded next.
	stack := []*domain.CategoryTree{tree}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := s.categories.ListChildren(ctx, node.Category.ID)
		if err != nil {
			return nil, err
		}

		for _, child := range children {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			node.Children = append(node.Children, domain.CategoryTree{Category: child})
		}
		for i := range node.Children {
			stack = append(stack, &node.Children[i])
		}
	}

	return tree, nil
}

// DeleteCascade removes the category and every descendant. Returns how many
// categories were deleted.
func (s *CategoryService) DeleteCascade(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if _, err := s.categories.GetCategory(ctx, id); err != nil {
		return 0, err
	}

	visited := map[primitive.ObjectID]bool{id: true}
	toDelete := []primitive.ObjectID{id}

	queue := []primitive.ObjectID{id}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]

		children, err := s.categories.ListChildren(ctx, parent)
		if err != nil {
			return 0, err
		}
		for _, child := range children {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			toDelete = append(toDelete, child.ID)
			queue = append(queue, child.ID)
		}
	}

	return s.categories.DeleteCategories(ctx, toDelete)
}
