package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cartway/shop-backend/internal/domain"
)

var ErrTaskNotFound = errors.New("scheduled task not found")

// TaskRepository stores durable delayed tasks. Records outlive the process;
// the scheduler polls DueTasks and calls MarkDone only after the task's
// effect has been applied, which gives at-least-once execution.
type TaskRepository interface {
	CreateTask(ctx context.Context, task *domain.ScheduledTask) error
	DueTasks(ctx context.Context, now time.Time, limit int) ([]domain.ScheduledTask, error)
	MarkDone(ctx context.Context, id primitive.ObjectID) error
}

type mongoTaskRepository struct {
	collection *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) TaskRepository {
	return &mongoTaskRepository{collection: db.Collection("scheduled_tasks")}
}

func (m *mongoTaskRepository) CreateTask(ctx context.Context, task *domain.ScheduledTask) error {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	task.CreatedAt = time.Now().UTC()

	if _, err := m.collection.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("failed to create scheduled task: %w", err)
	}

	return nil
}

func (m *mongoTaskRepository) DueTasks(ctx context.Context, now time.Time, limit int) ([]domain.ScheduledTask, error) {
	filter := bson.M{
		"done":   false,
		"due_at": bson.M{"$lte": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "due_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []domain.ScheduledTask
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode due tasks: %w", err)
	}

	return tasks, nil
}

func (m *mongoTaskRepository) MarkDone(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"done": true}}

	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to mark task done: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrTaskNotFound
	}

	return nil
}
