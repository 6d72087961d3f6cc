package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskAdvanceToProcessing moves a still-pending order to Processing once the
// task comes due.
const TaskAdvanceToProcessing = "advance-to-processing"

// ScheduledTask is a durable, time-delayed instruction. Tasks survive process
// restarts; execution is at-least-once, so effects must be idempotent.
type ScheduledTask struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind      string             `bson:"kind" json:"taskKind"`
	OrderID   primitive.ObjectID `bson:"order_id" json:"orderId"`
	DueAt     time.Time          `bson:"due_at" json:"dueAt"`
	Done      bool               `bson:"done" json:"done"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
