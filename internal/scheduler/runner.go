// Package scheduler drains the durable delayed-task store. The runner polls
// on its own timer loop, independent of request handling, and applies each
// due task's effect before marking it done, giving at-least-once execution
// with idempotent effects.
package scheduler

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cartway/shop-backend/internal/domain"
)

// TaskStore is the slice of the task repository the runner needs.
type TaskStore interface {
	DueTasks(ctx context.Context, now time.Time, limit int) ([]domain.ScheduledTask, error)
	MarkDone(ctx context.Context, id primitive.ObjectID) error
}

// OrderStore is the slice of the order repository the runner needs.
type OrderStore interface {
	AdvanceStatus(ctx context.Context, id primitive.ObjectID, from []domain.OrderStatus, to domain.OrderStatus) (bool, error)
}

type Runner struct {
	tasks    TaskStore
	orders   OrderStore
	interval time.Duration
	batch    int
}

func NewRunner(tasks TaskStore, orders OrderStore, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Runner{
		tasks:    tasks,
		orders:   orders,
		interval: interval,
		batch:    100,
	}
}

func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.Println("scheduled task runner started")

	for {
		select {
		case <-ticker.C:
			r.process(ctx)
		case <-ctx.Done():
			log.Println("scheduled task runner stopped")
			return
		}
	}
}

func (r *Runner) process(ctx context.Context) {
	due, err := r.tasks.DueTasks(ctx, time.Now().UTC(), r.batch)
	if err != nil {
		log.Printf("failed to fetch due tasks: %v", err)
		return
	}

	for _, task := range due {
		if err := r.execute(ctx, task); err != nil {
			// Leave the task pending; the next tick retries it.
			log.Printf("task %s failed: %v", task.ID.Hex(), err)
			continue
		}

		if err := r.tasks.MarkDone(ctx, task.ID); err != nil {
			// The effect is applied and idempotent, so re-running after a
			// failed mark is harmless.
			log.Printf("failed to mark task %s done: %v", task.ID.Hex(), err)
		}
	}
}

func (r *Runner) execute(ctx context.Context, task domain.ScheduledTask) error {
	switch task.Kind {
	case domain.TaskAdvanceToProcessing:
		advanced, err := r.orders.AdvanceStatus(ctx, task.OrderID,
			[]domain.OrderStatus{domain.OrderPending}, domain.OrderProcessing)
		if err != nil {
			return err
		}
		if advanced {
			log.Printf("order %s advanced to Processing", task.OrderID.Hex())
		}
		// Not advanced means the order already moved past Pending or was
		// cancelled; the task is a no-op either way.
		return nil
	default:
		log.Printf("dropping task %s with unknown kind %q", task.ID.Hex(), task.Kind)
		return nil
	}
}
