// Package notify publishes order-confirmation events for downstream
// consumers (email sender, analytics). Delivery is best-effort from the
// checkout path's point of view.
package notify

import (
	"context"

	"github.com/cartway/shop-backend/internal/domain"
)

type Notifier interface {
	OrderConfirmed(ctx context.Context, order *domain.Order) error
}

// NoopNotifier drops every event. Used when no broker is configured.
type NoopNotifier struct{}

func (NoopNotifier) OrderConfirmed(context.Context, *domain.Order) error { return nil }
