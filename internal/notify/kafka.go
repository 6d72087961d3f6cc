package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/cartway/shop-backend/internal/domain"
)

type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(brokers ...string) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-confirmations",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaNotifier{writer: w}
}

func (n *KafkaNotifier) OrderConfirmed(ctx context.Context, order *domain.Order) error {
	payload := map[string]interface{}{
		"order_id":     order.ID.Hex(),
		"user_id":      order.UserID.Hex(),
		"total_price":  order.TotalPrice,
		"confirmed_at": time.Now().UTC(),
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal confirmation payload: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID.Hex()), // order id for per-order ordering
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order-confirmed")},
		},
	}

	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish confirmation: %w", err)
	}

	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
