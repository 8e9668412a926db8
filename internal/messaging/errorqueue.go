package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/joao-fontenele/order-intake/internal/domain"
)

const OrderFailedTopic = "order.failed"

type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// ErrorQueue forwards order requests that could not be placed to Kafka,
// keyed by customer name.
type ErrorQueue struct {
	publisher Publisher
}

func NewErrorQueue(publisher Publisher) *ErrorQueue {
	return &ErrorQueue{publisher: publisher}
}

func (q *ErrorQueue) SendToQueue(ctx context.Context, req domain.OrderRequest) error {
	value, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode failed order: %w", err)
	}

	if err := q.publisher.Publish(ctx, req.CustomerName, value); err != nil {
		return fmt.Errorf("send failed order: %w", err)
	}
	return nil
}
