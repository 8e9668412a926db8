package worker

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/joao-fontenele/order-intake/internal/domain"
)

type DeadLetterRepository struct {
	db *sql.DB
}

func NewDeadLetterRepository(db *sql.DB) *DeadLetterRepository {
	return &DeadLetterRepository{db: db}
}

// Save is idempotent per topic, partition and offset, so a redelivered
// message is archived once.
func (r *DeadLetterRepository) Save(ctx context.Context, failed domain.FailedOrder) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO failed_orders (id, customer_name, order_description, order_json, raw_payload, topic, partition, "offset", received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (topic, partition, "offset") DO NOTHING
	`, uuid.New(), failed.Request.CustomerName, failed.Request.OrderDescription, failed.Request.OrderJSON,
		failed.RawPayload, failed.Topic, failed.Partition, failed.Offset, failed.ReceivedAt)
	return err
}
