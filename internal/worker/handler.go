package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/joao-fontenele/order-intake/internal/domain"
	"github.com/joao-fontenele/order-intake/internal/messaging"
)

type DeadLetterStore interface {
	Save(ctx context.Context, failed domain.FailedOrder) error
}

// DeadLetterHandler archives requests drained from the error queue. It never
// replays them.
type DeadLetterHandler struct {
	store  DeadLetterStore
	logger *slog.Logger
	now    func() time.Time
}

func NewDeadLetterHandler(store DeadLetterStore, logger *slog.Logger) *DeadLetterHandler {
	return &DeadLetterHandler{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (h *DeadLetterHandler) Handle(ctx context.Context, msg messaging.Message) error {
	failed := domain.FailedOrder{
		RawPayload: msg.Value,
		Topic:      msg.Topic,
		Partition:  msg.Partition,
		Offset:     msg.Offset,
		ReceivedAt: h.now(),
	}

	// An undecodable payload is still archived so the offset can be committed.
	if err := json.Unmarshal(msg.Value, &failed.Request); err != nil {
		h.logger.Warn("undecodable order request on error queue", "error", err, "offset", msg.Offset)
	}

	if err := h.store.Save(ctx, failed); err != nil {
		return fmt.Errorf("save failed order: %w", err)
	}

	h.logger.Info("failed order archived",
		"customer_name", failed.Request.CustomerName,
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
	)
	return nil
}
