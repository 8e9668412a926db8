// Package intake implements the order-intake workflow: validate the request,
// resolve line-item availability, persist the order and produce a receipt.
package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/joao-fontenele/order-intake/internal/domain"
)

var tracer = otel.Tracer("intake")

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

var errEmptyReceipt = errors.New("renderer returned a receipt without status")

type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s is required", ErrValidation, e.Field)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type OrderStore interface {
	InsertOrder(ctx context.Context, order *domain.Order) (uuid.UUID, error)
	// GetOrderDetails returns nil, nil when no order has the given id.
	GetOrderDetails(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	QuantityAvailable(ctx context.Context, itemNumber int) (int, error)
}

type ReceiptRenderer interface {
	GenerateReceipt(ctx context.Context, order *domain.Order, orderID uuid.UUID) (*domain.OrderReceipt, error)
}

type ErrorSink interface {
	SendToQueue(ctx context.Context, req domain.OrderRequest) error
}

type Processor struct {
	renderer ReceiptRenderer
	store    OrderStore
	sink     ErrorSink
	logger   *slog.Logger
	metrics  *processorMetrics
}

func NewProcessor(renderer ReceiptRenderer, store OrderStore, sink ErrorSink, logger *slog.Logger) (*Processor, error) {
	metrics, err := newProcessorMetrics(otel.Meter("intake"))
	if err != nil {
		return nil, fmt.Errorf("create intake metrics: %w", err)
	}

	return &Processor{
		renderer: renderer,
		store:    store,
		sink:     sink,
		logger:   logger,
		metrics:  metrics,
	}, nil
}

// Process runs one request through the workflow. The only error it returns is
// a *ValidationError, raised before any collaborator is touched. Every later
// failure is reported to the error sink and turned into a degraded receipt.
func (p *Processor) Process(ctx context.Context, req domain.OrderRequest) (*domain.OrderReceipt, error) {
	if req.CustomerName == "" {
		p.metrics.record(ctx, outcomeRejected)
		return nil, &ValidationError{Field: "customer name"}
	}

	ctx, span := tracer.Start(ctx, "intake.Process")
	defer span.End()

	receipt, err := p.placeOrder(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.Error("failed to place order", "error", err, "customer_name", req.CustomerName)

		// The request may have failed because ctx was cancelled; the queue
		// still has to receive it.
		if sinkErr := p.sink.SendToQueue(context.WithoutCancel(ctx), req); sinkErr != nil {
			p.logger.Error("failed to send order to error queue", "error", sinkErr, "customer_name", req.CustomerName)
		}

		p.metrics.record(ctx, outcomeFailed)
		return &domain.OrderReceipt{Status: domain.ReceiptStatusError}, nil
	}

	p.metrics.record(ctx, outcomePlaced)
	return receipt, nil
}

func (p *Processor) placeOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderReceipt, error) {
	lines, err := decodeLines(req.OrderJSON)
	if err != nil {
		return nil, err
	}

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.Int("order.line_items", len(lines)))

	if err := p.checkItemsInStock(ctx, lines); err != nil {
		return nil, err
	}

	order := &domain.Order{
		CustomerName:     req.CustomerName,
		OrderDate:        time.Now().UTC(),
		OrderDescription: req.OrderDescription,
		OrderJSON:        req.OrderJSON,
		Lines:            lines,
	}

	orderID, err := p.store.InsertOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	order.ID = orderID
	span.SetAttributes(attribute.String("order.id", orderID.String()))

	receipt, err := p.renderer.GenerateReceipt(ctx, order, orderID)
	if err != nil {
		return nil, fmt.Errorf("generate receipt: %w", err)
	}
	if receipt == nil || receipt.Status == "" {
		return nil, errEmptyReceipt
	}

	p.logger.Info("order placed", "order_id", orderID, "customer_name", order.CustomerName, "line_items", len(lines))
	return receipt, nil
}

// checkItemsInStock queries availability one line at a time, in payload order.
func (p *Processor) checkItemsInStock(ctx context.Context, lines []domain.OrderLineItem) error {
	for i := range lines {
		available, err := p.store.QuantityAvailable(ctx, lines[i].ItemNumber)
		if err != nil {
			return fmt.Errorf("check availability of item %d: %w", lines[i].ItemNumber, err)
		}
		lines[i].InStock = available > 0
		p.metrics.recordAvailability(ctx, lines[i].InStock)
	}
	return nil
}

func decodeLines(payload string) ([]domain.OrderLineItem, error) {
	if strings.TrimSpace(payload) == "" {
		return []domain.OrderLineItem{}, nil
	}

	var lines []domain.OrderLineItem
	if err := json.Unmarshal([]byte(payload), &lines); err != nil {
		return nil, fmt.Errorf("decode order lines: %w", err)
	}
	if lines == nil {
		lines = []domain.OrderLineItem{}
	}

	// InStock is computed here, never trusted from the caller.
	for i := range lines {
		lines[i].InStock = false
	}
	return lines, nil
}

type outcome string

const (
	outcomePlaced   outcome = "placed"
	outcomeFailed   outcome = "failed"
	outcomeRejected outcome = "rejected"
)

type processorMetrics struct {
	orders             metric.Int64Counter
	availabilityChecks metric.Int64Counter
}

func newProcessorMetrics(meter metric.Meter) (*processorMetrics, error) {
	orders, err := meter.Int64Counter("intake.orders",
		metric.WithDescription("Order requests handled by the intake workflow, by outcome"),
	)
	if err != nil {
		return nil, err
	}

	checks, err := meter.Int64Counter("intake.availability_checks",
		metric.WithDescription("Inventory availability queries issued per line item"),
	)
	if err != nil {
		return nil, err
	}

	return &processorMetrics{orders: orders, availabilityChecks: checks}, nil
}

func (m *processorMetrics) record(ctx context.Context, o outcome) {
	m.orders.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(o))))
}

func (m *processorMetrics) recordAvailability(ctx context.Context, inStock bool) {
	m.availabilityChecks.Add(ctx, 1, metric.WithAttributes(attribute.Bool("in_stock", inStock)))
}
