// Package receipt renders customer receipts for placed orders.
package receipt

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/order-intake/internal/domain"
)

const banner = "**********************************************************"

// ConsoleWriter prints a text receipt for each order and returns the receipt
// the customer sees. It is safe for concurrent use.
type ConsoleWriter struct {
	mu       sync.Mutex
	out      io.Writer
	leadTime time.Duration
}

func NewConsoleWriter(out io.Writer, leadTime time.Duration) *ConsoleWriter {
	return &ConsoleWriter{out: out, leadTime: leadTime}
}

func (w *ConsoleWriter) GenerateReceipt(_ context.Context, order *domain.Order, orderID uuid.UUID) (*domain.OrderReceipt, error) {
	var sb strings.Builder
	sb.WriteString(banner + "\n")
	fmt.Fprintf(&sb, "Customer: %s\n", order.CustomerName)
	fmt.Fprintf(&sb, "Order Id: %s\n", orderID)
	fmt.Fprintf(&sb, "Order Date: %s\n", order.OrderDate.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Order Description: %s\n", order.OrderDescription)
	fmt.Fprintf(&sb, "Order: %s\n", order.OrderJSON)
	for _, line := range order.Lines {
		fmt.Fprintf(&sb, "  #%d %s x%d in stock: %t\n", line.ItemNumber, line.ItemDescription, line.Quantity, line.InStock)
	}
	sb.WriteString(banner + "\n")

	w.mu.Lock()
	_, err := io.WriteString(w.out, sb.String())
	w.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("write receipt: %w", err)
	}

	estimate := order.OrderDate.Add(w.leadTime)
	return &domain.OrderReceipt{
		CustomerName:     order.CustomerName,
		OrderDate:        order.OrderDate,
		OrderID:          orderID,
		OrderDescription: order.OrderDescription,
		Status:           domain.ReceiptStatusPreparing,
		DeliveryEstimate: &estimate,
	}, nil
}
