package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReceiptStatusPreparing = "Preparing for shipment"
	ReceiptStatusError     = "Error placing order."
)

// OrderRequest is the caller's input to the intake workflow. OrderJSON holds
// the line items as a JSON array and is retained verbatim on the Order.
type OrderRequest struct {
	CustomerName     string `json:"customer_name"`
	OrderDescription string `json:"order_description"`
	OrderJSON        string `json:"order_json"`
}

// OrderLineItem field names match the JSON payload embedded in OrderRequest.
type OrderLineItem struct {
	ItemDescription string `json:"ItemDescription"`
	ItemNumber      int    `json:"ItemNumber"`
	Quantity        int    `json:"Quantity"`
	InStock         bool   `json:"InStock"`
}

type Order struct {
	ID               uuid.UUID       `json:"id"`
	CustomerName     string          `json:"customer_name"`
	OrderDate        time.Time       `json:"order_date"`
	OrderDescription string          `json:"order_description"`
	OrderJSON        string          `json:"order_json"`
	Lines            []OrderLineItem `json:"lines"`
}

type OrderReceipt struct {
	CustomerName     string     `json:"customer_name,omitempty"`
	OrderDate        time.Time  `json:"order_date,omitzero"`
	OrderID          uuid.UUID  `json:"order_id,omitzero"`
	OrderDescription string     `json:"order_description,omitempty"`
	Status           string     `json:"status"`
	DeliveryEstimate *time.Time `json:"delivery_estimate,omitempty"`
}

// Failed reports whether the receipt is the degraded receipt returned when
// an order could not be placed.
func (r *OrderReceipt) Failed() bool {
	return r.Status == ReceiptStatusError
}
