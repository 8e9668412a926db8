package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/joao-fontenele/order-intake/internal/domain"
	"github.com/joao-fontenele/order-intake/internal/intake"
)

type OrderProcessor interface {
	Process(ctx context.Context, req domain.OrderRequest) (*domain.OrderReceipt, error)
}

type OrderReader interface {
	GetOrderDetails(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

type Handler struct {
	processor OrderProcessor
	orders    OrderReader
	logger    *slog.Logger
}

func NewHandler(processor OrderProcessor, orders OrderReader, logger *slog.Logger) *Handler {
	return &Handler{
		processor: processor,
		orders:    orders,
		logger:    logger,
	}
}

// Items is kept as raw JSON so the order retains the payload verbatim.
type createOrderRequest struct {
	CustomerName     string          `json:"customer_name"`
	OrderDescription string          `json:"order_description"`
	Items            json.RawMessage `json:"items"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := h.processor.Process(r.Context(), domain.OrderRequest{
		CustomerName:     req.CustomerName,
		OrderDescription: req.OrderDescription,
		OrderJSON:        string(req.Items),
	})
	if err != nil {
		if errors.Is(err, intake.ErrValidation) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to process order", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if receipt.Failed() {
		h.logger.Warn("order not placed, forwarded to error queue", "customer_name", req.CustomerName)
		h.writeJSON(w, http.StatusAccepted, receipt)
		return
	}

	h.logger.Info("order created", "order_id", receipt.OrderID, "customer_name", receipt.CustomerName)
	h.writeJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orders.GetOrderDetails(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if order == nil {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}

	h.logger.Info("order retrieved", "order_id", order.ID)
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("orders listed", "count", len(orders))
	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
