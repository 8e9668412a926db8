package inventory

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/joao-fontenele/order-intake/internal/domain"
)

type StockReader interface {
	ListAll(ctx context.Context) ([]domain.StockLevel, error)
	GetStock(ctx context.Context, itemNumber int) (*domain.StockLevel, error)
}

type Handler struct {
	repo   StockReader
	logger *slog.Logger
}

func NewHandler(repo StockReader, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

func (h *Handler) HandleListStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list stock", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("stock listed", "count", len(items))
	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) HandleGetStock(w http.ResponseWriter, r *http.Request) {
	itemNumber, err := strconv.Atoi(r.PathValue("itemNumber"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid item number")
		return
	}

	stock, err := h.repo.GetStock(r.Context(), itemNumber)
	if err != nil {
		h.logger.Error("failed to get stock", "error", err, "item_number", itemNumber)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if stock == nil {
		h.writeError(w, http.StatusNotFound, "item not found")
		return
	}

	h.logger.Info("stock retrieved", "item_number", itemNumber)
	h.writeJSON(w, http.StatusOK, stock)
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
