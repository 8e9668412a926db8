package orders

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/order-intake/internal/domain"
	"github.com/joao-fontenele/order-intake/internal/intake"
)

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Process(ctx context.Context, req domain.OrderRequest) (*domain.OrderReceipt, error) {
	args := m.Called(ctx, req)
	receipt, _ := args.Get(0).(*domain.OrderReceipt)
	return receipt, args.Error(1)
}

type mockReader struct {
	mock.Mock
}

func (m *mockReader) GetOrderDetails(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

func (m *mockReader) ListOrders(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]domain.Order)
	return orders, args.Error(1)
}

func newTestMux(processor OrderProcessor, reader OrderReader) *http.ServeMux {
	handler := NewHandler(processor, reader, slog.New(slog.NewTextHandler(io.Discard, nil)))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /orders", handler.HandleList)
	mux.HandleFunc("POST /orders", handler.HandleCreate)
	mux.HandleFunc("GET /orders/{id}", handler.HandleGet)
	return mux
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHandler_HandleCreate(t *testing.T) {
	const body = `{"customer_name":"Brian Lee","order_description":"games","items":[{"ItemNumber":16575,"Quantity":1}]}`

	t.Run("returns 201 with the receipt when placed", func(t *testing.T) {
		orderID := uuid.New()
		processor := &mockProcessor{}
		processor.On("Process", mock.Anything, domain.OrderRequest{
			CustomerName:     "Brian Lee",
			OrderDescription: "games",
			OrderJSON:        `[{"ItemNumber":16575,"Quantity":1}]`,
		}).Return(&domain.OrderReceipt{
			CustomerName: "Brian Lee",
			OrderID:      orderID,
			Status:       domain.ReceiptStatusPreparing,
		}, nil)

		rec := httptest.NewRecorder()
		newTestMux(processor, &mockReader{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var receipt domain.OrderReceipt
		decodeBody(t, rec, &receipt)
		assert.Equal(t, orderID, receipt.OrderID)
		assert.Equal(t, domain.ReceiptStatusPreparing, receipt.Status)
		processor.AssertExpectations(t)
	})

	t.Run("returns 202 with the degraded receipt", func(t *testing.T) {
		processor := &mockProcessor{}
		processor.On("Process", mock.Anything, mock.Anything).
			Return(&domain.OrderReceipt{Status: domain.ReceiptStatusError}, nil)

		rec := httptest.NewRecorder()
		newTestMux(processor, &mockReader{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

		assert.Equal(t, http.StatusAccepted, rec.Code)

		var receipt domain.OrderReceipt
		decodeBody(t, rec, &receipt)
		assert.Equal(t, domain.ReceiptStatusError, receipt.Status)
	})

	t.Run("returns 400 on validation error", func(t *testing.T) {
		processor := &mockProcessor{}
		processor.On("Process", mock.Anything, mock.Anything).
			Return(nil, &intake.ValidationError{Field: "customer name"})

		rec := httptest.NewRecorder()
		newTestMux(processor, &mockReader{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"items":[]}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp map[string]string
		decodeBody(t, rec, &resp)
		assert.Contains(t, resp["error"], "customer name is required")
	})

	t.Run("returns 400 on malformed body without processing", func(t *testing.T) {
		processor := &mockProcessor{}

		rec := httptest.NewRecorder()
		newTestMux(processor, &mockReader{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		processor.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
	})
}

func TestHandler_HandleGet(t *testing.T) {
	orderID := uuid.MustParse("9fcc76b3-6c7f-4ea8-a0cf-f883f013875b")

	t.Run("returns the order", func(t *testing.T) {
		reader := &mockReader{}
		reader.On("GetOrderDetails", mock.Anything, orderID).
			Return(&domain.Order{ID: orderID, CustomerName: "Brian Lee"}, nil)

		rec := httptest.NewRecorder()
		newTestMux(&mockProcessor{}, reader).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+orderID.String(), nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var order domain.Order
		decodeBody(t, rec, &order)
		assert.Equal(t, "Brian Lee", order.CustomerName)
	})

	t.Run("returns 404 when absent", func(t *testing.T) {
		reader := &mockReader{}
		reader.On("GetOrderDetails", mock.Anything, orderID).Return(nil, nil)

		rec := httptest.NewRecorder()
		newTestMux(&mockProcessor{}, reader).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+orderID.String(), nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("returns 400 on invalid id", func(t *testing.T) {
		reader := &mockReader{}

		rec := httptest.NewRecorder()
		newTestMux(&mockProcessor{}, reader).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/not-a-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		reader.AssertNotCalled(t, "GetOrderDetails", mock.Anything, mock.Anything)
	})

	t.Run("returns 500 on store error", func(t *testing.T) {
		reader := &mockReader{}
		reader.On("GetOrderDetails", mock.Anything, orderID).Return(nil, errors.New("timeout"))

		rec := httptest.NewRecorder()
		newTestMux(&mockProcessor{}, reader).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+orderID.String(), nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandler_HandleList(t *testing.T) {
	reader := &mockReader{}
	reader.On("ListOrders", mock.Anything).Return([]domain.Order{
		{ID: uuid.New(), CustomerName: "Brian Lee"},
		{ID: uuid.New(), CustomerName: "Dwayne Stammer"},
	}, nil)

	rec := httptest.NewRecorder()
	newTestMux(&mockProcessor{}, reader).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var orders []domain.Order
	decodeBody(t, rec, &orders)
	assert.Len(t, orders, 2)
}
