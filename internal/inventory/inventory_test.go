package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/order-intake/internal/domain"
)

var stockColumns = []string{"item_number", "description", "available", "reserved"}

func newTestMux(t *testing.T) (*http.ServeMux, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	handler := NewHandler(NewInventoryRepository(db), slog.New(slog.NewTextHandler(io.Discard, nil)))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /stock", handler.HandleListStock)
	mux.HandleFunc("GET /stock/{itemNumber}", handler.HandleGetStock)
	return mux, mock
}

func TestHandler_HandleListStock(t *testing.T) {
	mux, mock := newTestMux(t)
	mock.ExpectQuery("SELECT item_number, description, available, reserved").
		WillReturnRows(sqlmock.NewRows(stockColumns).
			AddRow(16575, "Stadium Events", 3, 0).
			AddRow(58654, "Little Samson", 0, 0))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stock", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var items []domain.StockLevel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Available)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_HandleGetStock(t *testing.T) {
	t.Run("returns the stock level", func(t *testing.T) {
		mux, mock := newTestMux(t)
		mock.ExpectQuery("SELECT item_number").
			WithArgs(16575).
			WillReturnRows(sqlmock.NewRows(stockColumns).AddRow(16575, "Stadium Events", 3, 1))

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stock/16575", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var stock domain.StockLevel
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stock))
		assert.Equal(t, domain.StockLevel{ItemNumber: 16575, Description: "Stadium Events", Available: 3, Reserved: 1}, stock)
	})

	t.Run("returns 404 for unknown item", func(t *testing.T) {
		mux, mock := newTestMux(t)
		mock.ExpectQuery("SELECT item_number").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows(stockColumns))

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stock/1", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("returns 400 for non-numeric item", func(t *testing.T) {
		mux, mock := newTestMux(t)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stock/abc", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns 500 on query error", func(t *testing.T) {
		mux, mock := newTestMux(t)
		mock.ExpectQuery("SELECT item_number").WillReturnError(errors.New("connection reset"))

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stock/16575", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestInventoryRepository_ListAllEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT item_number").WillReturnRows(sqlmock.NewRows(stockColumns))

	items, err := NewInventoryRepository(db).ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
