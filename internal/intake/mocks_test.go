package intake

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/joao-fontenele/order-intake/internal/domain"
)

type mockReceiptRenderer struct {
	mock.Mock
}

func (m *mockReceiptRenderer) GenerateReceipt(ctx context.Context, order *domain.Order, orderID uuid.UUID) (*domain.OrderReceipt, error) {
	args := m.Called(ctx, order, orderID)
	receipt, _ := args.Get(0).(*domain.OrderReceipt)
	return receipt, args.Error(1)
}

type mockOrderStore struct {
	mock.Mock
}

func (m *mockOrderStore) InsertOrder(ctx context.Context, order *domain.Order) (uuid.UUID, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockOrderStore) GetOrderDetails(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

func (m *mockOrderStore) QuantityAvailable(ctx context.Context, itemNumber int) (int, error) {
	args := m.Called(ctx, itemNumber)
	return args.Int(0), args.Error(1)
}

type mockErrorSink struct {
	mock.Mock
}

func (m *mockErrorSink) SendToQueue(ctx context.Context, req domain.OrderRequest) error {
	return m.Called(ctx, req).Error(0)
}
