package services

import (
	"context"
	"time"

	"lightbox/internal/domain/models"
	"lightbox/internal/payment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Variant(ctx context.Context, id uuid.UUID) (models.ProductVariant, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.ProductVariant), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListActiveVariants(ctx context.Context) ([]models.ProductVariant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.ProductVariant), args.Error(1)
}

func (m *MockProductRepository) GetVariant(ctx context.Context, id uuid.UUID) (models.ProductVariant, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.ProductVariant), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

// CreateOrder возвращает заказ как есть, если в Return передан nil
func (m *MockOrderRepository) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	args := m.Called(ctx, order)
	if o, ok := args.Get(0).(models.Order); ok {
		return o, args.Error(1)
	}
	return order, args.Error(1)
}

func (m *MockOrderRepository) AttachPaymentSession(ctx context.Context, orderID uuid.UUID, sessionID, sessionURL string) error {
	return m.Called(ctx, orderID, sessionID, sessionURL).Error(0)
}

func (m *MockOrderRepository) SetPaymentStatus(ctx context.Context, orderID uuid.UUID, status models.PaymentStatus) error {
	return m.Called(ctx, orderID, status).Error(0)
}

func (m *MockOrderRepository) GetOrderByIDAndSession(ctx context.Context, orderID uuid.UUID, sessionID string) (models.Order, error) {
	args := m.Called(ctx, orderID, sessionID)
	return args.Get(0).(models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetOrderByIdempotencyKey(ctx context.Context, key string) (models.Order, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListOrdersByGallery(ctx context.Context, galleryID uuid.UUID) ([]models.Order, error) {
	args := m.Called(ctx, galleryID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) FailStaleOrders(ctx context.Context, createdBefore time.Time) (int64, error) {
	args := m.Called(ctx, createdBefore)
	return args.Get(0).(int64), args.Error(1)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreateSession(ctx context.Context, req payment.SessionRequest) (payment.Session, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(payment.Session), args.Error(1)
}
