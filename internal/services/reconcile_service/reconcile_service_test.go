package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"lightbox/internal/domain/models"
	"lightbox/internal/lib/logger/handlers/slogdiscard"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(models.Order), args.Error(1)
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

func TestReconciler_processOnce(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		count   int64
		repoErr error
	}{
		{name: "marks stale orders", count: 3},
		{name: "nothing to do", count: 0},
		{name: "repository failure", repoErr: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOrderRepository)
			repo.On("FailStaleOrders", ctx, now.Add(-30*time.Minute)).Return(tt.count, tt.repoErr).Once()

			r := NewReconciler(slogdiscard.NewDiscardLogger(), repo, time.Minute, 30*time.Minute)
			r.now = func() time.Time { return now }

			n, err := r.processOnce(ctx)
			if tt.repoErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "db down")
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.count, n)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestReconciler_StartStopsOnCancel(t *testing.T) {
	repo := new(MockOrderRepository)
	repo.On("FailStaleOrders", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(0), nil).Maybe()

	r := NewReconciler(slogdiscard.NewDiscardLogger(), repo, 10*time.Millisecond, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reconciler did not stop after cancel")
	}
}
