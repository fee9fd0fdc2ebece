package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"medkit/internal/domain/model"
	"medkit/internal/infra/cache"
	"medkit/internal/infra/event"
	"medkit/internal/repository"
	"medkit/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type adminOrderFixture struct {
	orders    *MockOrderRepo
	items     *MockOrderItemRepo
	inventory *MockInventoryRepo
	audit     *MockAuditLogRepo
	events    *event.MemoryPublisher
	uc        *usecase.AdminOrderUsecase
}

func newAdminOrderFixture() adminOrderFixture {
	f := adminOrderFixture{
		orders:    new(MockOrderRepo),
		items:     new(MockOrderItemRepo),
		inventory: new(MockInventoryRepo),
		audit:     new(MockAuditLogRepo),
		events:    event.NewMemoryPublisher(zap.NewNop()),
	}
	tx := &MockTxManager{Repos: &MockTxRepos{
		OrdersRepo:     f.orders,
		OrderItemsRepo: f.items,
		InventoryRepo:  f.inventory,
		AuditLogsRepo:  f.audit,
	}}
	f.uc = usecase.NewAdminOrderUsecase(tx, usecase.NewOrderUsecase(f.orders), f.events, cache.NewMemoryClient(), zap.NewNop())
	return f
}

func order(status model.OrderStatus) model.Order {
	return model.Order{
		Base:        model.Base{ID: "o-1"},
		OrderNumber: "ORD-20260101-0001",
		CustomerID:  "c-1",
		Status:      status,
		TotalAmount: decimal.NewFromInt(30),
	}
}

func TestAdminOrderUsecase_UpdateStatus_Validation(t *testing.T) {
	f := newAdminOrderFixture()

	_, err := f.uc.UpdateStatus(context.Background(), "", "o-1", "shipped")
	requireHTTPError(t, err, http.StatusUnauthorized, "")

	_, err = f.uc.UpdateStatus(context.Background(), "a-1", "o-1", "lost")
	requireHTTPError(t, err, http.StatusBadRequest, "invalid status")

	f.orders.AssertNotCalled(t, "FindForUpdate", mock.Anything, mock.Anything)
}

func TestAdminOrderUsecase_UpdateStatus_NotFound(t *testing.T) {
	f := newAdminOrderFixture()
	f.orders.On("FindForUpdate", mock.Anything, "o-1").Return(model.Order{}, repository.ErrNotFound).Once()

	_, err := f.uc.UpdateStatus(context.Background(), "a-1", "o-1", "shipped")

	requireHTTPError(t, err, http.StatusNotFound, "Order not found")
}

func TestAdminOrderUsecase_UpdateStatus_Ships(t *testing.T) {
	f := newAdminOrderFixture()
	f.orders.On("FindForUpdate", mock.Anything, "o-1").Return(order(model.OrderStatusProcessing), nil).Once()
	f.orders.On("UpdateStatus", mock.Anything, "o-1", model.OrderStatusShipped).Return(nil).Once()
	f.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ActorID == "a-1" && l.ResourceID == "o-1" && l.Action == model.AuditActionUpdateOrderStatus
	})).Return(nil).Once()
	f.orders.On("FindByID", mock.Anything, "o-1").Return(order(model.OrderStatusShipped), nil).Once()

	view, err := f.uc.UpdateStatus(context.Background(), "a-1", "o-1", " SHIPPED ")

	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, view.Status)
	require.Len(t, f.events.Events(), 1)
	assert.Equal(t, event.OrderStatusChanged, f.events.Events()[0].Name)
	f.orders.AssertExpectations(t)
	f.audit.AssertExpectations(t)
	f.inventory.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminOrderUsecase_UpdateStatus_SameStatusIsNoop(t *testing.T) {
	f := newAdminOrderFixture()
	f.orders.On("FindForUpdate", mock.Anything, "o-1").Return(order(model.OrderStatusShipped), nil).Once()
	f.orders.On("FindByID", mock.Anything, "o-1").Return(order(model.OrderStatusShipped), nil).Once()

	_, err := f.uc.UpdateStatus(context.Background(), "a-1", "o-1", "shipped")

	require.NoError(t, err)
	assert.Empty(t, f.events.Events())
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminOrderUsecase_UpdateStatus_TerminalLocked(t *testing.T) {
	for _, from := range []model.OrderStatus{model.OrderStatusDelivered, model.OrderStatusCompleted, model.OrderStatusCancelled} {
		t.Run(string(from), func(t *testing.T) {
			f := newAdminOrderFixture()
			f.orders.On("FindForUpdate", mock.Anything, "o-1").Return(order(from), nil).Once()

			_, err := f.uc.UpdateStatus(context.Background(), "a-1", "o-1", "processing")

			requireHTTPError(t, err, http.StatusBadRequest, "cannot change "+string(from)+" order")
		})
	}
}

func TestAdminOrderUsecase_UpdateStatus_CancelRestocks(t *testing.T) {
	f := newAdminOrderFixture()
	f.orders.On("FindForUpdate", mock.Anything, "o-1").Return(order(model.OrderStatusPending), nil).Once()
	f.items.On("ListByOrderID", mock.Anything, "o-1").Return([]model.OrderItem{
		{ProductID: "p-1", BrandID: "b-1", Quantity: 2},
		{ProductID: "p-2", BrandID: "b-gone", Quantity: 1},
	}, nil).Once()
	f.inventory.On("IncreaseStock", mock.Anything, "b-1", 2).Return(nil).Once()
	f.inventory.On("IncreaseStock", mock.Anything, "b-gone", 1).Return(repository.ErrNotFound).Once()
	f.inventory.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(a model.InventoryAdjustment) bool {
		return a.BrandID == "b-1" && a.Delta == 2 && a.ActorID == "a-1"
	})).Return(nil).Once()
	f.orders.On("UpdateStatus", mock.Anything, "o-1", model.OrderStatusCancelled).Return(nil).Once()
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.orders.On("FindByID", mock.Anything, "o-1").Return(order(model.OrderStatusCancelled), nil).Once()

	view, err := f.uc.UpdateStatus(context.Background(), "a-1", "o-1", "cancelled")

	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, view.Status)
	f.inventory.AssertExpectations(t)
	f.items.AssertExpectations(t)
}
