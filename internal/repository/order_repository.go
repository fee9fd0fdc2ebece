package repository

import (
	"context"

	"medkit/internal/domain/model"
)

type OrderListQuery struct {
	Page       int
	Limit      int
	Status     model.OrderStatus
	CustomerID string
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	FindForUpdate(ctx context.Context, orderID string) (model.Order, error)
	List(ctx context.Context, q OrderListQuery) ([]model.Order, int64, error)
	Create(ctx context.Context, order *model.Order) error
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error

	// 承認済みセッションから作られた注文（1セッション1注文）
	FindByCheckoutSessionID(ctx context.Context, sessionID string) (model.Order, bool, error)
	SetDelivery(ctx context.Context, orderID string, d model.DeliveryDetails) error

	// キャンセル以外の注文を集計
	StatsByCustomers(ctx context.Context, customerIDs []string) (map[string]CustomerStats, error)
}
