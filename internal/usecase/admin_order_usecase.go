package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"medkit/internal/domain/model"
	"medkit/internal/infra/cache"
	"medkit/internal/infra/event"
	repo "medkit/internal/repository"

	"go.uber.org/zap"
)

type AdminOrderUsecase struct {
	tx     repo.TransactionManager
	orders *OrderUsecase
	events event.Publisher
	cache  cache.Client
	log    *zap.Logger
}

// DI
func NewAdminOrderUsecase(tx repo.TransactionManager, orders *OrderUsecase, events event.Publisher, c cache.Client, log *zap.Logger) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, orders: orders, events: events, cache: c, log: log}
}

type OrderStatusChanged struct {
	OrderID    string            `json:"orderId"`
	CustomerID string            `json:"customerId"`
	From       model.OrderStatus `json:"from"`
	To         model.OrderStatus `json:"to"`
}

// ステータス更新（cancelled なら在庫戻し）。終端ステータスからは動かせない。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, adminID, orderID, status string) (OrderView, error) {
	if adminID == "" {
		return OrderView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	newStatus := model.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if !newStatus.Valid() {
		return OrderView{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var changed *OrderStatusChanged

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// すでに同じなら何もしない（200）
		if o.Status == newStatus {
			return nil
		}
		// 終端ガード
		if o.Status.Terminal() {
			return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("cannot change %s order", o.Status))
		}

		if newStatus == model.OrderStatusCancelled {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			for _, it := range items {
				if err := r.Inventory().IncreaseStock(ctx, it.BrandID, it.Quantity); err != nil {
					if errors.Is(err, repo.ErrNotFound) {
						// ブランドが消えていれば戻し先が無い
						continue
					}
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
					ProductID: it.ProductID,
					BrandID:   it.BrandID,
					ActorID:   adminID,
					Delta:     it.Quantity,
					Reason:    "order cancelled " + o.OrderNumber,
				}); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "Order not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorID:      adminID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   `{"status":"` + string(o.Status) + `"}`,
			AfterJSON:    `{"status":"` + string(newStatus) + `"}`,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		changed = &OrderStatusChanged{OrderID: o.ID, CustomerID: o.CustomerID, From: o.Status, To: newStatus}
		return nil
	})
	if err != nil {
		return OrderView{}, err
	}

	if changed != nil {
		if changed.To == model.OrderStatusCancelled {
			invalidateProducts(ctx, u.cache, u.log)
		}
		e, err := event.New(event.OrderStatusChanged, changed.OrderID, changed, time.Now())
		if err == nil {
			err = u.events.Publish(ctx, e)
		}
		if err != nil {
			u.log.Warn("event not published", zap.String("order_id", changed.OrderID), zap.Error(err))
		}
	}

	return u.orders.Get(ctx, orderID)
}
