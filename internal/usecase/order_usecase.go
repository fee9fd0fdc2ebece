package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"medkit/internal/domain/model"
	repo "medkit/internal/repository"
)

// 管理画面の注文参照
type OrderUsecase struct {
	orderRepo repo.OrderRepository
}

// DI
func NewOrderUsecase(orderRepo repo.OrderRepository) *OrderUsecase {
	return &OrderUsecase{orderRepo: orderRepo}
}

type OrderListInput struct {
	Page       int
	Limit      int
	Status     string
	CustomerID string
}

func (u *OrderUsecase) List(ctx context.Context, in OrderListInput) (Page[OrderView], error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}
	status := model.OrderStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if status != "" && !status.Valid() {
		return Page[OrderView]{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	orders, total, err := u.orderRepo.List(ctx, repo.OrderListQuery{
		Page:       in.Page,
		Limit:      in.Limit,
		Status:     status,
		CustomerID: in.CustomerID,
	})
	if err != nil {
		return Page[OrderView]{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	return newPage(views, total, in.Page, in.Limit), nil
}

func (u *OrderUsecase) Get(ctx context.Context, id string) (OrderView, error) {
	o, err := u.orderRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderView{}, NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		return OrderView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderView(o), nil
}
