package usecase

import (
	"context"
	"errors"
	"net/http"

	repo "medkit/internal/repository"

	"github.com/shopspring/decimal"
)

// 管理画面の顧客一覧（注文集計つき）
type CustomerUsecase struct {
	customerRepo repo.CustomerRepository
	orderRepo    repo.OrderRepository
}

// DI
func NewCustomerUsecase(customerRepo repo.CustomerRepository, orderRepo repo.OrderRepository) *CustomerUsecase {
	return &CustomerUsecase{customerRepo: customerRepo, orderRepo: orderRepo}
}

func (u *CustomerUsecase) List(ctx context.Context, q repo.CustomerListQuery) (Page[CustomerView], error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}

	customers, total, err := u.customerRepo.List(ctx, q)
	if err != nil {
		return Page[CustomerView]{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	ids := make([]string, 0, len(customers))
	for _, c := range customers {
		ids = append(ids, c.ID)
	}
	stats, err := u.orderRepo.StatsByCustomers(ctx, ids)
	if err != nil {
		return Page[CustomerView]{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	views := make([]CustomerView, 0, len(customers))
	for _, c := range customers {
		v := CustomerView{Customer: c, TotalSpent: decimal.Zero}
		if s, ok := stats[c.ID]; ok {
			v.TotalOrders = s.TotalOrders
			v.TotalSpent, _ = decimal.NewFromString(s.TotalSpent)
		}
		views = append(views, v)
	}
	return newPage(views, total, q.Page, q.Limit), nil
}

func (u *CustomerUsecase) Get(ctx context.Context, id string) (CustomerView, error) {
	c, err := u.customerRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return CustomerView{}, NewHTTPError(http.StatusNotFound, "Customer not found")
	}
	if err != nil {
		return CustomerView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	stats, err := u.orderRepo.StatsByCustomers(ctx, []string{c.ID})
	if err != nil {
		return CustomerView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	v := CustomerView{Customer: c, TotalSpent: decimal.Zero}
	if s, ok := stats[c.ID]; ok {
		v.TotalOrders = s.TotalOrders
		v.TotalSpent, _ = decimal.NewFromString(s.TotalSpent)
	}
	return v, nil
}
