package repository

import (
	"context"

	"medkit/internal/domain/model"
)

type CustomerListQuery struct {
	Page   int
	Limit  int
	Search string // 氏名・メールの部分一致
}

// 顧客ごとの注文集計
type CustomerStats struct {
	CustomerID  string
	TotalOrders int64
	TotalSpent  string
}

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id string) (model.Customer, error)
	FindByEmail(ctx context.Context, email string) (model.Customer, error)
	List(ctx context.Context, q CustomerListQuery) ([]model.Customer, int64, error)
}
