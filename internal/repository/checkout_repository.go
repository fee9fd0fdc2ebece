package repository

import (
	"context"

	"medkit/internal/domain/model"
)

type CheckoutListQuery struct {
	Page   int
	Limit  int
	Status model.PaymentStatus
}

type CheckoutRepository interface {
	Create(ctx context.Context, s *model.CheckoutSession) error

	// Items と Customer も読む
	FindByID(ctx context.Context, id string) (model.CheckoutSession, error)
	FindForUpdate(ctx context.Context, id string) (model.CheckoutSession, error)

	// カートセッションに対する最新のもの
	FindLatestByCartSession(ctx context.Context, customerID, cartSessionID string) (model.CheckoutSession, error)

	// 顧客の最新の pending セッション
	FindLatestPending(ctx context.Context, customerID string) (model.CheckoutSession, error)
	List(ctx context.Context, q CheckoutListQuery) ([]model.CheckoutSession, int64, error)
	Save(ctx context.Context, s *model.CheckoutSession) error
}
