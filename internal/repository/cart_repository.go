package repository

import (
	"context"

	"medkit/internal/domain/model"
)

type CartRepository interface {
	GetOrCreateByCustomerID(ctx context.Context, customerID string) (model.Cart, error)
	FindByCustomerID(ctx context.Context, customerID string) (model.Cart, error)
	FindBySessionID(ctx context.Context, sessionID string) (model.Cart, error)

	// 明細を全削除してセッションIDを振り直す
	Reset(ctx context.Context, cartID string) (model.Cart, error)
	Clear(ctx context.Context, cartID string) error
}
