package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"medkit/internal/domain/model"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID string) ([]model.CartItem, error)
	FindLine(ctx context.Context, cartID, productID, brandName string) (model.CartItem, error)
	// 同一(商品,ブランド)はプラス
	UpsertLine(ctx context.Context, cartID, productID, brandName string, addQty int, price decimal.Decimal) error
	UpdateQuantity(ctx context.Context, cartItemID string, qty int) error
	DeleteByID(ctx context.Context, cartItemID string) error
}
