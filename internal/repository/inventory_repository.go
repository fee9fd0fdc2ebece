package repository

import (
	"context"

	"medkit/internal/domain/model"
)

// ブランド単位の在庫
type InventoryRepository interface {
	// 在庫が足りるときだけ減算
	DecreaseStockIfEnough(ctx context.Context, brandID string, qty int) (bool, error)

	// 在庫戻し（キャンセルなど）
	IncreaseStock(ctx context.Context, brandID string, qty int) error

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}
