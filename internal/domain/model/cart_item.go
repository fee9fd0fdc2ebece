package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カート明細。(CartID, ProductID, BrandName) で一意。
type CartItem struct {
	Base
	CartID    string          `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_line" json:"-"`
	ProductID string          `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_line" json:"productId"`
	BrandName string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_cart_line" json:"brandName"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"` // 追加時点の価格
	Quantity  int             `gorm:"not null" json:"quantity"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
