package model

import "github.com/shopspring/decimal"

// 注文明細（承認時点の商品名・価格の写し）
type OrderItem struct {
	Base
	OrderID     string          `gorm:"type:varchar(36);not null;index"`
	ProductID   string          `gorm:"type:varchar(36);not null"`
	BrandID     string          `gorm:"type:varchar(36);not null"`
	ProductName string          `gorm:"type:varchar(255);not null"`
	Category    string          `gorm:"type:varchar(100)"`
	BrandName   string          `gorm:"type:varchar(255);not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity    int             `gorm:"not null"`
}
