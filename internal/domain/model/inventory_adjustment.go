package model

import "time"

// 在庫増減の履歴（承認で減算、キャンセルで戻し、管理画面で設定）

type InventoryAdjustment struct {
	Base
	ProductID string    `gorm:"type:varchar(36);not null;index"`
	BrandID   string    `gorm:"type:varchar(36);not null;index"`
	ActorID   string    `gorm:"type:varchar(36);not null;index"`
	Delta     int       `gorm:"not null"`
	Reason    string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
}
