package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	Base
	ProductName string         `gorm:"type:varchar(255);not null" json:"productName"`
	Category    string         `gorm:"type:varchar(100);not null;index" json:"category"`
	Description string         `gorm:"type:text" json:"description"`
	Images      []string       `gorm:"serializer:json;type:text" json:"productImages"`
	IsFeatured  bool           `gorm:"not null;default:false;index" json:"isFeatured"`
	Rating      float64        `gorm:"not null;default:0" json:"rating"`
	ReviewCount int            `gorm:"not null;default:0" json:"reviews"`
	Brands      []Brand        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"brands"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// ブランドごとに価格と在庫を持つ
type Brand struct {
	Base
	ProductID     string          `gorm:"type:varchar(36);not null;index" json:"-"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	OriginalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"originalPrice"`
	Stock         int             `gorm:"not null;default:0" json:"stock"`
}

// 名前で引く（大文字小文字は区別する）
func (p Product) Brand(name string) (Brand, bool) {
	for _, b := range p.Brands {
		if b.Name == name {
			return b, true
		}
	}
	return Brand{}, false
}
