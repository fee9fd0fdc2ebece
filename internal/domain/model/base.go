package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 主キーは UUID 文字列。空なら作成時に採番する。
type Base struct {
	ID string `gorm:"type:varchar(36);primaryKey" json:"_id"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
