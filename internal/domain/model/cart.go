package model

import "time"

// 顧客ごとに1つ。SessionID はチェックアウト承認のたびに振り直す。
type Cart struct {
	Base
	CustomerID string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"customerId"`
	SessionID  string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"sessionId"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
