package model

import "time"

// 配送先の入力内容
type DeliveryDetails struct {
	FullName       string `gorm:"type:varchar(255);not null"`
	Phone          string `gorm:"type:varchar(50);not null"`
	Address        string `gorm:"type:varchar(500);not null"`
	City           string `gorm:"type:varchar(100);not null"`
	State          string `gorm:"type:varchar(100);not null"`
	ZipCode        string `gorm:"type:varchar(20)"`
	Landmark       string `gorm:"type:varchar(255)"`
	Instructions   string `gorm:"type:text"`
	AdditionalInfo string `gorm:"type:text"`
}

type Delivery struct {
	Base
	CustomerID        string          `gorm:"type:varchar(36);not null;index"`
	CheckoutSessionID string          `gorm:"type:varchar(36);index"` // 空なら顧客単位
	Details           DeliveryDetails `gorm:"embedded"`
	CreatedAt         time.Time       `gorm:"not null;autoCreateTime"`
}
