package model

import "time"

type Review struct {
	Base
	ProductID  string    `gorm:"type:varchar(36);not null;index" json:"productId"`
	CustomerID string    `gorm:"type:varchar(36);not null;index" json:"customerId"`
	UserName   string    `gorm:"type:varchar(255)" json:"userName"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment"`
	Images     []string  `gorm:"serializer:json;type:text" json:"images"`
	Verified   bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
}
