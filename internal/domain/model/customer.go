package model

import "time"

type Customer struct {
	Base
	FullName     string    `gorm:"type:varchar(255);not null" json:"fullName"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Phone        string    `gorm:"type:varchar(50)" json:"phone"`
	Address      Address   `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
