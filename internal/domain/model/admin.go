package model

import "time"

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// 管理者。TokenVersion を上げると発行済みトークンが無効になる。
type Admin struct {
	Base
	FullName     string     `gorm:"type:varchar(255);not null" json:"fullName"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	PhoneNumber  string     `gorm:"type:varchar(50)" json:"phoneNumber"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'ADMIN'" json:"role"`
	TokenVersion int        `gorm:"not null;default:0" json:"-"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
