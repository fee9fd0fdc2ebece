package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSubmitted PaymentStatus = "submitted"
	PaymentStatusApproved  PaymentStatus = "approved"
	PaymentStatusRejected  PaymentStatus = "rejected"
)

// チェックアウト時点のカートの写し。振込証跡の審査対象でもある。
type CheckoutSession struct {
	Base
	SessionNumber    string          `gorm:"type:varchar(40);not null;uniqueIndex"`
	CustomerID       string          `gorm:"type:varchar(36);not null;index"`
	Customer         Customer        `gorm:"foreignKey:CustomerID"`
	CartSessionID    string          `gorm:"type:varchar(36);not null;index"`
	Items            []CheckoutItem  `gorm:"foreignKey:CheckoutSessionID;constraint:OnDelete:CASCADE"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingFee      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes            string          `gorm:"type:text"`
	PaymentStatus    PaymentStatus   `gorm:"type:varchar(20);not null;index"`
	PaymentProofKey  string          `gorm:"type:varchar(255)"`
	PaymentProofType string          `gorm:"type:varchar(100)"`
	AdminNotes       string          `gorm:"type:text"`
	RejectionReason  string          `gorm:"type:text"`
	SubmittedAt      *time.Time
	ReviewedAt       *time.Time
	ReviewedBy       string    `gorm:"type:varchar(36)"`
	CreatedAt        time.Time `gorm:"not null;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"not null;autoUpdateTime"`
}

type CheckoutItem struct {
	Base
	CheckoutSessionID string          `gorm:"type:varchar(36);not null;index"`
	ProductID         string          `gorm:"type:varchar(36);not null"`
	ProductName       string          `gorm:"type:varchar(255);not null"`
	Category          string          `gorm:"type:varchar(100)"`
	Image             string          `gorm:"type:varchar(500)"`
	BrandName         string          `gorm:"type:varchar(255);not null"`
	Price             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity          int             `gorm:"not null"`
}
