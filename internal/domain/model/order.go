package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// 終端ステータスは変更不可
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCompleted || s == OrderStatusCancelled
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// 支払い承認で作られる注文。CheckoutSessionID が冪等キーを兼ねる。
type Order struct {
	Base
	OrderNumber       string          `gorm:"type:varchar(40);not null;uniqueIndex"`
	CustomerID        string          `gorm:"type:varchar(36);not null;index"`
	CheckoutSessionID string          `gorm:"type:varchar(36);not null;uniqueIndex"`
	Status            OrderStatus     `gorm:"type:varchar(20);not null;index"`
	PaymentStatus     PaymentStatus   `gorm:"type:varchar(20);not null"`
	CustomerName      string          `gorm:"type:varchar(255)"`
	CustomerEmail     string          `gorm:"type:varchar(255)"`
	CustomerPhone     string          `gorm:"type:varchar(50)"`
	Delivery          DeliveryDetails `gorm:"embedded;embeddedPrefix:delivery_"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingFee       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Items             []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time       `gorm:"not null;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"not null;autoUpdateTime"`
}
