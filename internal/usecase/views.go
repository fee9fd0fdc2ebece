package usecase

import (
	"fmt"
	"time"

	"medkit/internal/domain/model"

	"github.com/shopspring/decimal"
)

// ---- 画面/クライアントに返す形 ----

type ProductRefView struct {
	ID            string   `json:"_id"`
	ProductName   string   `json:"productName"`
	ProductImages []string `json:"productImages"`
	Category      string   `json:"category,omitempty"`
}

type CartLineView struct {
	Product   ProductRefView  `json:"product"`
	BrandName string          `json:"brandName"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Stock     int             `json:"stock"`
}

type CartView struct {
	ID          string          `json:"_id"`
	SessionID   string          `json:"sessionId"`
	Items       []CartLineView  `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// 一覧の共通形
type Page[T any] struct {
	Items       []T
	Total       int64
	TotalPages  int
	CurrentPage int
}

func newPage[T any](items []T, total int64, page, limit int) Page[T] {
	if page <= 0 {
		page = 1
	}
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, TotalPages: pages, CurrentPage: page}
}

type CustomerView struct {
	model.Customer
	TotalOrders int64           `json:"totalOrders"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
}

type SessionItemView struct {
	Product   ProductRefView  `json:"product"`
	BrandName string          `json:"brandName"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// 支払い申請（チェックアウトセッション）
type SessionView struct {
	ID              string              `json:"_id"`
	SessionNumber   string              `json:"sessionNumber"`
	CartSessionID   string              `json:"cartSessionId"`
	Customer        model.Customer      `json:"customerId"`
	Items           []SessionItemView   `json:"items"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	ShippingFee     decimal.Decimal     `json:"shippingFee"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	Notes           string              `json:"notes"`
	PaymentProof    string              `json:"paymentProof"`
	PaymentStatus   model.PaymentStatus `json:"paymentStatus"`
	AdminNotes      string              `json:"adminNotes"`
	RejectionReason string              `json:"rejectionReason"`
	SubmittedAt     *time.Time          `json:"submittedAt,omitempty"`
	ReviewedAt      *time.Time          `json:"reviewedAt,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

type DeliveryDetailsView struct {
	FullName             string `json:"fullName"`
	Phone                string `json:"phone"`
	Address              string `json:"address"`
	City                 string `json:"city"`
	State                string `json:"state"`
	ZipCode              string `json:"zipCode,omitempty"`
	Landmark             string `json:"landmark,omitempty"`
	DeliveryInstructions string `json:"deliveryInstructions,omitempty"`
	AdditionalInfo       string `json:"additionalInfo,omitempty"`
}

type DeliveryView struct {
	ID        string `json:"_id"`
	SessionID string `json:"sessionId"`
	DeliveryDetailsView
	CreatedAt time.Time `json:"createdAt"`
}

type OrderCustomerView struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type OrderView struct {
	ID              string              `json:"_id"`
	OrderNumber     string              `json:"orderNumber"`
	SessionID       string              `json:"sessionId"`
	CustomerID      string              `json:"customerId"`
	CustomerInfo    OrderCustomerView   `json:"customerInfo"`
	Items           []SessionItemView   `json:"items"`
	DeliveryDetails DeliveryDetailsView `json:"deliveryDetails"`
	Status          model.OrderStatus   `json:"status"`
	PaymentStatus   model.PaymentStatus `json:"paymentStatus"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	ShippingFee     decimal.Decimal     `json:"shippingFee"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// ---- 変換 ----

func productRef(p model.Product) ProductRefView {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ProductRefView{ID: p.ID, ProductName: p.ProductName, ProductImages: images, Category: p.Category}
}

func proofURL(s model.CheckoutSession) string {
	if s.PaymentProofKey == "" {
		return ""
	}
	return fmt.Sprintf("/api/payments/%s/proof", s.ID)
}

func toSessionView(s model.CheckoutSession) SessionView {
	items := make([]SessionItemView, 0, len(s.Items))
	for _, it := range s.Items {
		images := []string{}
		if it.Image != "" {
			images = append(images, it.Image)
		}
		items = append(items, SessionItemView{
			Product: ProductRefView{
				ID:            it.ProductID,
				ProductName:   it.ProductName,
				ProductImages: images,
				Category:      it.Category,
			},
			BrandName: it.BrandName,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	return SessionView{
		ID:              s.ID,
		SessionNumber:   s.SessionNumber,
		CartSessionID:   s.CartSessionID,
		Customer:        s.Customer,
		Items:           items,
		Subtotal:        s.Subtotal,
		ShippingFee:     s.ShippingFee,
		TotalAmount:     s.TotalAmount,
		Notes:           s.Notes,
		PaymentProof:    proofURL(s),
		PaymentStatus:   s.PaymentStatus,
		AdminNotes:      s.AdminNotes,
		RejectionReason: s.RejectionReason,
		SubmittedAt:     s.SubmittedAt,
		ReviewedAt:      s.ReviewedAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func toDeliveryDetailsView(d model.DeliveryDetails) DeliveryDetailsView {
	return DeliveryDetailsView{
		FullName:             d.FullName,
		Phone:                d.Phone,
		Address:              d.Address,
		City:                 d.City,
		State:                d.State,
		ZipCode:              d.ZipCode,
		Landmark:             d.Landmark,
		DeliveryInstructions: d.Instructions,
		AdditionalInfo:       d.AdditionalInfo,
	}
}

func toDeliveryView(d model.Delivery) DeliveryView {
	return DeliveryView{
		ID:                  d.ID,
		SessionID:           d.CheckoutSessionID,
		DeliveryDetailsView: toDeliveryDetailsView(d.Details),
		CreatedAt:           d.CreatedAt,
	}
}

func toOrderView(o model.Order) OrderView {
	items := make([]SessionItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, SessionItemView{
			Product: ProductRefView{
				ID:            it.ProductID,
				ProductName:   it.ProductName,
				ProductImages: []string{},
				Category:      it.Category,
			},
			BrandName: it.BrandName,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	return OrderView{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		SessionID:   o.CheckoutSessionID,
		CustomerID:  o.CustomerID,
		CustomerInfo: OrderCustomerView{
			FullName: o.CustomerName,
			Email:    o.CustomerEmail,
			Phone:    o.CustomerPhone,
		},
		Items:           items,
		DeliveryDetails: toDeliveryDetailsView(o.Delivery),
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		Subtotal:        o.Subtotal,
		ShippingFee:     o.ShippingFee,
		TotalAmount:     o.TotalAmount,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
