package apiclient

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ---- cart ----

type CartProduct struct {
	ID            string   `json:"_id"`
	ProductName   string   `json:"productName"`
	ProductImages []string `json:"productImages"`
	Category      string   `json:"category,omitempty"`
}

type CartLine struct {
	Product   CartProduct     `json:"product"`
	BrandName string          `json:"brandName"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Stock     int             `json:"stock"`
}

// CartDocument はサーバーが返すカート全体
type CartDocument struct {
	ID          string          `json:"_id,omitempty"`
	SessionID   string          `json:"sessionId"`
	Items       []CartLine      `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type CartLineInput struct {
	ProductID string `json:"productId"`
	BrandName string `json:"brandName"`
	Quantity  int    `json:"quantity,omitempty"`
}

// ---- products ----

type Brand struct {
	ID            string          `json:"_id,omitempty"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Stock         int             `json:"stock"`
}

type Product struct {
	ID            string    `json:"_id"`
	ProductName   string    `json:"productName"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Brands        []Brand   `json:"brands"`
	ProductImages []string  `json:"productImages"`
	Rating        float64   `json:"rating"`
	Reviews       int       `json:"reviews"`
	IsFeatured    bool      `json:"isFeatured"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FeaturedProduct は先頭ブランドを平らにした表示用
type FeaturedProduct struct {
	ID            string          `json:"_id"`
	ProductName   string          `json:"productName"`
	Category      string          `json:"category"`
	Brand         string          `json:"brand"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Stock         int             `json:"stock"`
	Rating        float64         `json:"rating"`
	Reviews       int             `json:"reviews"`
	ProductImages []string        `json:"productImages"`
	IsFeatured    bool            `json:"isFeatured"`
}

// ProductList は読み取り系の共通結果。失敗時も空で返る。
type ProductList struct {
	Products   []Product
	Total      int
	Page       int
	TotalPages int
	Success    bool
	Error      string
}

type FeaturedList struct {
	Products []FeaturedProduct
	Total    int
	Success  bool
	Error    string
}

type Review struct {
	ID        string    `json:"_id"`
	ProductID string    `json:"productId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Images    []string  `json:"images"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

type ReviewList struct {
	Reviews []Review
	Total   int
	Success bool
	Error   string
}

type ReviewInput struct {
	Rating  int      `json:"rating"`
	Comment string   `json:"comment"`
	Images  []string `json:"images,omitempty"`
}

// ---- customers / admins ----

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type Customer struct {
	ID          string          `json:"_id"`
	FullName    string          `json:"fullName"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Address     Address         `json:"address"`
	TotalOrders int             `json:"totalOrders"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CustomerRef は ID 文字列でも展開済みのオブジェクトでも受ける
type CustomerRef struct {
	Customer
}

func (r *CustomerRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		return nil
	case b[0] == '"':
		return json.Unmarshal(b, &r.ID)
	}
	return json.Unmarshal(b, &r.Customer)
}

type CustomerPage struct {
	Customers   []Customer
	Total       int
	TotalPages  int
	CurrentPage int
	Success     bool
	Error       string
}

type SignupInput struct {
	FullName string  `json:"fullName"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    string  `json:"phone"`
	Address  Address `json:"address"`
}

// CustomerAuth はログイン/登録の結果
type CustomerAuth struct {
	Customer Customer
	Token    string
}

type Admin struct {
	ID          string `json:"_id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
}

type AdminRegisterInput struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	PhoneNumber     string `json:"phoneNumber"`
}

type AdminAuth struct {
	User  Admin  `json:"user"`
	Token string `json:"token"`
}

// ---- checkout / payments ----

// PaymentStatus は支払い証跡の状態
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSubmitted PaymentStatus = "submitted"
	PaymentApproved  PaymentStatus = "approved"
	PaymentRejected  PaymentStatus = "rejected"
)

type SessionItem struct {
	Product   CartProduct     `json:"product"`
	BrandName string          `json:"brandName"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// PaymentSession はチェックアウトセッション（支払い申請）
type PaymentSession struct {
	ID              string          `json:"_id"`
	SessionNumber   string          `json:"sessionNumber"`
	Customer        CustomerRef     `json:"customerId"`
	Items           []SessionItem   `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingFee     decimal.Decimal `json:"shippingFee"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Notes           string          `json:"notes"`
	PaymentProof    string          `json:"paymentProof"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	AdminNotes      string          `json:"adminNotes"`
	RejectionReason string          `json:"rejectionReason"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type PaymentPage struct {
	Payments    []PaymentSession
	Total       int
	TotalPages  int
	CurrentPage int
	Success     bool
	Error       string
}

type CheckoutInput struct {
	ShippingFee decimal.Decimal `json:"shippingFee"`
	Notes       string          `json:"notes"`
}

type StoreInfo struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Description string `json:"description"`
}

type BankInfo struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

type SummaryTotals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shippingFee"`
	Total       decimal.Decimal `json:"total"`
}

type CheckoutSummary struct {
	Cart      CartDocument  `json:"cart"`
	Customer  Customer      `json:"customer"`
	StoreInfo StoreInfo     `json:"storeInfo"`
	BankInfo  BankInfo      `json:"bankInfo"`
	Summary   SummaryTotals `json:"summary"`
}

// ---- delivery ----

type DeliveryDetails struct {
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

type Delivery struct {
	ID        string `json:"_id"`
	SessionID string `json:"sessionId"`
	DeliveryDetails
	CreatedAt time.Time `json:"createdAt"`
}

// ---- orders ----

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// 終端ステータスは編集不可
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderDelivered, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

type OrderCustomer struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type Order struct {
	ID              string          `json:"_id"`
	OrderNumber     string          `json:"orderNumber"`
	SessionID       string          `json:"sessionId"`
	CustomerInfo    OrderCustomer   `json:"customerInfo"`
	Items           []SessionItem   `json:"items"`
	DeliveryDetails DeliveryDetails `json:"deliveryDetails"`
	Status          OrderStatus     `json:"status"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	ShippingFee     decimal.Decimal `json:"shippingFee"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type OrderPage struct {
	Orders      []Order
	Total       int
	TotalPages  int
	CurrentPage int
	Success     bool
	Error       string
}
