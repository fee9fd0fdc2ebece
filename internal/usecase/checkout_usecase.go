package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"medkit/internal/domain/model"
	"medkit/internal/infra/storage"
	repo "medkit/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

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

// 振込先などお店側の固定情報
type StoreProfile struct {
	Store              StoreInfo
	Bank               BankInfo
	DefaultShippingFee decimal.Decimal
}

type SummaryTotals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shippingFee"`
	Total       decimal.Decimal `json:"total"`
}

type CheckoutSummary struct {
	Cart      CartView       `json:"cart"`
	Customer  model.Customer `json:"customer"`
	StoreInfo StoreInfo      `json:"storeInfo"`
	BankInfo  BankInfo       `json:"bankInfo"`
	Summary   SummaryTotals  `json:"summary"`
}

type CheckoutInput struct {
	ShippingFee decimal.Decimal
	Notes       string
}

type ProofFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// チェックアウトと振込証跡のアップロード
type CheckoutUsecase struct {
	carts        *CartUsecase
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
	customerRepo repo.CustomerRepository
	checkoutRepo repo.CheckoutRepository
	files        storage.ObjectStorage
	profile      StoreProfile
	now          func() time.Time
	log          *zap.Logger
}

// DI
func NewCheckoutUsecase(
	carts *CartUsecase,
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	customerRepo repo.CustomerRepository,
	checkoutRepo repo.CheckoutRepository,
	files storage.ObjectStorage,
	profile StoreProfile,
	log *zap.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		carts:        carts,
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		checkoutRepo: checkoutRepo,
		files:        files,
		profile:      profile,
		now:          time.Now,
		log:          log,
	}
}

// sessionID はカートのセッションID
func (u *CheckoutUsecase) cartForSession(ctx context.Context, customerID, sessionID string) (model.Cart, error) {
	cart, err := u.cartRepo.FindByCustomerID(ctx, customerID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && cart.SessionID != sessionID) {
		return model.Cart{}, NewHTTPError(http.StatusNotFound, "Checkout session not found")
	}
	if err != nil {
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return cart, nil
}

// カートの中身を写し取って支払い待ちのセッションを作る。
// 同じカートに pending のセッションがあればそれを返す。
func (u *CheckoutUsecase) CreateSession(ctx context.Context, customerID, sessionID string, in CheckoutInput) (SessionView, error) {
	if in.ShippingFee.IsNegative() {
		return SessionView{}, NewHTTPError(http.StatusBadRequest, "shippingFee must be >= 0")
	}

	cart, err := u.cartForSession(ctx, customerID, sessionID)
	if err != nil {
		return SessionView{}, err
	}

	latest, err := u.checkoutRepo.FindLatestByCartSession(ctx, customerID, sessionID)
	switch {
	case err == nil && latest.PaymentStatus == model.PaymentStatusPending:
		return toSessionView(latest), nil
	case err == nil && latest.PaymentStatus == model.PaymentStatusSubmitted:
		return SessionView{}, NewHTTPError(http.StatusConflict, "Payment proof already submitted for this cart")
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return SessionView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	lines, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return SessionView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(lines) == 0 {
		return SessionView{}, NewHTTPError(http.StatusBadRequest, "Cart is empty")
	}

	items := make([]model.CheckoutItem, 0, len(lines))
	subtotal := decimal.Zero
	for _, l := range lines {
		p, err := u.productRepo.FindByID(ctx, l.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return SessionView{}, NewHTTPError(http.StatusBadRequest, "Product no longer available")
		}
		if err != nil {
			return SessionView{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		b, ok := p.Brand(l.BrandName)
		if !ok {
			return SessionView{}, NewHTTPError(http.StatusBadRequest, "Product no longer available")
		}
		if l.Quantity > b.Stock {
			return SessionView{}, NewHTTPError(http.StatusUnprocessableEntity, stockMessage(b.Stock))
		}

		image := ""
		if len(p.Images) > 0 {
			image = p.Images[0]
		}
		items = append(items, model.CheckoutItem{
			ProductID:   p.ID,
			ProductName: p.ProductName,
			Category:    p.Category,
			Image:       image,
			BrandName:   l.BrandName,
			Price:       l.Price,
			Quantity:    l.Quantity,
		})
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	customer, err := u.customerRepo.FindByID(ctx, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return SessionView{}, NewHTTPError(http.StatusNotFound, "Customer not found")
	}
	if err != nil {
		return SessionView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	s := model.CheckoutSession{
		SessionNumber: newSessionNumber(u.now()),
		CustomerID:    customerID,
		Customer:      customer,
		CartSessionID: sessionID,
		Items:         items,
		Subtotal:      subtotal,
		ShippingFee:   in.ShippingFee,
		TotalAmount:   subtotal.Add(in.ShippingFee),
		Notes:         strings.TrimSpace(in.Notes),
		PaymentStatus: model.PaymentStatusPending,
	}
	if err := u.checkoutRepo.Create(ctx, &s); err != nil {
		return SessionView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toSessionView(s), nil
}

// 確認画面用。5項目すべて返す。
func (u *CheckoutUsecase) Summary(ctx context.Context, customerID, sessionID string) (CheckoutSummary, error) {
	cart, err := u.cartForSession(ctx, customerID, sessionID)
	if err != nil {
		return CheckoutSummary{}, err
	}

	customer, err := u.customerRepo.FindByID(ctx, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return CheckoutSummary{}, NewHTTPError(http.StatusNotFound, "Checkout session not found")
	}
	if err != nil {
		return CheckoutSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	view, err := u.carts.buildCart(ctx, cart)
	if err != nil {
		return CheckoutSummary{}, err
	}

	fee := u.profile.DefaultShippingFee
	latest, err := u.checkoutRepo.FindLatestByCartSession(ctx, customerID, sessionID)
	if err == nil {
		fee = latest.ShippingFee
	} else if !errors.Is(err, repo.ErrNotFound) {
		return CheckoutSummary{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CheckoutSummary{
		Cart:      view,
		Customer:  customer,
		StoreInfo: u.profile.Store,
		BankInfo:  u.profile.Bank,
		Summary: SummaryTotals{
			Subtotal:    view.TotalAmount,
			ShippingFee: fee,
			Total:       view.TotalAmount.Add(fee),
		},
	}, nil
}

// 顧客の最新の pending セッションに証跡を付けて submitted にする
func (u *CheckoutUsecase) UploadPaymentProof(ctx context.Context, customerID string, f ProofFile) (SessionView, error) {
	if len(f.Data) == 0 {
		return SessionView{}, NewHTTPError(http.StatusBadRequest, "paymentProof file is required")
	}
	if !strings.HasPrefix(f.ContentType, "image/") && f.ContentType != "application/pdf" {
		return SessionView{}, NewHTTPError(http.StatusBadRequest, "paymentProof must be an image or PDF")
	}

	s, err := u.checkoutRepo.FindLatestPending(ctx, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return SessionView{}, NewHTTPError(http.StatusNotFound, "No pending checkout session")
	}
	if err != nil {
		return SessionView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	key := fmt.Sprintf("payments/%s/%s", s.ID, storage.SafeName(f.Filename))
	if err := u.files.Put(ctx, key, f.ContentType, f.Data); err != nil {
		u.log.Error("store payment proof failed", zap.String("session_id", s.ID), zap.Error(err))
		return SessionView{}, NewHTTPError(http.StatusInternalServerError, "failed to store payment proof")
	}

	now := u.now()
	s.PaymentProofKey = key
	s.PaymentProofType = f.ContentType
	s.PaymentStatus = model.PaymentStatusSubmitted
	s.SubmittedAt = &now
	if err := u.checkoutRepo.Save(ctx, &s); err != nil {
		return SessionView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toSessionView(s), nil
}

// CS-20260101-1A2B3C4D
func newSessionNumber(now time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("CS-%s-%s", now.Format("20060102"), id[:8])
}
