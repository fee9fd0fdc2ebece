package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"medkit/internal/domain/model"
	"medkit/internal/infra/cache"
	"medkit/internal/infra/event"
	"medkit/internal/infra/storage"
	repo "medkit/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 管理者による振込証跡の審査
type PaymentUsecase struct {
	tx           repo.TransactionManager
	checkoutRepo repo.CheckoutRepository
	deliveryRepo repo.DeliveryRepository
	files        storage.ObjectStorage
	events       event.Publisher
	cache        cache.Client
	now          func() time.Time
	log          *zap.Logger
}

// DI
func NewPaymentUsecase(
	tx repo.TransactionManager,
	checkoutRepo repo.CheckoutRepository,
	deliveryRepo repo.DeliveryRepository,
	files storage.ObjectStorage,
	events event.Publisher,
	c cache.Client,
	log *zap.Logger,
) *PaymentUsecase {
	return &PaymentUsecase{
		tx:           tx,
		checkoutRepo: checkoutRepo,
		deliveryRepo: deliveryRepo,
		files:        files,
		events:       events,
		cache:        c,
		now:          time.Now,
		log:          log,
	}
}

type PaymentListInput struct {
	Page   int
	Limit  int
	Status string
}

type ApprovedPayment struct {
	SessionID   string `json:"sessionId"`
	OrderID     string `json:"orderId"`
	CustomerID  string `json:"customerId"`
	TotalAmount string `json:"totalAmount"`
}

type RejectedPayment struct {
	SessionID  string `json:"sessionId"`
	CustomerID string `json:"customerId"`
	Reason     string `json:"reason"`
}

func (u *PaymentUsecase) List(ctx context.Context, in PaymentListInput) (Page[SessionView], error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}
	status := model.PaymentStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	switch status {
	case "", model.PaymentStatusPending, model.PaymentStatusSubmitted, model.PaymentStatusApproved, model.PaymentStatusRejected:
	default:
		return Page[SessionView]{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	items, total, err := u.checkoutRepo.List(ctx, repo.CheckoutListQuery{Page: in.Page, Limit: in.Limit, Status: status})
	if err != nil {
		return Page[SessionView]{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	views := make([]SessionView, 0, len(items))
	for _, s := range items {
		views = append(views, toSessionView(s))
	}
	return newPage(views, total, in.Page, in.Limit), nil
}

func (u *PaymentUsecase) Get(ctx context.Context, id string) (SessionView, error) {
	s, err := u.checkoutRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return SessionView{}, NewHTTPError(http.StatusNotFound, "Payment not found")
	}
	if err != nil {
		return SessionView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toSessionView(s), nil
}

// 証跡ファイルの中身
func (u *PaymentUsecase) Proof(ctx context.Context, id string) ([]byte, string, error) {
	s, err := u.checkoutRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, "", NewHTTPError(http.StatusNotFound, "Payment not found")
	}
	if err != nil {
		return nil, "", NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.PaymentProofKey == "" {
		return nil, "", NewHTTPError(http.StatusNotFound, "Payment proof not uploaded")
	}

	data, ct, err := u.files.Get(ctx, s.PaymentProofKey)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, "", NewHTTPError(http.StatusNotFound, "Payment proof not found")
	}
	if err != nil {
		return nil, "", NewHTTPError(http.StatusInternalServerError, "storage error")
	}
	if ct == "" {
		ct = s.PaymentProofType
	}
	return data, ct, nil
}

// 承認：在庫を減らして注文を作り、カートを空にする（1トランザクション）
func (u *PaymentUsecase) Approve(ctx context.Context, adminID, id, adminNotes string) (SessionView, error) {
	if adminID == "" {
		return SessionView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	// 配送先は任意。無ければ空のまま注文にする。
	var delivery model.DeliveryDetails
	if s, err := u.checkoutRepo.FindByID(ctx, id); err == nil {
		if d, err := u.deliveryRepo.FindLatest(ctx, s.CustomerID, s.ID); err == nil {
			delivery = d.Details
		} else if d, err := u.deliveryRepo.FindLatest(ctx, s.CustomerID, ""); err == nil {
			delivery = d.Details
		}
	}

	now := u.now()
	var approved ApprovedPayment

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		s, err := r.Checkouts().FindForUpdate(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Payment not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		switch s.PaymentStatus {
		case model.PaymentStatusSubmitted:
		case model.PaymentStatusPending:
			return NewHTTPError(http.StatusBadRequest, "Payment proof has not been submitted")
		default:
			return NewHTTPError(http.StatusConflict, fmt.Sprintf("Payment already %s", s.PaymentStatus))
		}

		// 同じセッションから2つ目の注文は作らない
		if _, found, err := r.Orders().FindByCheckoutSessionID(ctx, s.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		} else if found {
			return NewHTTPError(http.StatusConflict, "Order already exists for this payment")
		}

		orderItems := make([]model.OrderItem, 0, len(s.Items))
		for _, it := range s.Items {
			b, err := r.Products().FindBrand(ctx, it.ProductID, it.BrandName)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusConflict, it.ProductName+" is no longer available")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, b.ID, it.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusUnprocessableEntity, stockMessage(b.Stock))
			}
			if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
				ProductID: it.ProductID,
				BrandID:   b.ID,
				ActorID:   adminID,
				Delta:     -it.Quantity,
				Reason:    "payment approved " + s.SessionNumber,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID:   it.ProductID,
				BrandID:     b.ID,
				ProductName: it.ProductName,
				Category:    it.Category,
				BrandName:   it.BrandName,
				Price:       it.Price,
				Quantity:    it.Quantity,
			})
		}

		order := model.Order{
			OrderNumber:       newOrderNumber(now),
			CustomerID:        s.CustomerID,
			CheckoutSessionID: s.ID,
			Status:            model.OrderStatusProcessing,
			PaymentStatus:     model.PaymentStatusApproved,
			CustomerName:      s.Customer.FullName,
			CustomerEmail:     s.Customer.Email,
			CustomerPhone:     s.Customer.Phone,
			Delivery:          delivery,
			Subtotal:          s.Subtotal,
			ShippingFee:       s.ShippingFee,
			TotalAmount:       s.TotalAmount,
		}
		if err := r.Orders().Create(ctx, &order); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.OrderItems().CreateBulk(ctx, order.ID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		before := toJSON(map[string]any{"paymentStatus": s.PaymentStatus})
		s.PaymentStatus = model.PaymentStatusApproved
		s.AdminNotes = strings.TrimSpace(adminNotes)
		s.ReviewedAt = &now
		s.ReviewedBy = adminID
		if err := r.Checkouts().Save(ctx, &s); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 承認済みのカートは空にして新しいセッションにする
		cart, err := r.Carts().FindBySessionID(ctx, s.CartSessionID)
		switch {
		case err == nil && cart.CustomerID == s.CustomerID:
			if _, err := r.Carts().Reset(ctx, cart.ID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		case err != nil && !errors.Is(err, repo.ErrNotFound):
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorID:      adminID,
			Action:       model.AuditActionApprovePayment,
			ResourceType: model.AuditResourcePayment,
			ResourceID:   s.ID,
			BeforeJSON:   before,
			AfterJSON:    toJSON(map[string]any{"paymentStatus": s.PaymentStatus, "orderId": order.ID}),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		approved = ApprovedPayment{
			SessionID:   s.ID,
			OrderID:     order.ID,
			CustomerID:  s.CustomerID,
			TotalAmount: s.TotalAmount.StringFixed(2),
		}
		return nil
	})
	if err != nil {
		return SessionView{}, err
	}

	invalidateProducts(ctx, u.cache, u.log)
	u.publish(ctx, event.PaymentApproved, approved.SessionID, approved)
	return u.Get(ctx, id)
}

func (u *PaymentUsecase) Reject(ctx context.Context, adminID, id, reason, adminNotes string) (SessionView, error) {
	if adminID == "" {
		return SessionView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return SessionView{}, NewHTTPError(http.StatusBadRequest, "Rejection reason is required")
	}

	now := u.now()
	var rejected RejectedPayment

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		s, err := r.Checkouts().FindForUpdate(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Payment not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if s.PaymentStatus != model.PaymentStatusPending && s.PaymentStatus != model.PaymentStatusSubmitted {
			return NewHTTPError(http.StatusConflict, fmt.Sprintf("Payment already %s", s.PaymentStatus))
		}

		before := toJSON(map[string]any{"paymentStatus": s.PaymentStatus})
		s.PaymentStatus = model.PaymentStatusRejected
		s.RejectionReason = reason
		s.AdminNotes = strings.TrimSpace(adminNotes)
		s.ReviewedAt = &now
		s.ReviewedBy = adminID
		if err := r.Checkouts().Save(ctx, &s); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorID:      adminID,
			Action:       model.AuditActionRejectPayment,
			ResourceType: model.AuditResourcePayment,
			ResourceID:   s.ID,
			BeforeJSON:   before,
			AfterJSON:    toJSON(map[string]any{"paymentStatus": s.PaymentStatus, "rejectionReason": reason}),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		rejected = RejectedPayment{SessionID: s.ID, CustomerID: s.CustomerID, Reason: reason}
		return nil
	})
	if err != nil {
		return SessionView{}, err
	}

	u.publish(ctx, event.PaymentRejected, rejected.SessionID, rejected)
	return u.Get(ctx, id)
}

// 通知の失敗で審査結果は戻さない
func (u *PaymentUsecase) publish(ctx context.Context, name, resourceID string, payload any) {
	e, err := event.New(name, resourceID, payload, u.now())
	if err == nil {
		err = u.events.Publish(ctx, e)
	}
	if err != nil {
		u.log.Warn("event not published", zap.String("name", name), zap.String("resource_id", resourceID), zap.Error(err))
	}
}

// ORD-20260101-1A2B3C4D
func newOrderNumber(now time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), id[:8])
}
