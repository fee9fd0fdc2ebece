package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"medkit/internal/domain/model"
	repo "medkit/internal/repository"
)

type DeliveryInput struct {
	FullName             string
	Phone                string
	Address              string
	City                 string
	State                string
	ZipCode              string
	Landmark             string
	DeliveryInstructions string
	AdditionalInfo       string
}

// 配送先の登録。承認済みの注文があれば注文側にも反映する。
type DeliveryUsecase struct {
	deliveryRepo repo.DeliveryRepository
	customerRepo repo.CustomerRepository
	checkoutRepo repo.CheckoutRepository
	orderRepo    repo.OrderRepository
}

// DI
func NewDeliveryUsecase(
	deliveryRepo repo.DeliveryRepository,
	customerRepo repo.CustomerRepository,
	checkoutRepo repo.CheckoutRepository,
	orderRepo repo.OrderRepository,
) *DeliveryUsecase {
	return &DeliveryUsecase{
		deliveryRepo: deliveryRepo,
		customerRepo: customerRepo,
		checkoutRepo: checkoutRepo,
		orderRepo:    orderRepo,
	}
}

func (in DeliveryInput) details() model.DeliveryDetails {
	return model.DeliveryDetails{
		FullName:       strings.TrimSpace(in.FullName),
		Phone:          strings.TrimSpace(in.Phone),
		Address:        strings.TrimSpace(in.Address),
		City:           strings.TrimSpace(in.City),
		State:          strings.TrimSpace(in.State),
		ZipCode:        strings.TrimSpace(in.ZipCode),
		Landmark:       strings.TrimSpace(in.Landmark),
		Instructions:   strings.TrimSpace(in.DeliveryInstructions),
		AdditionalInfo: strings.TrimSpace(in.AdditionalInfo),
	}
}

// sessionID はチェックアウトセッションIDかカートのセッションID。空なら顧客単位で保存する。
func (u *DeliveryUsecase) Add(ctx context.Context, customerID, sessionID string, in DeliveryInput) (DeliveryView, error) {
	d := in.details()
	if d.FullName == "" || d.Phone == "" || d.Address == "" || d.City == "" || d.State == "" {
		return DeliveryView{}, NewHTTPError(http.StatusBadRequest, "fullName, phone, address, city and state are required")
	}

	if _, err := u.customerRepo.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return DeliveryView{}, NewHTTPError(http.StatusNotFound, "Customer or session not found")
		}
		return DeliveryView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	checkoutID := ""
	if sessionID != "" {
		s, err := u.resolveSession(ctx, customerID, sessionID)
		if err != nil {
			return DeliveryView{}, err
		}
		checkoutID = s.ID
	}

	rec := model.Delivery{CustomerID: customerID, CheckoutSessionID: checkoutID, Details: d}
	if err := u.deliveryRepo.Create(ctx, &rec); err != nil {
		return DeliveryView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if checkoutID != "" {
		order, found, err := u.orderRepo.FindByCheckoutSessionID(ctx, checkoutID)
		if err != nil {
			return DeliveryView{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found && !order.Status.Terminal() {
			if err := u.orderRepo.SetDelivery(ctx, order.ID, d); err != nil {
				return DeliveryView{}, NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
	}

	return toDeliveryView(rec), nil
}

func (u *DeliveryUsecase) resolveSession(ctx context.Context, customerID, sessionID string) (model.CheckoutSession, error) {
	s, err := u.checkoutRepo.FindByID(ctx, sessionID)
	if err == nil && s.CustomerID == customerID {
		return s, nil
	}
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return model.CheckoutSession{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	s, err = u.checkoutRepo.FindLatestByCartSession(ctx, customerID, sessionID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.CheckoutSession{}, NewHTTPError(http.StatusNotFound, "Customer or session not found")
	}
	if err != nil {
		return model.CheckoutSession{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}
