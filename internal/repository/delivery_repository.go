package repository

import (
	"context"

	"medkit/internal/domain/model"
)

type DeliveryRepository interface {
	Create(ctx context.Context, d *model.Delivery) error
	// セッション指定が無ければ顧客単位の最新を探す
	FindLatest(ctx context.Context, customerID, checkoutSessionID string) (model.Delivery, error)
}
