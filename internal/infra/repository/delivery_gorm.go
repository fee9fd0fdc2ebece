package repository

import (
	"context"

	"medkit/internal/domain/model"

	"gorm.io/gorm"
)

type DeliveryGormRepository struct {
	db *gorm.DB
}

// DI
func NewDeliveryGormRepository(db *gorm.DB) *DeliveryGormRepository {
	return &DeliveryGormRepository{db: db}
}

func (r *DeliveryGormRepository) Create(ctx context.Context, d *model.Delivery) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DeliveryGormRepository) FindLatest(ctx context.Context, customerID, checkoutSessionID string) (model.Delivery, error) {
	q := r.db.WithContext(ctx).Where("customer_id = ?", customerID)
	if checkoutSessionID != "" {
		q = q.Where("checkout_session_id = ?", checkoutSessionID)
	}

	var d model.Delivery
	if err := q.Order("created_at desc").First(&d).Error; err != nil {
		return model.Delivery{}, notFound(err)
	}
	return d, nil
}
