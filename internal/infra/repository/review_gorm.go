package repository

import (
	"context"

	"medkit/internal/domain/model"

	"gorm.io/gorm"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

// DI
func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) Create(ctx context.Context, rv *model.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *ReviewGormRepository) ListByProductID(ctx context.Context, productID string) ([]model.Review, error) {
	var items []model.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return []model.Review{}, err
	}
	return items, nil
}
