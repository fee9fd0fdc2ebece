package repository

import (
	"context"

	"medkit/internal/domain/model"
)

type ReviewRepository interface {
	Create(ctx context.Context, r *model.Review) error
	// 新しい順
	ListByProductID(ctx context.Context, productID string) ([]model.Review, error)
}
