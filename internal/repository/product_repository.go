package repository

import (
	"context"

	"medkit/internal/domain/model"
)

type ProductListQuery struct {
	Page     int
	Limit    int
	Category string
	Q        string
	Featured *bool
}

type ProductRepository interface {
	// Brands も一緒に読む
	FindByID(ctx context.Context, id string) (model.Product, error)
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	Create(ctx context.Context, p *model.Product) error

	// Brands は丸ごと置き換える
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id string) error

	FindBrand(ctx context.Context, productID, brandName string) (model.Brand, error)
	UpdateRating(ctx context.Context, productID string, rating float64, count int) error
}
