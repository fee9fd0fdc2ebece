package repository

import (
	"context"
	"strings"

	"medkit/internal/domain/model"
	repo "medkit/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Brands", func(db *gorm.DB) *gorm.DB { return db.Order("name asc") }).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return model.Product{}, notFound(err)
	}
	return p, nil
}

func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Product{})

	if q.Category != "" {
		tx = tx.Where("LOWER(category) = ?", strings.ToLower(q.Category))
	}
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(product_name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?", like, like, like)
	}
	if q.Featured != nil {
		tx = tx.Where("is_featured = ?", *q.Featured)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	limit, offset := pageWindow(q.Page, q.Limit, 100)
	var items []model.Product
	err := tx.
		Preload("Brands", func(db *gorm.DB) *gorm.DB { return db.Order("name asc") }).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Product{}, 0, err
	}
	return items, total, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// 同名ブランドはIDを残して更新、無くなったブランドは削除
func (r *ProductGormRepository) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := *p
		fields.Brands = nil
		res := tx.Model(&fields).
			Select("product_name", "category", "description", "images", "is_featured").
			Updates(&fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}

		var current []model.Brand
		if err := tx.Where("product_id = ?", p.ID).Find(&current).Error; err != nil {
			return err
		}
		byName := make(map[string]model.Brand, len(current))
		for _, b := range current {
			byName[b.Name] = b
		}

		keep := make(map[string]bool, len(p.Brands))
		for i := range p.Brands {
			b := &p.Brands[i]
			b.ProductID = p.ID
			if old, ok := byName[b.Name]; ok {
				b.ID = old.ID
			}
			if err := tx.Save(b).Error; err != nil {
				return err
			}
			keep[b.ID] = true
		}

		for _, b := range current {
			if keep[b.ID] {
				continue
			}
			if err := tx.Delete(&model.Brand{}, "id = ?", b.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// 論理削除
func (r *ProductGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) FindBrand(ctx context.Context, productID, brandName string) (model.Brand, error) {
	var b model.Brand
	err := r.db.WithContext(ctx).
		Joins("JOIN products ON products.id = brands.product_id AND products.deleted_at IS NULL").
		Where("brands.product_id = ? AND brands.name = ?", productID, brandName).
		First(&b).Error
	if err != nil {
		return model.Brand{}, notFound(err)
	}
	return b, nil
}

func (r *ProductGormRepository) UpdateRating(ctx context.Context, productID string, rating float64, count int) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{"rating": rating, "review_count": count})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
