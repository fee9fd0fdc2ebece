package repository

import (
	"context"
	"strings"

	"medkit/internal/domain/model"
	repo "medkit/internal/repository"

	"gorm.io/gorm"
)

type CustomerGormRepository struct {
	db *gorm.DB
}

// DI
func NewCustomerGormRepository(db *gorm.DB) *CustomerGormRepository {
	return &CustomerGormRepository{db: db}
}

func (r *CustomerGormRepository) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CustomerGormRepository) FindByID(ctx context.Context, id string) (model.Customer, error) {
	var c model.Customer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return model.Customer{}, notFound(err)
	}
	return c, nil
}

// メールは小文字で保存している
func (r *CustomerGormRepository) FindByEmail(ctx context.Context, email string) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&c).Error
	if err != nil {
		return model.Customer{}, notFound(err)
	}
	return c, nil
}

func (r *CustomerGormRepository) List(ctx context.Context, q repo.CustomerListQuery) ([]model.Customer, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Customer{})
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(full_name) LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.Customer{}, 0, err
	}

	limit, offset := pageWindow(q.Page, q.Limit, 100)
	var items []model.Customer
	if err := tx.Order("created_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Customer{}, 0, err
	}
	return items, total, nil
}
