package repository

import (
	"context"
	"strings"
	"time"

	"medkit/internal/domain/model"
	repo "medkit/internal/repository"

	"gorm.io/gorm"
)

type AdminGormRepository struct {
	db *gorm.DB
}

// DI
func NewAdminGormRepository(db *gorm.DB) *AdminGormRepository {
	return &AdminGormRepository{db: db}
}

func (r *AdminGormRepository) Create(ctx context.Context, a *model.Admin) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AdminGormRepository) FindByID(ctx context.Context, id string) (model.Admin, error) {
	var a model.Admin
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return model.Admin{}, notFound(err)
	}
	return a, nil
}

func (r *AdminGormRepository) FindByEmail(ctx context.Context, email string) (model.Admin, error) {
	var a model.Admin
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&a).Error
	if err != nil {
		return model.Admin{}, notFound(err)
	}
	return a, nil
}

func (r *AdminGormRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Admin{}).Where("id = ?", id).Update("last_login_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *AdminGormRepository) BumpTokenVersion(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Admin{}).
		Where("id = ?", id).
		Update("token_version", gorm.Expr("token_version + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *AdminGormRepository) GetTokenVersion(ctx context.Context, id string) (int, error) {
	var a model.Admin
	err := r.db.WithContext(ctx).Select("token_version").Where("id = ?", id).First(&a).Error
	if err != nil {
		return 0, notFound(err)
	}
	return a.TokenVersion, nil
}
