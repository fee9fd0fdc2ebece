package repository

import (
	"context"

	"medkit/internal/domain/model"
	repo "medkit/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CheckoutGormRepository struct {
	db *gorm.DB
}

// DI
func NewCheckoutGormRepository(db *gorm.DB) *CheckoutGormRepository {
	return &CheckoutGormRepository{db: db}
}

func (r *CheckoutGormRepository) withDetails() *gorm.DB {
	return r.db.Preload("Items").Preload("Customer")
}

// Items も一緒に作る
func (r *CheckoutGormRepository) Create(ctx context.Context, s *model.CheckoutSession) error {
	return r.db.WithContext(ctx).Omit("Customer").Create(s).Error
}

func (r *CheckoutGormRepository) FindByID(ctx context.Context, id string) (model.CheckoutSession, error) {
	var s model.CheckoutSession
	if err := r.withDetails().WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return model.CheckoutSession{}, notFound(err)
	}
	return s, nil
}

// 審査中の二重承認を防ぐため行ロック
func (r *CheckoutGormRepository) FindForUpdate(ctx context.Context, id string) (model.CheckoutSession, error) {
	var s model.CheckoutSession
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return model.CheckoutSession{}, notFound(err)
	}
	if err := r.db.WithContext(ctx).Where("checkout_session_id = ?", s.ID).Find(&s.Items).Error; err != nil {
		return model.CheckoutSession{}, err
	}
	if err := r.db.WithContext(ctx).Where("id = ?", s.CustomerID).First(&s.Customer).Error; err != nil {
		return model.CheckoutSession{}, notFound(err)
	}
	return s, nil
}

func (r *CheckoutGormRepository) FindLatestByCartSession(ctx context.Context, customerID, cartSessionID string) (model.CheckoutSession, error) {
	var s model.CheckoutSession
	err := r.withDetails().WithContext(ctx).
		Where("customer_id = ? AND cart_session_id = ?", customerID, cartSessionID).
		Order("created_at desc").
		First(&s).Error
	if err != nil {
		return model.CheckoutSession{}, notFound(err)
	}
	return s, nil
}

func (r *CheckoutGormRepository) FindLatestPending(ctx context.Context, customerID string) (model.CheckoutSession, error) {
	var s model.CheckoutSession
	err := r.withDetails().WithContext(ctx).
		Where("customer_id = ? AND payment_status = ?", customerID, model.PaymentStatusPending).
		Order("created_at desc").
		First(&s).Error
	if err != nil {
		return model.CheckoutSession{}, notFound(err)
	}
	return s, nil
}

func (r *CheckoutGormRepository) List(ctx context.Context, q repo.CheckoutListQuery) ([]model.CheckoutSession, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.CheckoutSession{})
	if q.Status != "" {
		tx = tx.Where("payment_status = ?", q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.CheckoutSession{}, 0, err
	}

	limit, offset := pageWindow(q.Page, q.Limit, 100)
	var items []model.CheckoutSession
	err := tx.Preload("Items").Preload("Customer").
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.CheckoutSession{}, 0, err
	}
	return items, total, nil
}

// 明細は作成後に変わらないので本体だけ保存
func (r *CheckoutGormRepository) Save(ctx context.Context, s *model.CheckoutSession) error {
	res := r.db.WithContext(ctx).Omit(clause.Associations).Save(s)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
