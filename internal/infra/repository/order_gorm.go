package repository

import (
	"context"
	"errors"

	"medkit/internal/domain/model"
	repo "medkit/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", orderID).First(&o).Error
	if err != nil {
		return model.Order{}, notFound(err)
	}
	return o, nil
}

func (r *OrderGormRepository) FindForUpdate(ctx context.Context, orderID string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", orderID).
		First(&o).Error
	if err != nil {
		return model.Order{}, notFound(err)
	}
	return o, nil
}

func (r *OrderGormRepository) List(ctx context.Context, f repo.OrderListQuery) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})

	// status 絞り込み
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CustomerID != "" {
		q = q.Where("customer_id = ?", f.CustomerID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	limit, offset := pageWindow(f.Page, f.Limit, 100)
	var items []model.Order
	if err := q.Preload("Items").Order("created_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Order{}, 0, err
	}
	return items, total, nil
}

// 注文の行だけ作る。明細は OrderItemRepository.CreateBulk で保存する。
func (r *OrderGormRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Create(order).Error
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) FindByCheckoutSessionID(ctx context.Context, sessionID string) (model.Order, bool, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("checkout_session_id = ?", sessionID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, false, nil
	}
	if err != nil {
		return model.Order{}, false, err
	}
	return o, true, nil
}

func (r *OrderGormRepository) SetDelivery(ctx context.Context, orderID string, d model.DeliveryDetails) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"delivery_full_name":       d.FullName,
			"delivery_phone":           d.Phone,
			"delivery_address":         d.Address,
			"delivery_city":            d.City,
			"delivery_state":           d.State,
			"delivery_zip_code":        d.ZipCode,
			"delivery_landmark":        d.Landmark,
			"delivery_instructions":    d.Instructions,
			"delivery_additional_info": d.AdditionalInfo,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

type customerStatsRow struct {
	CustomerID  string
	TotalOrders int64
	TotalSpent  decimal.Decimal
}

func (r *OrderGormRepository) StatsByCustomers(ctx context.Context, customerIDs []string) (map[string]repo.CustomerStats, error) {
	out := make(map[string]repo.CustomerStats, len(customerIDs))
	if len(customerIDs) == 0 {
		return out, nil
	}

	var rows []customerStatsRow
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("customer_id, COUNT(*) AS total_orders, COALESCE(SUM(total_amount), 0) AS total_spent").
		Where("customer_id IN ? AND status <> ?", customerIDs, model.OrderStatusCancelled).
		Group("customer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.CustomerID] = repo.CustomerStats{
			CustomerID:  row.CustomerID,
			TotalOrders: row.TotalOrders,
			TotalSpent:  row.TotalSpent.StringFixed(2),
		}
	}
	return out, nil
}
