package repository

import (
	"context"
	"errors"

	"medkit/internal/domain/model"
	repo "medkit/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// carts と cart_items の両方を扱う
type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// 顧客のカートを取得し、無ければ作成
func (r *CartGormRepository) GetOrCreateByCustomerID(ctx context.Context, customerID string) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("customer_id = ?", customerID).
			First(&cart).Error
		if findErr == nil {
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		newCart := model.Cart{CustomerID: customerID, SessionID: uuid.NewString()}
		if err := tx.Create(&newCart).Error; err != nil {
			// 同時作成に負けたら取り直す
			if retryErr := tx.Where("customer_id = ?", customerID).First(&cart).Error; retryErr == nil {
				return nil
			}
			return err
		}
		cart = newCart
		return nil
	})
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

func (r *CartGormRepository) FindByCustomerID(ctx context.Context, customerID string) (model.Cart, error) {
	var cart model.Cart
	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&cart).Error; err != nil {
		return model.Cart{}, notFound(err)
	}
	return cart, nil
}

func (r *CartGormRepository) FindBySessionID(ctx context.Context, sessionID string) (model.Cart, error) {
	var cart model.Cart
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&cart).Error; err != nil {
		return model.Cart{}, notFound(err)
	}
	return cart, nil
}

// 明細を全削除して新しいセッションIDを振る（承認後）
func (r *CartGormRepository) Reset(ctx context.Context, cartID string) (model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", cartID).First(&cart).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		cart.SessionID = uuid.NewString()
		return tx.Model(&cart).Update("session_id", cart.SessionID).Error
	})
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// 指定カートの明細を全削除
func (r *CartGormRepository) Clear(ctx context.Context, cartID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart model.Cart
		if err := tx.Where("id = ?", cartID).First(&cart).Error; err != nil {
			return notFound(err)
		}
		return tx.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error
	})
}

// カート明細を一覧取得（追加順）
func (r *CartGormRepository) ListByCartID(ctx context.Context, cartID string) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}
	return items, nil
}

func (r *CartGormRepository) FindLine(ctx context.Context, cartID, productID, brandName string) (model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ? AND brand_name = ?", cartID, productID, brandName).
		First(&item).Error
	if err != nil {
		return model.CartItem{}, notFound(err)
	}
	return item, nil
}

// 同一(商品,ブランド)は数量加算。価格は最新に差し替える。
func (r *CartGormRepository) UpsertLine(ctx context.Context, cartID, productID, brandName string, addQty int, price decimal.Decimal) error {
	if addQty <= 0 {
		return errors.New("invalid quantity")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.CartItem
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("cart_id = ? AND product_id = ? AND brand_name = ?", cartID, productID, brandName).
			First(&item).Error

		if err == nil {
			res := tx.Model(&model.CartItem{}).
				Where("id = ?", item.ID).
				Updates(map[string]any{"quantity": item.Quantity + addQty, "price": price})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&model.CartItem{
			CartID:    cartID,
			ProductID: productID,
			BrandName: brandName,
			Price:     price,
			Quantity:  addQty,
		}).Error
	})
}

// 明細の数量を更新
func (r *CartGormRepository) UpdateQuantity(ctx context.Context, cartItemID string, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", cartItemID).
		Update("quantity", qty)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除
func (r *CartGormRepository) DeleteByID(ctx context.Context, cartItemID string) error {
	res := r.db.WithContext(ctx).Delete(&model.CartItem{}, "id = ?", cartItemID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
