package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"medkit/internal/domain/model"
	repo "medkit/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart/{customerId} の業務ロジック。
// 操作の結果は常にカート全体を返す。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

// DI
func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

type CartLineInput struct {
	ProductID string
	BrandName string
	Quantity  int
}

func stockMessage(n int) string {
	return fmt.Sprintf("Only %d units available in stock", n)
}

// カート取得（無ければ空で作る）
func (u *CartUsecase) GetCart(ctx context.Context, customerID string) (CartView, error) {
	cart, err := u.cartRepo.GetOrCreateByCustomerID(ctx, customerID)
	if err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildCart(ctx, cart)
}

// 追加（同一の商品・ブランドは数量加算）
func (u *CartUsecase) AddItem(ctx context.Context, customerID string, in CartLineInput) (CartView, error) {
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.BrandName = strings.TrimSpace(in.BrandName)
	if in.ProductID == "" || in.BrandName == "" {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "productId and brandName are required")
	}
	if in.Quantity < 1 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "Quantity must be at least 1")
	}

	brand, err := u.productRepo.FindBrand(ctx, in.ProductID, in.BrandName)
	if errors.Is(err, repo.ErrNotFound) {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "Product or brand not found")
	}
	if err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cart, err := u.cartRepo.GetOrCreateByCustomerID(ctx, customerID)
	if err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	existing := 0
	line, err := u.cartItemRepo.FindLine(ctx, cart.ID, in.ProductID, in.BrandName)
	switch {
	case err == nil:
		existing = line.Quantity
	case !errors.Is(err, repo.ErrNotFound):
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if existing+in.Quantity > brand.Stock {
		return CartView{}, NewHTTPError(http.StatusUnprocessableEntity, stockMessage(brand.Stock))
	}

	if err := u.cartItemRepo.UpsertLine(ctx, cart.ID, in.ProductID, in.BrandName, in.Quantity, brand.Price); err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildCart(ctx, cart)
}

// 数量を置き換える
func (u *CartUsecase) UpdateItem(ctx context.Context, customerID string, in CartLineInput) (CartView, error) {
	if strings.TrimSpace(in.ProductID) == "" || strings.TrimSpace(in.BrandName) == "" {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "productId and brandName are required")
	}
	if in.Quantity < 1 {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "Quantity must be at least 1")
	}

	cart, line, err := u.findLine(ctx, customerID, in.ProductID, in.BrandName)
	if err != nil {
		return CartView{}, err
	}

	brand, err := u.productRepo.FindBrand(ctx, in.ProductID, in.BrandName)
	if errors.Is(err, repo.ErrNotFound) {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "Product or brand not found")
	}
	if err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if in.Quantity > brand.Stock {
		return CartView{}, NewHTTPError(http.StatusUnprocessableEntity, stockMessage(brand.Stock))
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, line.ID, in.Quantity); err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildCart(ctx, cart)
}

func (u *CartUsecase) RemoveItem(ctx context.Context, customerID string, in CartLineInput) (CartView, error) {
	if strings.TrimSpace(in.ProductID) == "" || strings.TrimSpace(in.BrandName) == "" {
		return CartView{}, NewHTTPError(http.StatusBadRequest, "productId and brandName are required")
	}

	cart, line, err := u.findLine(ctx, customerID, in.ProductID, in.BrandName)
	if err != nil {
		return CartView{}, err
	}

	if err := u.cartItemRepo.DeleteByID(ctx, line.ID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildCart(ctx, cart)
}

func (u *CartUsecase) Clear(ctx context.Context, customerID string) (CartView, error) {
	cart, err := u.cartRepo.GetOrCreateByCustomerID(ctx, customerID)
	if err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.cartRepo.Clear(ctx, cart.ID); err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildCart(ctx, cart)
}

func (u *CartUsecase) findLine(ctx context.Context, customerID, productID, brandName string) (model.Cart, model.CartItem, error) {
	cart, err := u.cartRepo.FindByCustomerID(ctx, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Cart{}, model.CartItem{}, NewHTTPError(http.StatusNotFound, "Item not found in cart")
	}
	if err != nil {
		return model.Cart{}, model.CartItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	line, err := u.cartItemRepo.FindLine(ctx, cart.ID, productID, brandName)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Cart{}, model.CartItem{}, NewHTTPError(http.StatusNotFound, "Item not found in cart")
	}
	if err != nil {
		return model.Cart{}, model.CartItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return cart, line, nil
}

// 明細に商品情報と現在庫を付けて返す。消えた商品の行は落とす。
func (u *CartUsecase) buildCart(ctx context.Context, cart model.Cart) (CartView, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	products := make(map[string]model.Product)
	view := CartView{ID: cart.ID, SessionID: cart.SessionID, Items: []CartLineView{}, TotalAmount: decimal.Zero}

	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			p, err = u.productRepo.FindByID(ctx, it.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				continue
			}
			if err != nil {
				return CartView{}, NewHTTPError(http.StatusInternalServerError, "db error")
			}
			products[it.ProductID] = p
		}

		stock := 0
		if b, ok := p.Brand(it.BrandName); ok {
			stock = b.Stock
		}

		view.Items = append(view.Items, CartLineView{
			Product:   productRef(p),
			BrandName: it.BrandName,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Stock:     stock,
		})
		view.TotalAmount = view.TotalAmount.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	return view, nil
}
