package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"medkit/internal/domain/model"
	"medkit/internal/repository"
	"medkit/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// helper
// =====================

type cartFixture struct {
	carts    *MockCartRepo
	items    *MockCartItemRepo
	products *MockProductRepo
	uc       *usecase.CartUsecase
}

func newCartFixture() cartFixture {
	f := cartFixture{
		carts:    new(MockCartRepo),
		items:    new(MockCartItemRepo),
		products: new(MockProductRepo),
	}
	f.uc = usecase.NewCartUsecase(f.carts, f.items, f.products)
	return f
}

func (f cartFixture) assertAll(t *testing.T) {
	t.Helper()
	f.carts.AssertExpectations(t)
	f.items.AssertExpectations(t)
	f.products.AssertExpectations(t)
}

var (
	gloveCart  = model.Cart{Base: model.Base{ID: "cart-1"}, CustomerID: "c-1", SessionID: "sess-1"}
	glovePrice = decimal.RequireFromString("12.50")
	gloves     = model.Product{
		Base:        model.Base{ID: "p-1"},
		ProductName: "Nitrile Gloves",
		Category:    "PPE",
		Images:      []string{"/api/files/products/p-1/a.png"},
		Brands: []model.Brand{
			{Base: model.Base{ID: "b-1"}, Name: "Acme", Price: glovePrice, Stock: 5},
		},
	}
)

func requireHTTPError(t *testing.T, err error, status int, msg string) {
	t.Helper()
	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "want HTTPError, got %v", err)
	assert.Equal(t, status, he.Status)
	if msg != "" {
		assert.Equal(t, msg, he.Message)
	}
}

// =====================
// GetCart
// =====================

func TestCartUsecase_GetCart_BuildsLinesAndTotal(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	f.carts.On("GetOrCreateByCustomerID", mock.Anything, "c-1").Return(gloveCart, nil).Once()
	f.items.On("ListByCartID", mock.Anything, "cart-1").Return([]model.CartItem{
		{ProductID: "p-1", BrandName: "Acme", Price: glovePrice, Quantity: 2},
		{ProductID: "gone", BrandName: "X", Price: decimal.NewFromInt(99), Quantity: 1},
	}, nil).Once()
	f.products.On("FindByID", mock.Anything, "p-1").Return(gloves, nil).Once()
	f.products.On("FindByID", mock.Anything, "gone").Return(model.Product{}, repository.ErrNotFound).Once()

	view, err := f.uc.GetCart(ctx, "c-1")

	require.NoError(t, err)
	assert.Equal(t, "cart-1", view.ID)
	assert.Equal(t, "sess-1", view.SessionID)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Nitrile Gloves", view.Items[0].Product.ProductName)
	assert.Equal(t, 5, view.Items[0].Stock)
	assert.True(t, view.TotalAmount.Equal(decimal.RequireFromString("25")))
	f.assertAll(t)
}

func TestCartUsecase_GetCart_EmptyCart(t *testing.T) {
	f := newCartFixture()

	f.carts.On("GetOrCreateByCustomerID", mock.Anything, "c-1").Return(gloveCart, nil).Once()
	f.items.On("ListByCartID", mock.Anything, "cart-1").Return([]model.CartItem{}, nil).Once()

	view, err := f.uc.GetCart(context.Background(), "c-1")

	require.NoError(t, err)
	assert.NotNil(t, view.Items)
	assert.Empty(t, view.Items)
	assert.True(t, view.TotalAmount.IsZero())
}

// =====================
// AddItem
// =====================

func TestCartUsecase_AddItem_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   usecase.CartLineInput
		msg  string
	}{
		{name: "missing product", in: usecase.CartLineInput{BrandName: "Acme", Quantity: 1}, msg: "productId and brandName are required"},
		{name: "blank brand", in: usecase.CartLineInput{ProductID: "p-1", BrandName: "  ", Quantity: 1}, msg: "productId and brandName are required"},
		{name: "zero quantity", in: usecase.CartLineInput{ProductID: "p-1", BrandName: "Acme"}, msg: "Quantity must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCartFixture()
			_, err := f.uc.AddItem(context.Background(), "c-1", tt.in)
			requireHTTPError(t, err, http.StatusBadRequest, tt.msg)
			f.assertAll(t)
		})
	}
}

func TestCartUsecase_AddItem_UnknownBrand(t *testing.T) {
	f := newCartFixture()
	f.products.On("FindBrand", mock.Anything, "p-1", "Nope").Return(model.Brand{}, repository.ErrNotFound).Once()

	_, err := f.uc.AddItem(context.Background(), "c-1", usecase.CartLineInput{ProductID: "p-1", BrandName: "Nope", Quantity: 1})

	requireHTTPError(t, err, http.StatusBadRequest, "Product or brand not found")
	f.assertAll(t)
}

func TestCartUsecase_AddItem_MergesWithinStock(t *testing.T) {
	f := newCartFixture()
	brand := gloves.Brands[0]

	f.products.On("FindBrand", mock.Anything, "p-1", "Acme").Return(brand, nil).Once()
	f.carts.On("GetOrCreateByCustomerID", mock.Anything, "c-1").Return(gloveCart, nil).Once()
	f.items.On("FindLine", mock.Anything, "cart-1", "p-1", "Acme").
		Return(model.CartItem{Base: model.Base{ID: "line-1"}, Quantity: 2}, nil).Once()
	f.items.On("UpsertLine", mock.Anything, "cart-1", "p-1", "Acme", 3, brand.Price).Return(nil).Once()
	f.items.On("ListByCartID", mock.Anything, "cart-1").Return([]model.CartItem{
		{ProductID: "p-1", BrandName: "Acme", Price: glovePrice, Quantity: 5},
	}, nil).Once()
	f.products.On("FindByID", mock.Anything, "p-1").Return(gloves, nil).Once()

	view, err := f.uc.AddItem(context.Background(), "c-1", usecase.CartLineInput{ProductID: " p-1 ", BrandName: "Acme", Quantity: 3})

	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	f.assertAll(t)
}

func TestCartUsecase_AddItem_OverStock(t *testing.T) {
	f := newCartFixture()

	f.products.On("FindBrand", mock.Anything, "p-1", "Acme").Return(gloves.Brands[0], nil).Once()
	f.carts.On("GetOrCreateByCustomerID", mock.Anything, "c-1").Return(gloveCart, nil).Once()
	f.items.On("FindLine", mock.Anything, "cart-1", "p-1", "Acme").
		Return(model.CartItem{Base: model.Base{ID: "line-1"}, Quantity: 4}, nil).Once()

	_, err := f.uc.AddItem(context.Background(), "c-1", usecase.CartLineInput{ProductID: "p-1", BrandName: "Acme", Quantity: 2})

	requireHTTPError(t, err, http.StatusUnprocessableEntity, "Only 5 units available in stock")
	f.items.AssertNotCalled(t, "UpsertLine", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_AddItem_DBError(t *testing.T) {
	f := newCartFixture()
	f.products.On("FindBrand", mock.Anything, "p-1", "Acme").Return(model.Brand{}, errors.New("boom")).Once()

	_, err := f.uc.AddItem(context.Background(), "c-1", usecase.CartLineInput{ProductID: "p-1", BrandName: "Acme", Quantity: 1})

	requireHTTPError(t, err, http.StatusInternalServerError, "")
}

// =====================
// UpdateItem / RemoveItem / Clear
// =====================

func TestCartUsecase_UpdateItem_LineMissing(t *testing.T) {
	f := newCartFixture()
	f.carts.On("FindByCustomerID", mock.Anything, "c-1").Return(gloveCart, nil).Once()
	f.items.On("FindLine", mock.Anything, "cart-1", "p-1", "Acme").Return(model.CartItem{}, repository.ErrNotFound).Once()

	_, err := f.uc.UpdateItem(context.Background(), "c-1", usecase.CartLineInput{ProductID: "p-1", BrandName: "Acme", Quantity: 1})

	requireHTTPError(t, err, http.StatusNotFound, "Item not found in cart")
	f.assertAll(t)
}

func TestCartUsecase_UpdateItem_ReplacesQuantity(t *testing.T) {
	f := newCartFixture()
	f.carts.On("FindByCustomerID", mock.Anything, "c-1").Return(gloveCart, nil).Once()
	f.items.On("FindLine", mock.Anything, "cart-1", "p-1", "Acme").
		Return(model.CartItem{Base: model.Base{ID: "line-1"}, Quantity: 1}, nil).Once()
	f.products.On("FindBrand", mock.Anything, "p-1", "Acme").Return(gloves.Brands[0], nil).Once()
	f.items.On("UpdateQuantity", mock.Anything, "line-1", 4).Return(nil).Once()
	f.items.On("ListByCartID", mock.Anything, "cart-1").Return([]model.CartItem{
		{ProductID: "p-1", BrandName: "Acme", Price: glovePrice, Quantity: 4},
	}, nil).Once()
	f.products.On("FindByID", mock.Anything, "p-1").Return(gloves, nil).Once()

	view, err := f.uc.UpdateItem(context.Background(), "c-1", usecase.CartLineInput{ProductID: "p-1", BrandName: "Acme", Quantity: 4})

	require.NoError(t, err)
	assert.True(t, view.TotalAmount.Equal(decimal.RequireFromString("50")))
	f.assertAll(t)
}

func TestCartUsecase_UpdateItem_OverStock(t *testing.T) {
	f := newCartFixture()
	f.carts.On("FindByCustomerID", mock.Anything, "c-1").Return(gloveCart, nil).Once()
	f.items.On("FindLine", mock.Anything, "cart-1", "p-1", "Acme").
		Return(model.CartItem{Base: model.Base{ID: "line-1"}, Quantity: 1}, nil).Once()
	f.products.On("FindBrand", mock.Anything, "p-1", "Acme").Return(gloves.Brands[0], nil).Once()

	_, err := f.uc.UpdateItem(context.Background(), "c-1", usecase.CartLineInput{ProductID: "p-1", BrandName: "Acme", Quantity: 6})

	requireHTTPError(t, err, http.StatusUnprocessableEntity, "Only 5 units available in stock")
}

func TestCartUsecase_RemoveItem(t *testing.T) {
	f := newCartFixture()
	f.carts.On("FindByCustomerID", mock.Anything, "c-1").Return(gloveCart, nil).Once()
	f.items.On("FindLine", mock.Anything, "cart-1", "p-1", "Acme").
		Return(model.CartItem{Base: model.Base{ID: "line-1"}, Quantity: 1}, nil).Once()
	f.items.On("DeleteByID", mock.Anything, "line-1").Return(nil).Once()
	f.items.On("ListByCartID", mock.Anything, "cart-1").Return([]model.CartItem{}, nil).Once()

	view, err := f.uc.RemoveItem(context.Background(), "c-1", usecase.CartLineInput{ProductID: "p-1", BrandName: "Acme"})

	require.NoError(t, err)
	assert.Empty(t, view.Items)
	f.assertAll(t)
}

func TestCartUsecase_RemoveItem_NoCart(t *testing.T) {
	f := newCartFixture()
	f.carts.On("FindByCustomerID", mock.Anything, "c-1").Return(model.Cart{}, repository.ErrNotFound).Once()

	_, err := f.uc.RemoveItem(context.Background(), "c-1", usecase.CartLineInput{ProductID: "p-1", BrandName: "Acme"})

	requireHTTPError(t, err, http.StatusNotFound, "Item not found in cart")
}

func TestCartUsecase_Clear(t *testing.T) {
	f := newCartFixture()
	f.carts.On("GetOrCreateByCustomerID", mock.Anything, "c-1").Return(gloveCart, nil).Once()
	f.carts.On("Clear", mock.Anything, "cart-1").Return(nil).Once()
	f.items.On("ListByCartID", mock.Anything, "cart-1").Return([]model.CartItem{}, nil).Once()

	view, err := f.uc.Clear(context.Background(), "c-1")

	require.NoError(t, err)
	assert.Equal(t, "sess-1", view.SessionID)
	assert.Empty(t, view.Items)
	f.assertAll(t)
}
