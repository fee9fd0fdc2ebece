package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
)

// /admin/products 系。作成・更新は multipart で送る。
type AdminProductAPI struct {
	c *Client
}

type BrandInput struct {
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice,omitempty"`
	Stock         int             `json:"stock"`
}

type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// ProductForm は管理画面の商品フォーム
type ProductForm struct {
	ProductName string
	Category    string
	Description string
	IsFeatured  bool
	Brands      []BrandInput
	Images      []ImageUpload
}

func (f ProductForm) multipart() (*multipartBody, error) {
	brands := f.Brands
	if brands == nil {
		brands = []BrandInput{}
	}
	b, err := json.Marshal(brands)
	if err != nil {
		return nil, fmt.Errorf("marshal brands: %w", err)
	}

	m := &multipartBody{}
	m.field("productName", f.ProductName)
	m.field("category", f.Category)
	m.field("description", f.Description)
	m.field("isFeatured", strconv.FormatBool(f.IsFeatured))
	// brands は JSON 文字列で送る
	m.field("brands", string(b))
	for _, img := range f.Images {
		m.file("productImages", img.Filename, img.Content)
	}
	return m, nil
}

func (a *AdminProductAPI) List(ctx context.Context) (ProductList, error) {
	r := request{
		method:   http.MethodGet,
		path:     "/admin/products",
		fallback: "Failed to fetch products",
	}

	var raw json.RawMessage
	if err := a.c.do(ctx, r, &raw); err != nil {
		return failedProducts(err, r.fallback), err
	}
	products, err := decodeList[Product](raw, "products")
	if err != nil {
		return failedProducts(err, r.fallback), err
	}
	for i := range products {
		products[i] = normalizeProduct(products[i])
	}
	return ProductList{Products: products, Total: len(products), Success: true}, nil
}

func (a *AdminProductAPI) Create(ctx context.Context, f ProductForm) (Product, error) {
	return a.save(ctx, http.MethodPost, "/admin/products", f, "Failed to create product")
}

func (a *AdminProductAPI) Update(ctx context.Context, id string, f ProductForm) (Product, error) {
	return a.save(ctx, http.MethodPut, pathOf("admin", "products", id), f, "Failed to update product")
}

func (a *AdminProductAPI) Delete(ctx context.Context, id string) error {
	return a.c.do(ctx, request{
		method:   http.MethodDelete,
		path:     pathOf("admin", "products", id),
		fallback: "Failed to delete product",
	}, nil)
}

func (a *AdminProductAPI) save(ctx context.Context, method, path string, f ProductForm, fallback string) (Product, error) {
	form, err := f.multipart()
	if err != nil {
		return Product{}, err
	}

	var raw json.RawMessage
	if err := a.c.do(ctx, request{method: method, path: path, form: form, fallback: fallback}, &raw); err != nil {
		return Product{}, err
	}

	var p Product
	if err := decodeObject(raw, "product", &p); err != nil {
		return Product{}, err
	}
	return normalizeProduct(p), nil
}
