package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// /user/products 系（顧客向けの読み取り）
type ProductAPI struct {
	c *Client
}

func failedProducts(err error, fallback string) ProductList {
	return ProductList{Products: []Product{}, Error: errorText(err, fallback)}
}

// 読み取り失敗時の error 文字列
func errorText(err error, fallback string) string {
	if ae, ok := AsAPIError(err); ok {
		return ae.Message
	}
	if err != nil && fallback == "" {
		return err.Error()
	}
	return fallback
}

func (a *ProductAPI) List(ctx context.Context) (ProductList, error) {
	return a.list(ctx, request{
		method:   http.MethodGet,
		path:     "/user/products",
		fallback: "Failed to fetch products",
	})
}

func (a *ProductAPI) ByCategory(ctx context.Context, category string, page, limit int) (ProductList, error) {
	return a.list(ctx, request{
		method:   http.MethodGet,
		path:     pathOf("user", "products", "category", category),
		query:    pageQuery(page, limit),
		fallback: "Failed to fetch products by category",
	})
}

func (a *ProductAPI) Search(ctx context.Context, q string, page, limit int) (ProductList, error) {
	query := pageQuery(page, limit)
	query.Set("q", q)
	return a.list(ctx, request{
		method:   http.MethodGet,
		path:     "/user/products/search",
		query:    query,
		fallback: "Failed to search products",
	})
}

func (a *ProductAPI) list(ctx context.Context, r request) (ProductList, error) {
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

	meta := decodeMeta(raw)
	out := ProductList{
		Products:   products,
		Total:      meta.Total,
		Page:       meta.CurrentPage,
		TotalPages: meta.TotalPages,
		Success:    true,
	}
	if out.Total == 0 {
		out.Total = len(products)
	}
	return out, nil
}

func (a *ProductAPI) Get(ctx context.Context, id string) (Product, error) {
	r := request{
		method:   http.MethodGet,
		path:     pathOf("user", "products", id),
		fallback: "Failed to fetch product",
	}

	var raw json.RawMessage
	if err := a.c.do(ctx, r, &raw); err != nil {
		return normalizeProduct(Product{}), err
	}

	var p Product
	if err := decodeObject(raw, "product", &p); err != nil {
		return normalizeProduct(Product{}), err
	}
	return normalizeProduct(p), nil
}

// Featured は先頭ブランドを平らにして返す
func (a *ProductAPI) Featured(ctx context.Context, limit int) (FeaturedList, error) {
	r := request{
		method:   http.MethodGet,
		path:     "/user/products/featured",
		query:    pageQuery(0, limit),
		fallback: "Failed to fetch featured products",
	}

	var raw json.RawMessage
	if err := a.c.do(ctx, r, &raw); err != nil {
		return FeaturedList{Products: []FeaturedProduct{}, Error: errorText(err, r.fallback)}, err
	}
	products, err := decodeList[Product](raw, "products")
	if err != nil {
		return FeaturedList{Products: []FeaturedProduct{}, Error: errorText(err, r.fallback)}, err
	}

	out := make([]FeaturedProduct, 0, len(products))
	for _, p := range products {
		out = append(out, flattenFeatured(normalizeProduct(p)))
	}
	return FeaturedList{Products: out, Total: len(out), Success: true}, nil
}

func (a *ProductAPI) Reviews(ctx context.Context, productID string) (ReviewList, error) {
	r := request{
		method:   http.MethodGet,
		path:     pathOf("user", "products", "review", productID),
		fallback: "Failed to fetch product reviews",
	}

	var raw json.RawMessage
	if err := a.c.do(ctx, r, &raw); err != nil {
		return ReviewList{Reviews: []Review{}, Error: errorText(err, r.fallback)}, err
	}
	reviews, err := decodeList[Review](raw, "reviews")
	if err != nil {
		return ReviewList{Reviews: []Review{}, Error: errorText(err, r.fallback)}, err
	}

	now := time.Now()
	for i := range reviews {
		reviews[i] = normalizeReview(reviews[i], productID, now)
	}
	return ReviewList{Reviews: reviews, Total: len(reviews), Success: true}, nil
}

func (a *ProductAPI) LeaveReview(ctx context.Context, customerID, productID string, in ReviewInput) (Review, error) {
	if in.Images == nil {
		in.Images = []string{}
	}
	r := request{
		method:   http.MethodPost,
		path:     pathOf("user", "products", "review", customerID, productID),
		body:     in,
		fallback: "Failed to submit review",
	}

	var raw json.RawMessage
	if err := a.c.do(ctx, r, &raw); err != nil {
		return Review{}, err
	}

	var rv Review
	if err := decodeObject(raw, "review", &rv); err != nil {
		return Review{}, fmt.Errorf("leave review: %w", err)
	}
	return normalizeReview(rv, productID, time.Now()), nil
}

func normalizeProduct(p Product) Product {
	if p.Brands == nil {
		p.Brands = []Brand{}
	}
	if p.ProductImages == nil {
		p.ProductImages = []string{}
	}
	return p
}

func flattenFeatured(p Product) FeaturedProduct {
	fp := FeaturedProduct{
		ID:            p.ID,
		ProductName:   p.ProductName,
		Category:      p.Category,
		Rating:        p.Rating,
		Reviews:       p.Reviews,
		ProductImages: p.ProductImages,
		IsFeatured:    p.IsFeatured,
	}
	if len(p.Brands) > 0 {
		b := p.Brands[0]
		fp.Brand = b.Name
		fp.Price = b.Price
		fp.OriginalPrice = b.OriginalPrice
		fp.Stock = b.Stock
	}
	return fp
}

func normalizeReview(r Review, productID string, now time.Time) Review {
	if r.UserName == "" {
		r.UserName = "Anonymous User"
	}
	if r.ProductID == "" {
		r.ProductID = productID
	}
	if r.Images == nil {
		r.Images = []string{}
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	return r
}
