package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"medkit/internal/domain/model"
	"medkit/internal/infra/cache"
	repo "medkit/internal/repository"

	"go.uber.org/zap"
)

const productCachePrefix = "products:"

// 公開側の商品・レビュー
type ProductUsecase struct {
	productRepo  repo.ProductRepository
	reviewRepo   repo.ReviewRepository
	customerRepo repo.CustomerRepository
	cache        cache.Client
	cacheTTL     time.Duration
	log          *zap.Logger
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	reviewRepo repo.ReviewRepository,
	customerRepo repo.CustomerRepository,
	c cache.Client,
	cacheTTL time.Duration,
	log *zap.Logger,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		reviewRepo:   reviewRepo,
		customerRepo: customerRepo,
		cache:        c,
		cacheTTL:     cacheTTL,
		log:          log,
	}
}

type ListProductsInput struct {
	Page     int
	Limit    int
	Category string
	Q        string
}

type ReviewInput struct {
	Rating  int
	Comment string
	Images  []string
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) (Page[model.Product], error) {
	if in.Page < 0 || in.Limit < 0 {
		return Page[model.Product]{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Page == 0 {
		in.Page = 1
	}
	if in.Limit == 0 || in.Limit > 100 {
		in.Limit = 20
	}

	key := fmt.Sprintf("%slist:%d:%d:%s:%s", productCachePrefix, in.Page, in.Limit,
		strings.ToLower(in.Category), strings.ToLower(strings.TrimSpace(in.Q)))

	var out Page[model.Product]
	if u.readCache(ctx, key, &out) {
		return out, nil
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Category: in.Category,
		Q:        in.Q,
	})
	if err != nil {
		return Page[model.Product]{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out = newPage(items, total, in.Page, in.Limit)
	u.writeCache(ctx, key, out)
	return out, nil
}

func (u *ProductUsecase) Featured(ctx context.Context, limit int) ([]model.Product, error) {
	if limit <= 0 || limit > 50 {
		limit = 8
	}
	key := fmt.Sprintf("%sfeatured:%d", productCachePrefix, limit)

	var out []model.Product
	if u.readCache(ctx, key, &out) {
		return out, nil
	}

	featured := true
	items, _, err := u.productRepo.List(ctx, repo.ProductListQuery{Page: 1, Limit: limit, Featured: &featured})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	u.writeCache(ctx, key, items)
	return items, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID string) (model.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	key := productCachePrefix + "detail:" + productID
	var p model.Product
	if u.readCache(ctx, key, &p) {
		return p, nil
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	u.writeCache(ctx, key, p)
	return p, nil
}

func (u *ProductUsecase) Reviews(ctx context.Context, productID string) ([]model.Review, error) {
	if _, err := u.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	items, err := u.reviewRepo.ListByProductID(ctx, productID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// レビュー投稿。商品の平均評価も更新する。
func (u *ProductUsecase) LeaveReview(ctx context.Context, customerID, productID string, in ReviewInput) (model.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "Rating must be between 1 and 5")
	}
	if strings.TrimSpace(in.Comment) == "" {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "Comment is required")
	}

	c, err := u.customerRepo.FindByID(ctx, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Review{}, NewHTTPError(http.StatusNotFound, "Customer not found")
	}
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Review{}, NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	images := in.Images
	if images == nil {
		images = []string{}
	}
	rv := model.Review{
		ProductID:  productID,
		CustomerID: c.ID,
		UserName:   c.FullName,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
		Images:     images,
	}
	if err := u.reviewRepo.Create(ctx, &rv); err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	all, err := u.reviewRepo.ListByProductID(ctx, productID)
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	sum := 0
	for _, r := range all {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(all))
	if err := u.productRepo.UpdateRating(ctx, productID, avg, len(all)); err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	u.invalidate(ctx)

	return rv, nil
}

// キャッシュ障害は読み出し失敗として扱い、DBに落ちる
func (u *ProductUsecase) readCache(ctx context.Context, key string, out any) bool {
	if u.cache == nil {
		return false
	}
	raw, err := u.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			u.log.Warn("product cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		u.log.Warn("product cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (u *ProductUsecase) writeCache(ctx context.Context, key string, v any) {
	if u.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := u.cache.Set(ctx, key, string(b), u.cacheTTL); err != nil {
		u.log.Warn("product cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (u *ProductUsecase) invalidate(ctx context.Context) {
	invalidateProducts(ctx, u.cache, u.log)
}

// 在庫や商品が変わったら一覧・詳細のキャッシュを捨てる
func invalidateProducts(ctx context.Context, c cache.Client, log *zap.Logger) {
	if c == nil {
		return
	}
	if err := c.DeletePrefix(ctx, productCachePrefix); err != nil {
		log.Warn("product cache invalidation failed", zap.Error(err))
	}
}
