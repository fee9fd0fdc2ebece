package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"medkit/internal/domain/model"
	"medkit/internal/infra/cache"
	"medkit/internal/infra/storage"
	repo "medkit/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxProductImages = 5

// 管理画面の商品 CRUD
type AdminProductUsecase struct {
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
	auditRepo     repo.AuditLogRepository
	files         storage.ObjectStorage
	cache         cache.Client
	log           *zap.Logger
}

// DI
func NewAdminProductUsecase(
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
	auditRepo repo.AuditLogRepository,
	files storage.ObjectStorage,
	c cache.Client,
	log *zap.Logger,
) *AdminProductUsecase {
	return &AdminProductUsecase{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
		files:         files,
		cache:         c,
		log:           log,
	}
}

type BrandInput struct {
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Stock         int             `json:"stock"`
}

type ImageFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type AdminProductInput struct {
	ProductName string
	Category    string
	Description string
	IsFeatured  bool
	Brands      []BrandInput
	Images      []ImageFile
}

func (in AdminProductInput) validate() error {
	if strings.TrimSpace(in.ProductName) == "" {
		return NewHTTPError(http.StatusBadRequest, "productName is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return NewHTTPError(http.StatusBadRequest, "category is required")
	}
	if len(in.Brands) == 0 {
		return NewHTTPError(http.StatusBadRequest, "at least one brand is required")
	}
	if len(in.Images) > maxProductImages {
		return NewHTTPError(http.StatusBadRequest, "too many images")
	}

	seen := make(map[string]bool, len(in.Brands))
	for _, b := range in.Brands {
		name := strings.TrimSpace(b.Name)
		if name == "" {
			return NewHTTPError(http.StatusBadRequest, "brand name is required")
		}
		if seen[name] {
			return NewHTTPError(http.StatusBadRequest, "duplicate brand: "+name)
		}
		seen[name] = true
		if b.Price.IsNegative() || b.OriginalPrice.IsNegative() {
			return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
		}
		if b.Stock < 0 {
			return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
		}
	}
	return nil
}

func (u *AdminProductUsecase) List(ctx context.Context, page, limit int, q string) (Page[model.Product], error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{Page: page, Limit: limit, Q: q})
	if err != nil {
		return Page[model.Product]{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return newPage(items, total, page, limit), nil
}

func (u *AdminProductUsecase) Create(ctx context.Context, adminID string, in AdminProductInput) (model.Product, error) {
	if adminID == "" {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}

	images, err := u.storeImages(ctx, in.Images)
	if err != nil {
		return model.Product{}, err
	}

	p := model.Product{
		ProductName: strings.TrimSpace(in.ProductName),
		Category:    strings.TrimSpace(in.Category),
		Description: in.Description,
		Images:      images,
		IsFeatured:  in.IsFeatured,
		Brands:      toBrands(in.Brands),
	}
	if err := u.productRepo.Create(ctx, &p); err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	for _, b := range p.Brands {
		u.recordAdjustment(ctx, adminID, p.ID, b.ID, b.Stock, "initial stock")
	}
	u.audit(ctx, adminID, model.AuditActionCreateProduct, p.ID, nil, p)
	u.invalidate(ctx)
	return p, nil
}

// 画像が送られてこなければ既存の画像を残す
func (u *AdminProductUsecase) Update(ctx context.Context, adminID, productID string, in AdminProductInput) (model.Product, error) {
	if adminID == "" {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}

	before, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	images := before.Images
	if len(in.Images) > 0 {
		if images, err = u.storeImages(ctx, in.Images); err != nil {
			return model.Product{}, err
		}
	}

	p := before
	p.ProductName = strings.TrimSpace(in.ProductName)
	p.Category = strings.TrimSpace(in.Category)
	p.Description = in.Description
	p.IsFeatured = in.IsFeatured
	p.Images = images
	p.Brands = toBrands(in.Brands)

	if err := u.productRepo.Update(ctx, &p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	after, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	for _, b := range after.Brands {
		prev, _ := before.Brand(b.Name)
		if delta := b.Stock - prev.Stock; delta != 0 {
			u.recordAdjustment(ctx, adminID, after.ID, b.ID, delta, "admin update")
		}
	}
	u.audit(ctx, adminID, model.AuditActionUpdateProduct, after.ID, before, after)
	u.invalidate(ctx)
	return after, nil
}

func (u *AdminProductUsecase) Delete(ctx context.Context, adminID, productID string) error {
	if adminID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	before, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.productRepo.Delete(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, adminID, model.AuditActionDeleteProduct, productID, before, nil)
	u.invalidate(ctx)
	return nil
}

func toBrands(in []BrandInput) []model.Brand {
	out := make([]model.Brand, 0, len(in))
	for _, b := range in {
		out = append(out, model.Brand{
			Name:          strings.TrimSpace(b.Name),
			Price:         b.Price,
			OriginalPrice: b.OriginalPrice,
			Stock:         b.Stock,
		})
	}
	return out
}

// 画像は /api/files/{key} で配信する
func (u *AdminProductUsecase) storeImages(ctx context.Context, files []ImageFile) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		if !strings.HasPrefix(f.ContentType, "image/") {
			return nil, NewHTTPError(http.StatusBadRequest, "only image files are allowed")
		}
		key := "products/" + uuid.NewString() + "-" + storage.SafeName(f.Filename)
		if err := u.files.Put(ctx, key, f.ContentType, f.Data); err != nil {
			u.log.Error("store product image failed", zap.String("key", key), zap.Error(err))
			return nil, NewHTTPError(http.StatusInternalServerError, "failed to store image")
		}
		urls = append(urls, "/api/files/"+key)
	}
	return urls, nil
}

// 在庫履歴の失敗で本処理は止めない
func (u *AdminProductUsecase) recordAdjustment(ctx context.Context, adminID, productID, brandID string, delta int, reason string) {
	if delta == 0 {
		return
	}
	err := u.inventoryRepo.CreateAdjustment(ctx, model.InventoryAdjustment{
		ProductID: productID,
		BrandID:   brandID,
		ActorID:   adminID,
		Delta:     delta,
		Reason:    reason,
	})
	if err != nil {
		u.log.Warn("inventory adjustment not recorded", zap.String("brand_id", brandID), zap.Error(err))
	}
}

// 「誰が」「何を」「どの対象に」「どう変えたか」を残す
func (u *AdminProductUsecase) audit(ctx context.Context, adminID string, action model.AuditAction, productID string, before, after any) {
	err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorID:      adminID,
		Action:       action,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   productID,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
	})
	if err != nil {
		u.log.Warn("audit log not recorded", zap.String("action", string(action)), zap.Error(err))
	}
}

func (u *AdminProductUsecase) invalidate(ctx context.Context) {
	invalidateProducts(ctx, u.cache, u.log)
}

func toJSON(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
