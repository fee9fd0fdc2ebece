package server

import (
	"net/http"
	"time"

	"medkit/internal/handler"
	infraRepo "medkit/internal/infra/repository"
	"medkit/internal/usecase"
	auth "medkit/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// RegisterRoutes は repository → usecase → handler を組み立てて /api に載せる
func RegisterRoutes(e *echo.Echo, d Deps) {
	// Repository（GORM実装）生成
	customerRepo := infraRepo.NewCustomerGormRepository(d.DB)
	adminRepo := infraRepo.NewAdminGormRepository(d.DB)
	productRepo := infraRepo.NewProductGormRepository(d.DB)
	reviewRepo := infraRepo.NewReviewGormRepository(d.DB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(d.DB)
	cartRepo := infraRepo.NewCartGormRepository(d.DB)
	checkoutRepo := infraRepo.NewCheckoutGormRepository(d.DB)
	deliveryRepo := infraRepo.NewDeliveryGormRepository(d.DB)
	orderRepo := infraRepo.NewOrderGormRepository(d.DB)
	auditRepo := infraRepo.NewAuditLogGormRepository(d.DB)
	txm := infraRepo.NewTxManagerGorm(d.DB)

	// bcrypt（会員登録：Hash / ログイン：Verify）
	cost := d.BcryptCost
	if cost == 0 {
		cost = 12
	}
	hasher := auth.NewBcryptPasswordHasher(cost)
	verifier := auth.NewBcryptPasswordVerifier()
	clock := systemClock{}

	// Usecase生成
	registerAdminUC := auth.NewRegisterAdminUsecase(adminRepo, hasher, d.Issuer, clock)
	signupUC := auth.NewSignupCustomerUsecase(customerRepo, hasher, d.Issuer, clock)
	loginUC := auth.NewLoginUsecase(adminRepo, customerRepo, verifier, d.Issuer, clock)

	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, productRepo)
	productUC := usecase.NewProductUsecase(productRepo, reviewRepo, customerRepo, d.Cache, d.CacheTTL, d.Log)
	adminProductUC := usecase.NewAdminProductUsecase(productRepo, inventoryRepo, auditRepo, d.Files, d.Cache, d.Log)
	customerUC := usecase.NewCustomerUsecase(customerRepo, orderRepo)
	checkoutUC := usecase.NewCheckoutUsecase(cartUC, cartRepo, cartRepo, productRepo, customerRepo, checkoutRepo, d.Files, d.Profile, d.Log)
	paymentUC := usecase.NewPaymentUsecase(txm, checkoutRepo, deliveryRepo, d.Files, d.Events, d.Cache, d.Log)
	deliveryUC := usecase.NewDeliveryUsecase(deliveryRepo, customerRepo, checkoutRepo, orderRepo)
	orderUC := usecase.NewOrderUsecase(orderRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, orderUC, d.Events, d.Cache, d.Log)
	auditLogUC := usecase.NewAuditLogUsecase(auditRepo)

	guards := handler.NewGuards(d.Issuer, adminRepo)
	api := e.Group("/api")

	// Handler生成・登録
	handler.NewAuthHandler(registerAdminUC, signupUC, loginUC).RegisterRoutes(api, guards)
	handler.NewCartHandler(cartUC).RegisterRoutes(api, guards)
	handler.NewProductHandler(productUC).RegisterRoutes(api, guards)
	handler.NewAdminProductHandler(adminProductUC).RegisterRoutes(api, guards)
	handler.NewCustomerHandler(customerUC).RegisterRoutes(api, guards)
	handler.NewCheckoutHandler(checkoutUC).RegisterRoutes(api, guards)
	handler.NewPaymentHandler(paymentUC).RegisterRoutes(api, guards)
	handler.NewDeliveryHandler(deliveryUC).RegisterRoutes(api, guards)
	handler.NewAdminOrderHandler(orderUC, adminOrderUC).RegisterRoutes(api, guards)
	handler.NewAuditLogHandler(auditLogUC).RegisterRoutes(api, guards)
	handler.NewFileHandler(d.Files).RegisterRoutes(api)

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
