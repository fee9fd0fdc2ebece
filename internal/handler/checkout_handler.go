package handler

import (
	"net/http"

	"medkit/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// 上限 10MB（画像か PDF）
const maxProofBytes = 10 << 20

// /checkout と /payments/upload（顧客側）
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type CheckoutRequest struct {
	ShippingFee decimal.Decimal `json:"shippingFee"`
	Notes       string          `json:"notes"`
}

type sessionResponse struct {
	Message string              `json:"message,omitempty"`
	Session usecase.SessionView `json:"session"`
}

func (h *CheckoutHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	api.POST("/checkout/:customerId/:sessionId", h.createSession, guards.Customer("customerId")...)
	api.GET("/checkout/summary/:customerId/:sessionId", h.summary, guards.Customer("customerId")...)
	api.POST("/payments/upload/:customerId", h.uploadProof, guards.Customer("customerId")...)
}

func (h *CheckoutHandler) createSession(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	s, err := h.uc.CreateSession(c.Request().Context(), c.Param("customerId"), c.Param("sessionId"), usecase.CheckoutInput{
		ShippingFee: req.ShippingFee,
		Notes:       req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, sessionResponse{Session: s})
}

func (h *CheckoutHandler) summary(c echo.Context) error {
	out, err := h.uc.Summary(c.Request().Context(), c.Param("customerId"), c.Param("sessionId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// multipart の paymentProof を最新の pending セッションに付ける
func (h *CheckoutHandler) uploadProof(c echo.Context) error {
	fh, err := c.FormFile("paymentProof")
	if err != nil {
		return badRequest(c, "paymentProof file is required")
	}
	f, err := readUpload(fh, maxProofBytes)
	if err != nil {
		return writeError(c, err)
	}

	s, err := h.uc.UploadPaymentProof(c.Request().Context(), c.Param("customerId"), usecase.ProofFile(f))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sessionResponse{Message: "Payment proof uploaded", Session: s})
}
