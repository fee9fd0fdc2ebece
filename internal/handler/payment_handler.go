package handler

import (
	"net/http"

	"medkit/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /payments（管理者の審査）
type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

// DI
func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type ApproveRequest struct {
	AdminNotes string `json:"adminNotes"`
}

type RejectRequest struct {
	RejectionReason string `json:"rejectionReason"`
	AdminNotes      string `json:"adminNotes"`
}

type paymentListResponse struct {
	Payments []usecase.SessionView `json:"payments"`
	pageMeta
}

func (h *PaymentHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	admin := guards.Admin()
	api.GET("/payments", h.list, admin...)
	api.GET("/payments/:id", h.detail, admin...)
	api.GET("/payments/:id/proof", h.proof, admin...)
	api.PUT("/payments/:id/approve", h.approve, admin...)
	api.PUT("/payments/:id/reject", h.reject, admin...)
}

func (h *PaymentHandler) list(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.uc.List(c.Request().Context(), usecase.PaymentListInput{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, paymentListResponse{Payments: out.Items, pageMeta: metaOf(out)})
}

func (h *PaymentHandler) detail(c echo.Context) error {
	s, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sessionResponse{Session: s})
}

// 証跡ファイルをそのまま返す
func (h *PaymentHandler) proof(c echo.Context) error {
	data, contentType, err := h.uc.Proof(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Blob(http.StatusOK, contentType, data)
}

func (h *PaymentHandler) approve(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req ApproveRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	s, err := h.uc.Approve(c.Request().Context(), adminID, c.Param("id"), req.AdminNotes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sessionResponse{Message: "Payment approved", Session: s})
}

func (h *PaymentHandler) reject(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req RejectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	s, err := h.uc.Reject(c.Request().Context(), adminID, c.Param("id"), req.RejectionReason, req.AdminNotes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sessionResponse{Message: "Payment rejected", Session: s})
}
