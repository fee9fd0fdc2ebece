package handler

import (
	"net/http"

	"medkit/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /orders（管理者）と顧客自身の注文履歴
type AdminOrderHandler struct {
	orders *usecase.OrderUsecase
	uc     *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(orders *usecase.OrderUsecase, uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{orders: orders, uc: uc}
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered completed cancelled"`
}

type orderListResponse struct {
	Orders []usecase.OrderView `json:"orders"`
	pageMeta
}

type orderResponse struct {
	Order usecase.OrderView `json:"order"`
}

func (h *AdminOrderHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	admin := api.Group("/orders", guards.Admin()...)
	admin.GET("", h.list)
	admin.GET("/:id", h.detail)
	admin.PUT("/:id/status", h.updateStatus)

	api.GET("/customers/:customerId/orders", h.listMine, guards.Customer("customerId")...)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	return h.listFor(c, "")
}

func (h *AdminOrderHandler) listMine(c echo.Context) error {
	return h.listFor(c, c.Param("customerId"))
}

func (h *AdminOrderHandler) listFor(c echo.Context, customerID string) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.orders.List(c.Request().Context(), usecase.OrderListInput{
		Page:       page,
		Limit:      limit,
		Status:     c.QueryParam("status"),
		CustomerID: customerID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, orderListResponse{Orders: out.Items, pageMeta: metaOf(out)})
}

func (h *AdminOrderHandler) detail(c echo.Context) error {
	o, err := h.orders.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, orderResponse{Order: o})
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req OrderStatusUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	o, err := h.uc.UpdateStatus(c.Request().Context(), adminID, c.Param("id"), req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, orderResponse{Order: o})
}
