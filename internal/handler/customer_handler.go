package handler

import (
	"net/http"

	repo "medkit/internal/repository"
	"medkit/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 管理者の顧客一覧・詳細
type CustomerHandler struct {
	uc *usecase.CustomerUsecase
}

// DI
func NewCustomerHandler(uc *usecase.CustomerUsecase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

type customerListResponse struct {
	Customers []usecase.CustomerView `json:"customers"`
	pageMeta
}

func (h *CustomerHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	admin := api.Group("/customers", guards.Admin()...)
	admin.GET("", h.list)
	admin.GET("/:id", h.detail)
}

func (h *CustomerHandler) list(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.uc.List(c.Request().Context(), repo.CustomerListQuery{
		Page:   page,
		Limit:  limit,
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, customerListResponse{Customers: out.Items, pageMeta: metaOf(out)})
}

func (h *CustomerHandler) detail(c echo.Context) error {
	cu, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"customer": cu})
}
