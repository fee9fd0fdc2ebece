package handler

import (
	"net/http"

	"medkit/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cart/{customerId} のHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type CartLineRequest struct {
	ProductID string `json:"productId"`
	BrandName string `json:"brandName"`
	Quantity  int    `json:"quantity"`
}

type cartResponse struct {
	Cart usecase.CartView `json:"cart"`
}

// /cart/:customerId 以下を登録
func (h *CartHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	g := api.Group("/cart/:customerId", guards.Customer("customerId")...)

	g.GET("", h.getCart)
	g.POST("/add", h.addItem)
	g.PUT("/update", h.updateItem)
	g.DELETE("/remove", h.removeItem)
	g.DELETE("/clear", h.clear)
}

func (h *CartHandler) getCart(c echo.Context) error {
	out, err := h.uc.GetCart(c.Request().Context(), c.Param("customerId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cartResponse{Cart: out})
}

func (h *CartHandler) addItem(c echo.Context) error {
	var req CartLineRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	out, err := h.uc.AddItem(c.Request().Context(), c.Param("customerId"), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cartResponse{Cart: out})
}

func (h *CartHandler) updateItem(c echo.Context) error {
	var req CartLineRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	out, err := h.uc.UpdateItem(c.Request().Context(), c.Param("customerId"), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cartResponse{Cart: out})
}

// DELETE でも body に productId / brandName を受ける
func (h *CartHandler) removeItem(c echo.Context) error {
	var req CartLineRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	out, err := h.uc.RemoveItem(c.Request().Context(), c.Param("customerId"), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cartResponse{Cart: out})
}

func (h *CartHandler) clear(c echo.Context) error {
	out, err := h.uc.Clear(c.Request().Context(), c.Param("customerId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cartResponse{Cart: out})
}

func (r CartLineRequest) input() usecase.CartLineInput {
	return usecase.CartLineInput{
		ProductID: r.ProductID,
		BrandName: r.BrandName,
		Quantity:  r.Quantity,
	}
}
