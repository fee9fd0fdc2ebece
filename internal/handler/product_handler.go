package handler

import (
	"net/http"

	"medkit/internal/domain/model"
	"medkit/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /user/products の公開API
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type productListResponse struct {
	Products []model.Product `json:"products"`
	pageMeta
}

type ReviewRequest struct {
	Rating  int      `json:"rating" validate:"required,min=1,max=5"`
	Comment string   `json:"comment" validate:"required"`
	Images  []string `json:"images"`
}

// 公開商品のルートを登録（レビュー投稿だけ顧客本人）
func (h *ProductHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	g := api.Group("/user/products")

	g.GET("", h.list)
	g.GET("/featured", h.featured)
	g.GET("/search", h.search)
	g.GET("/category/:category", h.byCategory)
	g.GET("/review/:productId", h.reviews)
	g.POST("/review/:customerId/:productId", h.leaveReview, guards.Customer("customerId")...)
	g.GET("/:id", h.detail)
}

func (h *ProductHandler) list(c echo.Context) error {
	return h.listWith(c, c.QueryParam("category"), c.QueryParam("q"))
}

func (h *ProductHandler) search(c echo.Context) error {
	return h.listWith(c, c.QueryParam("category"), c.QueryParam("q"))
}

func (h *ProductHandler) byCategory(c echo.Context) error {
	return h.listWith(c, c.Param("category"), "")
}

func (h *ProductHandler) listWith(c echo.Context, category, q string) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.uc.ListProducts(c.Request().Context(), usecase.ListProductsInput{
		Page:     page,
		Limit:    limit,
		Category: category,
		Q:        q,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, productListResponse{Products: out.Items, pageMeta: metaOf(out)})
}

func (h *ProductHandler) featured(c echo.Context) error {
	limit, err := intQuery(c, "limit")
	if err != nil {
		return badRequest(c, err.Error())
	}

	items, err := h.uc.Featured(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	if items == nil {
		items = []model.Product{}
	}
	return c.JSON(http.StatusOK, map[string]any{"products": items})
}

func (h *ProductHandler) detail(c echo.Context) error {
	p, err := h.uc.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"product": p})
}

func (h *ProductHandler) reviews(c echo.Context) error {
	items, err := h.uc.Reviews(c.Request().Context(), c.Param("productId"))
	if err != nil {
		return writeError(c, err)
	}
	if items == nil {
		items = []model.Review{}
	}
	return c.JSON(http.StatusOK, map[string]any{"reviews": items})
}

func (h *ProductHandler) leaveReview(c echo.Context) error {
	var req ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	rv, err := h.uc.LeaveReview(c.Request().Context(), c.Param("customerId"), c.Param("productId"), usecase.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
		Images:  req.Images,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"review": rv})
}
