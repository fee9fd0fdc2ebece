package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"medkit/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 画像1枚の上限
const maxImageBytes = 5 << 20

// /admin/products（管理画面の商品フォームは multipart）
type AdminProductHandler struct {
	uc *usecase.AdminProductUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.AdminProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

// adminを登録
func (h *AdminProductHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	admin := api.Group("/admin/products", guards.Admin()...)

	admin.GET("", h.listProducts)
	admin.POST("", h.createProduct)
	admin.PUT("/:id", h.updateProduct)
	admin.DELETE("/:id", h.deleteProduct)
}

func (h *AdminProductHandler) listProducts(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.uc.List(c.Request().Context(), page, limit, c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, productListResponse{Products: out.Items, pageMeta: metaOf(out)})
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	in, err := readProductForm(c)
	if err != nil {
		return writeError(c, err)
	}

	p, err := h.uc.Create(c.Request().Context(), adminID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"message": "Product created", "product": p})
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	in, err := readProductForm(c)
	if err != nil {
		return writeError(c, err)
	}

	p, err := h.uc.Update(c.Request().Context(), adminID, c.Param("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Product updated", "product": p})
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.uc.Delete(c.Request().Context(), adminID, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "Product deleted"})
}

// productName / category / description / isFeatured / brands(JSON) と productImages
func readProductForm(c echo.Context) (usecase.AdminProductInput, error) {
	in := usecase.AdminProductInput{
		ProductName: c.FormValue("productName"),
		Category:    c.FormValue("category"),
		Description: c.FormValue("description"),
	}

	if v := c.FormValue("isFeatured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return in, usecase.NewHTTPError(http.StatusBadRequest, "isFeatured must be a boolean")
		}
		in.IsFeatured = b
	}

	if v := strings.TrimSpace(c.FormValue("brands")); v != "" {
		if err := json.Unmarshal([]byte(v), &in.Brands); err != nil {
			return in, usecase.NewHTTPError(http.StatusBadRequest, "brands must be a JSON array")
		}
	}

	form, err := c.MultipartForm()
	if err != nil {
		// 画像なしの form-urlencoded も許す
		if errors.Is(err, http.ErrNotMultipart) {
			return in, nil
		}
		return in, usecase.NewHTTPError(http.StatusBadRequest, "Invalid form data")
	}
	for _, fh := range form.File["productImages"] {
		f, err := readUpload(fh, maxImageBytes)
		if err != nil {
			return in, err
		}
		in.Images = append(in.Images, usecase.ImageFile(f))
	}
	return in, nil
}

type upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

func readUpload(fh *multipart.FileHeader, limit int64) (upload, error) {
	if fh.Size > limit {
		return upload{}, usecase.NewHTTPError(http.StatusRequestEntityTooLarge, "File too large")
	}
	src, err := fh.Open()
	if err != nil {
		return upload{}, usecase.NewHTTPError(http.StatusBadRequest, "Invalid file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return upload{}, usecase.NewHTTPError(http.StatusBadRequest, "Invalid file")
	}
	if int64(len(data)) > limit {
		return upload{}, usecase.NewHTTPError(http.StatusRequestEntityTooLarge, "File too large")
	}

	ct := fh.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	return upload{Filename: fh.Filename, ContentType: ct, Data: data}, nil
}
