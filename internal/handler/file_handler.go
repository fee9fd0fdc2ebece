package handler

import (
	"errors"
	"net/http"
	"strings"

	"medkit/internal/infra/storage"

	"github.com/labstack/echo/v4"
)

// 公開してよいキーの接頭辞（振込証跡は /payments/:id/proof 経由のみ）
const publicFilePrefix = "products/"

// /files/* 商品画像の配信
type FileHandler struct {
	files storage.ObjectStorage
}

// DI
func NewFileHandler(files storage.ObjectStorage) *FileHandler {
	return &FileHandler{files: files}
}

func (h *FileHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/files/*", h.get)
}

func (h *FileHandler) get(c echo.Context) error {
	key := strings.TrimPrefix(c.Param("*"), "/")
	if !strings.HasPrefix(key, publicFilePrefix) || strings.Contains(key, "..") {
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "File not found"})
	}

	data, contentType, err := h.files.Get(c.Request().Context(), key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: "File not found"})
	}
	if err != nil {
		return writeError(c, err)
	}
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, contentType, data)
}
