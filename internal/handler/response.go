package handler

import (
	"errors"
	"net/http"
	"strconv"

	"medkit/internal/middleware"
	"medkit/internal/usecase"
	"medkit/internal/validator"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Message: he.Message})
	}
	var ve *validator.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: ve.Error()})
	}

	// 500
	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Message: msg})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
}

func getUserIDFromContext(c echo.Context) (string, bool) {
	return middleware.UserID(c)
}

// page / limit（未指定は 0 のまま。既定値は usecase 側で決める）
func pageParams(c echo.Context) (int, int, error) {
	page, err := intQuery(c, "page")
	if err != nil {
		return 0, 0, errors.New("invalid page")
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		return 0, 0, errors.New("invalid limit")
	}
	return page, limit, nil
}

func intQuery(c echo.Context, name string) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + name)
	}
	return n, nil
}

// 一覧レスポンスの共通部分
type pageMeta struct {
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
}

func metaOf[T any](p usecase.Page[T]) pageMeta {
	return pageMeta{Total: p.Total, TotalPages: p.TotalPages, CurrentPage: p.CurrentPage}
}

// bind + validate
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return usecase.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}
