package middleware

import (
	"net/http"

	"medkit/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// パスの顧客IDとトークンの sub が一致するか確認する。ADMIN はどの顧客でも通す。
func CustomerGuard(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := UserID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("Unauthorized"))
			}
			if UserRole(c) == string(model.RoleAdmin) {
				return next(c)
			}
			if c.Param(param) != userID {
				return c.JSON(http.StatusUnauthorized, errorJSON("Unauthorized"))
			}
			return next(c)
		}
	}
}
