package middleware

import (
	"net/http"

	"medkit/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// contextに入っているroleがADMINかどうかを確認します。

func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := UserRole(c)
			if role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("Unauthorized"))
			}

			// CUSTOMERは拒否、ADMINだけ許可
			if role != string(model.RoleAdmin) {
				return c.JSON(http.StatusForbidden, errorJSON("Admin access required"))
			}

			return next(c)
		}
	}
}
