package middleware

import (
	"net/http"

	"medkit/internal/domain/model"
	"medkit/internal/repository"

	"github.com/labstack/echo/v4"
)

// 管理者トークンの tv と DB の token_version が一致するか確認。
// 顧客トークンは tv を持たないのでそのまま通す。
func TokenVersionGuard(admins repository.AdminRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if UserRole(c) != string(model.RoleAdmin) {
				return next(c)
			}

			// AuthJWTが入れたuser_id を取得する
			adminID, ok := UserID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("Unauthorized"))
			}

			// AuthJWTが入れたtoken_version(tv)を取得する
			tv, ok := c.Get(CtxTokenVersionKey).(int)
			if !ok || tv < 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("Unauthorized"))
			}

			// DBから最新のtoken_versionを取得する
			current, err := admins.GetTokenVersion(c.Request().Context(), adminID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("Unauthorized"))
			}

			// 一致しなければ強制ログアウト扱い（401）
			if current != tv {
				return c.JSON(http.StatusUnauthorized, errorJSON("Unauthorized"))
			}

			return next(c)
		}
	}
}
