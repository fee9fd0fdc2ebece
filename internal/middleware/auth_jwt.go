package middleware

import (
	"net/http"
	"strings"

	"medkit/internal/infra/token"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey       = "user_id"       // string
	CtxUserRoleKey     = "user_role"     // string
	CtxTokenVersionKey = "token_version" // int
)

// bearerAuth用のJWT検証ミドルウェア。
func AuthJWT(issuer *token.JWTIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawToken, ok := bearerToken(c.Request())
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("Unauthorized"))
			}

			// JWTをパースして検証する
			claims, err := issuer.Parse(rawToken)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("Unauthorized"))
			}

			// roleとtvも必須
			if claims.Role == "" || claims.TokenVersion < 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("Unauthorized"))
			}

			// contextへ保存
			c.Set(CtxUserIDKey, claims.Subject)
			c.Set(CtxUserRoleKey, string(claims.Role))
			c.Set(CtxTokenVersionKey, claims.TokenVersion)

			return next(c)
		}
	}
}

// Authorizationヘッダから Bearer token を抜く
func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if authz == "" {
		return "", false
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	return raw, raw != ""
}

type errorResponse struct {
	Message string `json:"message"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Message: msg}
}

// AuthJWTが入れたuser_idを取り出す
func UserID(c echo.Context) (string, bool) {
	id, ok := c.Get(CtxUserIDKey).(string)
	return id, ok && id != ""
}

func UserRole(c echo.Context) string {
	role, _ := c.Get(CtxUserRoleKey).(string)
	return role
}
