package handler

import (
	"medkit/internal/infra/token"
	"medkit/internal/middleware"
	"medkit/internal/repository"

	"github.com/labstack/echo/v4"
)

// ルートごとの認証ミドルウェアの組み合わせ
type Guards struct {
	issuer *token.JWTIssuer
	admins repository.AdminRepository
}

// DI
func NewGuards(issuer *token.JWTIssuer, admins repository.AdminRepository) Guards {
	return Guards{issuer: issuer, admins: admins}
}

// ログイン済みなら誰でも
func (g Guards) Authenticated() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		middleware.AuthJWT(g.issuer),
		middleware.TokenVersionGuard(g.admins),
	}
}

// パスの顧客本人（または ADMIN）
func (g Guards) Customer(param string) []echo.MiddlewareFunc {
	return append(g.Authenticated(), middleware.CustomerGuard(param))
}

func (g Guards) Admin() []echo.MiddlewareFunc {
	return append(g.Authenticated(), middleware.AdminRoleGuard())
}
