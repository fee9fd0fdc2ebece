package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medkit/internal/domain/model"
	"medkit/internal/infra/token"
	"medkit/internal/middleware"
	"medkit/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// レスポンス確認用
// =====================

type mwErrorResponse struct {
	Message string `json:"message"`
}

type mwOKResponse struct {
	UserID       string `json:"user_id"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
}

// =====================
// AdminRepository モック
// =====================

type MockAdminRepo struct {
	mock.Mock
}

func (m *MockAdminRepo) Create(ctx context.Context, a *model.Admin) error {
	panic("not used in middleware tests")
}

func (m *MockAdminRepo) FindByID(ctx context.Context, id string) (model.Admin, error) {
	panic("not used in middleware tests")
}

func (m *MockAdminRepo) FindByEmail(ctx context.Context, email string) (model.Admin, error) {
	panic("not used in middleware tests")
}

func (m *MockAdminRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	panic("not used in middleware tests")
}

func (m *MockAdminRepo) BumpTokenVersion(ctx context.Context, id string) error {
	panic("not used in middleware tests")
}

func (m *MockAdminRepo) GetTokenVersion(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

var _ repository.AdminRepository = (*MockAdminRepo)(nil)

// =====================
// helper
// =====================

const testSecret = "test-secret"

func mustIssue(t *testing.T, sub string, role model.Role, tv int) string {
	t.Helper()
	raw, _, err := token.NewJWTIssuer(testSecret, time.Hour).Issue(sub, role, tv, time.Now())
	require.NoError(t, err)
	return raw
}

func okHandler(c echo.Context) error {
	id, _ := middleware.UserID(c)
	tv, _ := c.Get(middleware.CtxTokenVersionKey).(int)
	return c.JSON(http.StatusOK, mwOKResponse{
		UserID:       id,
		Role:         middleware.UserRole(c),
		TokenVersion: tv,
	})
}

// AuthJWT を通した上で mws を順に掛けたルートを叩く
func serve(t *testing.T, path, target, authz string, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	chain := append([]echo.MiddlewareFunc{middleware.AuthJWT(token.NewJWTIssuer(testSecret, time.Hour))}, mws...)
	e.GET(path, okHandler, chain...)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body mwErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

// =====================
// AuthJWT
// =====================

func TestAuthJWT_SetsClaimsIntoContext(t *testing.T) {
	raw := mustIssue(t, "admin-1", model.RoleAdmin, 3)

	rec := serve(t, "/me", "/me", "Bearer "+raw)

	require.Equal(t, http.StatusOK, rec.Code)
	var body mwOKResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "admin-1", body.UserID)
	assert.Equal(t, "ADMIN", body.Role)
	assert.Equal(t, 3, body.TokenVersion)
}

func TestAuthJWT_Rejects(t *testing.T) {
	other, _, err := token.NewJWTIssuer("another-secret", time.Hour).Issue("c-1", model.RoleCustomer, 0, time.Now())
	require.NoError(t, err)
	expired, _, err := token.NewJWTIssuer(testSecret, time.Hour).Issue("c-1", model.RoleCustomer, 0, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name  string
		authz string
	}{
		{name: "header missing", authz: ""},
		{name: "not bearer", authz: "Basic abc"},
		{name: "empty token", authz: "Bearer   "},
		{name: "garbage", authz: "Bearer not-a-jwt"},
		{name: "wrong secret", authz: "Bearer " + other},
		{name: "expired", authz: "Bearer " + expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, "/me", "/me", tt.authz)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Unauthorized", decodeError(t, rec))
		})
	}
}

// =====================
// AdminRoleGuard
// =====================

func TestAdminRoleGuard(t *testing.T) {
	t.Run("admin passes", func(t *testing.T) {
		rec := serve(t, "/admin", "/admin", "Bearer "+mustIssue(t, "a-1", model.RoleAdmin, 0), middleware.AdminRoleGuard())
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("customer is forbidden", func(t *testing.T) {
		rec := serve(t, "/admin", "/admin", "Bearer "+mustIssue(t, "c-1", model.RoleCustomer, 0), middleware.AdminRoleGuard())
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Admin access required", decodeError(t, rec))
	})

	t.Run("no role in context", func(t *testing.T) {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		h := middleware.AdminRoleGuard()(okHandler)

		require.NoError(t, h(c))
		assert.Equal(t, http.StatusUnauthorized, c.Response().Status)
	})
}

// =====================
// TokenVersionGuard
// =====================

func TestTokenVersionGuard(t *testing.T) {
	t.Run("matching version passes", func(t *testing.T) {
		admins := new(MockAdminRepo)
		admins.On("GetTokenVersion", mock.Anything, "a-1").Return(2, nil).Once()

		rec := serve(t, "/admin", "/admin", "Bearer "+mustIssue(t, "a-1", model.RoleAdmin, 2), middleware.TokenVersionGuard(admins))

		assert.Equal(t, http.StatusOK, rec.Code)
		admins.AssertExpectations(t)
	})

	t.Run("stale version after logout", func(t *testing.T) {
		admins := new(MockAdminRepo)
		admins.On("GetTokenVersion", mock.Anything, "a-1").Return(3, nil).Once()

		rec := serve(t, "/admin", "/admin", "Bearer "+mustIssue(t, "a-1", model.RoleAdmin, 2), middleware.TokenVersionGuard(admins))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		admins.AssertExpectations(t)
	})

	t.Run("admin deleted", func(t *testing.T) {
		admins := new(MockAdminRepo)
		admins.On("GetTokenVersion", mock.Anything, "a-1").Return(0, repository.ErrNotFound).Once()

		rec := serve(t, "/admin", "/admin", "Bearer "+mustIssue(t, "a-1", model.RoleAdmin, 0), middleware.TokenVersionGuard(admins))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("lookup failure", func(t *testing.T) {
		admins := new(MockAdminRepo)
		admins.On("GetTokenVersion", mock.Anything, "a-1").Return(0, errors.New("db down")).Once()

		rec := serve(t, "/admin", "/admin", "Bearer "+mustIssue(t, "a-1", model.RoleAdmin, 0), middleware.TokenVersionGuard(admins))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("customer skips lookup", func(t *testing.T) {
		admins := new(MockAdminRepo)

		rec := serve(t, "/me", "/me", "Bearer "+mustIssue(t, "c-1", model.RoleCustomer, 0), middleware.TokenVersionGuard(admins))

		assert.Equal(t, http.StatusOK, rec.Code)
		admins.AssertNotCalled(t, "GetTokenVersion", mock.Anything, mock.Anything)
	})
}

// =====================
// CustomerGuard
// =====================

func TestCustomerGuard(t *testing.T) {
	guard := middleware.CustomerGuard("customerId")

	tests := []struct {
		name   string
		sub    string
		role   model.Role
		target string
		want   int
	}{
		{name: "own cart", sub: "c-1", role: model.RoleCustomer, target: "/cart/c-1", want: http.StatusOK},
		{name: "someone else's cart", sub: "c-1", role: model.RoleCustomer, target: "/cart/c-2", want: http.StatusUnauthorized},
		{name: "admin on any cart", sub: "a-1", role: model.RoleAdmin, target: "/cart/c-2", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, "/cart/:customerId", tt.target, "Bearer "+mustIssue(t, tt.sub, tt.role, 0), guard)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
