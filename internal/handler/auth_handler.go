package handler

import (
	"errors"
	"net/http"

	"medkit/internal/domain/model"
	auth "medkit/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// /admin/register, /admin/login, /customers(/login)
type AuthHandler struct {
	adminRegisterUC  *auth.RegisterAdminUsecase  // 管理者登録usecase
	customerSignupUC *auth.SignupCustomerUsecase // 顧客登録usecase
	loginUC          *auth.LoginUsecase          // ログインusecase
}

// DIコンストラクタ
func NewAuthHandler(
	adminRegisterUC *auth.RegisterAdminUsecase,
	customerSignupUC *auth.SignupCustomerUsecase,
	loginUC *auth.LoginUsecase,
) *AuthHandler {
	return &AuthHandler{
		adminRegisterUC:  adminRegisterUC,
		customerSignupUC: customerSignupUC,
		loginUC:          loginUC,
	}
}

// /admin/register のリクエストボディ。
type adminRegisterRequest struct {
	FullName        string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	PhoneNumber     string `json:"phoneNumber"`
}

// POST /customers のリクエストボディ。
type customerSignupRequest struct {
	FullName string        `json:"fullName" validate:"required"`
	Email    string        `json:"email" validate:"required"`
	Password string        `json:"password" validate:"required"`
	Phone    string        `json:"phone"`
	Address  model.Address `json:"address"`
}

// ログインのリクエストボディ。
type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type adminAuthResponse struct {
	User  model.Admin `json:"user"`
	Token string      `json:"token"`
}

// 顧客は data 配列で返す
type customerAuthResponse struct {
	Message string           `json:"message,omitempty"`
	Data    []model.Customer `json:"data"`
	Token   string           `json:"token"`
}

func (h *AuthHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	api.POST("/admin/register", h.registerAdmin)
	api.POST("/admin/login", h.loginAdmin)
	api.POST("/admin/logout", h.logoutAdmin, guards.Admin()...)

	api.POST("/customers", h.signupCustomer)
	api.POST("/customers/login", h.loginCustomer)
}

func (h *AuthHandler) registerAdmin(c echo.Context) error {
	var req adminRegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.adminRegisterUC.Execute(c.Request().Context(), auth.RegisterAdminInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		PhoneNumber:     req.PhoneNumber,
	})
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusCreated, adminAuthResponse{User: out.Admin, Token: out.Token})
}

func (h *AuthHandler) loginAdmin(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.loginUC.Admin(c.Request().Context(), auth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, adminAuthResponse{User: out.Admin, Token: out.Token})
}

// 発行済みトークンをまとめて無効にする
func (h *AuthHandler) logoutAdmin(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.loginUC.LogoutAdmin(c.Request().Context(), adminID); err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "Logged out"})
}

func (h *AuthHandler) signupCustomer(c echo.Context) error {
	var req customerSignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.customerSignupUC.Execute(c.Request().Context(), auth.SignupCustomerInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusCreated, customerAuthResponse{
		Message: "Customer registered",
		Data:    []model.Customer{out.Customer},
		Token:   out.Token,
	})
}

func (h *AuthHandler) loginCustomer(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.loginUC.Customer(c.Request().Context(), auth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, customerAuthResponse{
		Data:  []model.Customer{out.Customer},
		Token: out.Token,
	})
}

// auth のエラーをステータスに振り分ける
func writeAuthError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid email or password"})
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return c.JSON(http.StatusConflict, ErrorResponse{Message: "Email already registered"})
	case errors.Is(err, auth.ErrInvalidEmailFormat):
		return badRequest(c, "Invalid email format")
	case errors.Is(err, auth.ErrPasswordTooShort):
		return badRequest(c, "Password must be at least 8 characters")
	case errors.Is(err, auth.ErrWeakPassword):
		return badRequest(c, "Password is too weak")
	case errors.Is(err, auth.ErrPasswordMismatch):
		return badRequest(c, "Passwords do not match")
	case errors.Is(err, auth.ErrNameRequired):
		return badRequest(c, "Full name is required")
	}
	return writeError(c, err)
}
