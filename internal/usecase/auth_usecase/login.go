package auth

import (
	"context"
	"errors"
	"time"

	"medkit/internal/domain/model"
	"medkit/internal/repository"
)

type LoginInput struct {
	Email    string
	Password string
}

type AdminAuthOutput struct {
	Admin model.Admin
	Token string
}

type CustomerAuthOutput struct {
	Customer model.Customer
	Token    string
}

// メールまたはパスワードが違う
var ErrInvalidCredentials = errors.New("invalid credentials")

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(subject string, role model.Role, tokenVersion int, now time.Time) (token string, expiresAt time.Time, err error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

type LoginUsecase struct {
	admins    repository.AdminRepository
	customers repository.CustomerRepository
	verifier  PasswordVerifier
	issuer    AccessTokenIssuer
	clock     Clock
}

// DI
func NewLoginUsecase(
	admins repository.AdminRepository,
	customers repository.CustomerRepository,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		admins:    admins,
		customers: customers,
		verifier:  verifier,
		issuer:    issuer,
		clock:     clock,
	}
}

// 管理者ログイン
func (u *LoginUsecase) Admin(ctx context.Context, in LoginInput) (AdminAuthOutput, error) {
	var out AdminAuthOutput

	admin, err := u.admins.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, ErrInvalidCredentials
		}
		return out, err
	}

	// パスワード照合
	if !u.verifier.Verify(in.Password, admin.PasswordHash) {
		return out, ErrInvalidCredentials
	}

	now := u.clock.Now()
	token, _, err := u.issuer.Issue(admin.ID, admin.Role, admin.TokenVersion, now)
	if err != nil {
		return out, err
	}

	// 最終ログイン時刻更新
	if err := u.admins.TouchLastLogin(ctx, admin.ID, now); err != nil {
		return out, err
	}
	admin.LastLoginAt = &now

	out.Admin = admin
	out.Token = token
	return out, nil
}

// 顧客ログイン
func (u *LoginUsecase) Customer(ctx context.Context, in LoginInput) (CustomerAuthOutput, error) {
	var out CustomerAuthOutput

	c, err := u.customers.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, ErrInvalidCredentials
		}
		return out, err
	}
	if !u.verifier.Verify(in.Password, c.PasswordHash) {
		return out, ErrInvalidCredentials
	}

	token, _, err := u.issuer.Issue(c.ID, model.RoleCustomer, 0, u.clock.Now())
	if err != nil {
		return out, err
	}

	out.Customer = c
	out.Token = token
	return out, nil
}

// 管理者のトークンをすべて無効にする
func (u *LoginUsecase) LogoutAdmin(ctx context.Context, adminID string) error {
	return u.admins.BumpTokenVersion(ctx, adminID)
}
