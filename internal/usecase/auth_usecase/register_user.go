package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"medkit/internal/domain/model"
	"medkit/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var (
	// 入力が不正
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrWeakPassword       = errors.New("weak password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrNameRequired       = errors.New("full name is required")

	// 競合
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type RegisterAdminInput struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
	PhoneNumber     string
}

type SignupCustomerInput struct {
	FullName string
	Email    string
	Password string
	Phone    string
	Address  model.Address
}

// 管理者の登録。登録後そのままログイン状態にする。
type RegisterAdminUsecase struct {
	admins repository.AdminRepository
	hasher PasswordHasher
	issuer AccessTokenIssuer
	clock  Clock
}

// DI
func NewRegisterAdminUsecase(
	admins repository.AdminRepository,
	hasher PasswordHasher,
	issuer AccessTokenIssuer,
	clock Clock,
) *RegisterAdminUsecase {
	return &RegisterAdminUsecase{admins: admins, hasher: hasher, issuer: issuer, clock: clock}
}

func (u *RegisterAdminUsecase) Execute(ctx context.Context, in RegisterAdminInput) (AdminAuthOutput, error) {
	var out AdminAuthOutput

	if strings.TrimSpace(in.FullName) == "" {
		return out, ErrNameRequired
	}
	email, err := checkCredentials(in.Email, in.Password)
	if err != nil {
		return out, err
	}
	if in.Password != in.ConfirmPassword {
		return out, ErrPasswordMismatch
	}

	// email重複チェック
	_, err = u.admins.FindByEmail(ctx, email)
	if err == nil {
		return out, ErrEmailAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return out, err
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	now := u.clock.Now()
	admin := &model.Admin{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        email,
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		Role:         model.RoleAdmin,
		LastLoginAt:  &now,
	}
	if err := u.admins.Create(ctx, admin); err != nil {
		return out, err
	}

	token, _, err := u.issuer.Issue(admin.ID, admin.Role, admin.TokenVersion, now)
	if err != nil {
		return out, err
	}

	out.Admin = *admin
	out.Token = token
	return out, nil
}

// 顧客の新規登録
type SignupCustomerUsecase struct {
	customers repository.CustomerRepository
	hasher    PasswordHasher
	issuer    AccessTokenIssuer
	clock     Clock
}

// DI
func NewSignupCustomerUsecase(
	customers repository.CustomerRepository,
	hasher PasswordHasher,
	issuer AccessTokenIssuer,
	clock Clock,
) *SignupCustomerUsecase {
	return &SignupCustomerUsecase{customers: customers, hasher: hasher, issuer: issuer, clock: clock}
}

func (u *SignupCustomerUsecase) Execute(ctx context.Context, in SignupCustomerInput) (CustomerAuthOutput, error) {
	var out CustomerAuthOutput

	if strings.TrimSpace(in.FullName) == "" {
		return out, ErrNameRequired
	}
	email, err := checkCredentials(in.Email, in.Password)
	if err != nil {
		return out, err
	}

	_, err = u.customers.FindByEmail(ctx, email)
	if err == nil {
		return out, ErrEmailAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return out, err
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	c := &model.Customer{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        email,
		PasswordHash: hashed,
		Phone:        strings.TrimSpace(in.Phone),
		Address:      in.Address,
	}
	if err := u.customers.Create(ctx, c); err != nil {
		return out, err
	}

	token, _, err := u.issuer.Issue(c.ID, model.RoleCustomer, 0, u.clock.Now())
	if err != nil {
		return out, err
	}

	out.Customer = *c
	out.Token = token
	return out, nil
}

// メール形式・パスワード強度を確かめ、正規化したメールを返す
func checkCredentials(email, password string) (string, error) {
	if !isValidEmailFormat(email) {
		return "", ErrInvalidEmailFormat
	}
	if len(password) < minPasswordLength {
		return "", ErrPasswordTooShort
	}
	if isWeakPassword(password) {
		return "", ErrWeakPassword
	}
	return strings.ToLower(strings.TrimSpace(email)), nil
}

// メールチェック
func isValidEmailFormat(email string) bool {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return false
	}
	addr, err := mail.ParseAddress(trimmed)
	return err == nil && addr.Address == trimmed
}

// パスワードのよくある弱いパスワード
func isWeakPassword(password string) bool {
	normalized := strings.ToLower(strings.TrimSpace(password))

	weak := map[string]struct{}{
		"password":     {},
		"password123":  {},
		"123456789012": {},
		"1234567890":   {},
		"12345678":     {},
		"qwertyuiop":   {},
		"letmein123":   {},
		"admin123":     {},
	}

	_, ok := weak[normalized]
	return ok
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

// DI
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// bcryptハッシュと平文を比較
type BcryptPasswordVerifier struct{}

// DI
func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
