package auth_test

import (
	"context"
	"testing"
	"time"

	"medkit/internal/domain/model"
	"medkit/internal/infra/token"
	"medkit/internal/repository"
	auth "medkit/internal/usecase/auth_usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// モック
// =====================

type MockAdminRepo struct {
	mock.Mock
}

func (m *MockAdminRepo) Create(ctx context.Context, a *model.Admin) error {
	args := m.Called(ctx, a)
	if args.Error(0) == nil && a.ID == "" {
		a.ID = "a-new"
	}
	return args.Error(0)
}

func (m *MockAdminRepo) FindByID(ctx context.Context, id string) (model.Admin, error) {
	panic("not used in auth tests")
}

func (m *MockAdminRepo) FindByEmail(ctx context.Context, email string) (model.Admin, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.Admin), args.Error(1)
}

func (m *MockAdminRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockAdminRepo) BumpTokenVersion(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdminRepo) GetTokenVersion(ctx context.Context, id string) (int, error) {
	panic("not used in auth tests")
}

var _ repository.AdminRepository = (*MockAdminRepo)(nil)

type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	args := m.Called(ctx, c)
	if args.Error(0) == nil && c.ID == "" {
		c.ID = "c-new"
	}
	return args.Error(0)
}

func (m *MockCustomerRepo) FindByID(ctx context.Context, id string) (model.Customer, error) {
	panic("not used in auth tests")
}

func (m *MockCustomerRepo) FindByEmail(ctx context.Context, email string) (model.Customer, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.Customer), args.Error(1)
}

func (m *MockCustomerRepo) List(ctx context.Context, q repository.CustomerListQuery) ([]model.Customer, int64, error) {
	panic("not used in auth tests")
}

var _ repository.CustomerRepository = (*MockCustomerRepo)(nil)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// =====================
// helper
// =====================

var now = time.Now().UTC().Truncate(time.Second)

func issuer() *token.JWTIssuer {
	return token.NewJWTIssuer("test-secret", time.Hour)
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := auth.NewBcryptPasswordHasher(4).Hash(plain)
	require.NoError(t, err)
	return h
}

func parse(t *testing.T, raw string) token.Claims {
	t.Helper()
	claims, err := token.NewJWTIssuer("test-secret", time.Hour).Parse(raw)
	require.NoError(t, err)
	return claims
}

// =====================
// RegisterAdmin
// =====================

func TestRegisterAdmin_InputErrors(t *testing.T) {
	tests := []struct {
		name string
		in   auth.RegisterAdminInput
		want error
	}{
		{
			name: "name missing",
			in:   auth.RegisterAdminInput{Email: "a@example.com", Password: "Str0ngPass!", ConfirmPassword: "Str0ngPass!"},
			want: auth.ErrNameRequired,
		},
		{
			name: "bad email",
			in:   auth.RegisterAdminInput{FullName: "A", Email: "not-an-email", Password: "Str0ngPass!", ConfirmPassword: "Str0ngPass!"},
			want: auth.ErrInvalidEmailFormat,
		},
		{
			name: "short password",
			in:   auth.RegisterAdminInput{FullName: "A", Email: "a@example.com", Password: "short", ConfirmPassword: "short"},
			want: auth.ErrPasswordTooShort,
		},
		{
			name: "weak password",
			in:   auth.RegisterAdminInput{FullName: "A", Email: "a@example.com", Password: "Password123", ConfirmPassword: "Password123"},
			want: auth.ErrWeakPassword,
		},
		{
			name: "confirm mismatch",
			in:   auth.RegisterAdminInput{FullName: "A", Email: "a@example.com", Password: "Str0ngPass!", ConfirmPassword: "Str0ngPass?"},
			want: auth.ErrPasswordMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admins := new(MockAdminRepo)
			uc := auth.NewRegisterAdminUsecase(admins, auth.NewBcryptPasswordHasher(4), issuer(), fixedClock{now})

			_, err := uc.Execute(context.Background(), tt.in)

			assert.ErrorIs(t, err, tt.want)
			admins.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRegisterAdmin_DuplicateEmail(t *testing.T) {
	admins := new(MockAdminRepo)
	admins.On("FindByEmail", mock.Anything, "boss@example.com").Return(model.Admin{Base: model.Base{ID: "a-1"}}, nil).Once()
	uc := auth.NewRegisterAdminUsecase(admins, auth.NewBcryptPasswordHasher(4), issuer(), fixedClock{now})

	_, err := uc.Execute(context.Background(), auth.RegisterAdminInput{
		FullName: "Boss", Email: "Boss@Example.com", Password: "Str0ngPass!", ConfirmPassword: "Str0ngPass!",
	})

	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
	admins.AssertExpectations(t)
}

func TestRegisterAdmin_Success(t *testing.T) {
	admins := new(MockAdminRepo)
	admins.On("FindByEmail", mock.Anything, "boss@example.com").Return(model.Admin{}, repository.ErrNotFound).Once()
	admins.On("Create", mock.Anything, mock.MatchedBy(func(a *model.Admin) bool {
		return a.Email == "boss@example.com" && a.Role == model.RoleAdmin && a.PasswordHash != "Str0ngPass!"
	})).Return(nil).Once()
	uc := auth.NewRegisterAdminUsecase(admins, auth.NewBcryptPasswordHasher(4), issuer(), fixedClock{now})

	out, err := uc.Execute(context.Background(), auth.RegisterAdminInput{
		FullName: " Boss ", Email: "boss@example.com", Password: "Str0ngPass!", ConfirmPassword: "Str0ngPass!",
	})

	require.NoError(t, err)
	assert.Equal(t, "Boss", out.Admin.FullName)
	claims := parse(t, out.Token)
	assert.Equal(t, "a-new", claims.Subject)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	admins.AssertExpectations(t)
}

// =====================
// SignupCustomer
// =====================

func TestSignupCustomer_Success(t *testing.T) {
	customers := new(MockCustomerRepo)
	customers.On("FindByEmail", mock.Anything, "jane@example.com").Return(model.Customer{}, repository.ErrNotFound).Once()
	customers.On("Create", mock.Anything, mock.AnythingOfType("*model.Customer")).Return(nil).Once()
	uc := auth.NewSignupCustomerUsecase(customers, auth.NewBcryptPasswordHasher(4), issuer(), fixedClock{now})

	out, err := uc.Execute(context.Background(), auth.SignupCustomerInput{
		FullName: "Jane", Email: "jane@example.com", Password: "Str0ngPass!", Phone: " 0123 ",
	})

	require.NoError(t, err)
	assert.Equal(t, "0123", out.Customer.Phone)
	claims := parse(t, out.Token)
	assert.Equal(t, "c-new", claims.Subject)
	assert.Equal(t, model.RoleCustomer, claims.Role)
}

func TestSignupCustomer_DuplicateEmail(t *testing.T) {
	customers := new(MockCustomerRepo)
	customers.On("FindByEmail", mock.Anything, "jane@example.com").Return(model.Customer{Base: model.Base{ID: "c-1"}}, nil).Once()
	uc := auth.NewSignupCustomerUsecase(customers, auth.NewBcryptPasswordHasher(4), issuer(), fixedClock{now})

	_, err := uc.Execute(context.Background(), auth.SignupCustomerInput{FullName: "Jane", Email: "jane@example.com", Password: "Str0ngPass!"})

	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
	customers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// =====================
// Login
// =====================

func TestLogin_Admin(t *testing.T) {
	hash := mustHash(t, "Str0ngPass!")

	t.Run("success touches last login", func(t *testing.T) {
		admins := new(MockAdminRepo)
		admins.On("FindByEmail", mock.Anything, "boss@example.com").
			Return(model.Admin{Base: model.Base{ID: "a-1"}, PasswordHash: hash, Role: model.RoleAdmin, TokenVersion: 4}, nil).Once()
		admins.On("TouchLastLogin", mock.Anything, "a-1", now).Return(nil).Once()
		uc := auth.NewLoginUsecase(admins, new(MockCustomerRepo), auth.NewBcryptPasswordVerifier(), issuer(), fixedClock{now})

		out, err := uc.Admin(context.Background(), auth.LoginInput{Email: "boss@example.com", Password: "Str0ngPass!"})

		require.NoError(t, err)
		require.NotNil(t, out.Admin.LastLoginAt)
		assert.Equal(t, 4, parse(t, out.Token).TokenVersion)
		admins.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		admins := new(MockAdminRepo)
		admins.On("FindByEmail", mock.Anything, "boss@example.com").
			Return(model.Admin{Base: model.Base{ID: "a-1"}, PasswordHash: hash, Role: model.RoleAdmin}, nil).Once()
		uc := auth.NewLoginUsecase(admins, new(MockCustomerRepo), auth.NewBcryptPasswordVerifier(), issuer(), fixedClock{now})

		_, err := uc.Admin(context.Background(), auth.LoginInput{Email: "boss@example.com", Password: "nope-nope"})

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		admins.AssertNotCalled(t, "TouchLastLogin", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown email", func(t *testing.T) {
		admins := new(MockAdminRepo)
		admins.On("FindByEmail", mock.Anything, "ghost@example.com").Return(model.Admin{}, repository.ErrNotFound).Once()
		uc := auth.NewLoginUsecase(admins, new(MockCustomerRepo), auth.NewBcryptPasswordVerifier(), issuer(), fixedClock{now})

		_, err := uc.Admin(context.Background(), auth.LoginInput{Email: "ghost@example.com", Password: "whatever1"})

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestLogin_Customer(t *testing.T) {
	customers := new(MockCustomerRepo)
	customers.On("FindByEmail", mock.Anything, "jane@example.com").
		Return(model.Customer{Base: model.Base{ID: "c-1"}, PasswordHash: mustHash(t, "Str0ngPass!")}, nil).Once()
	uc := auth.NewLoginUsecase(new(MockAdminRepo), customers, auth.NewBcryptPasswordVerifier(), issuer(), fixedClock{now})

	out, err := uc.Customer(context.Background(), auth.LoginInput{Email: "jane@example.com", Password: "Str0ngPass!"})

	require.NoError(t, err)
	claims := parse(t, out.Token)
	assert.Equal(t, "c-1", claims.Subject)
	assert.Equal(t, model.RoleCustomer, claims.Role)
}

func TestLogoutAdmin_BumpsTokenVersion(t *testing.T) {
	admins := new(MockAdminRepo)
	admins.On("BumpTokenVersion", mock.Anything, "a-1").Return(nil).Once()
	uc := auth.NewLoginUsecase(admins, new(MockCustomerRepo), auth.NewBcryptPasswordVerifier(), issuer(), fixedClock{now})

	require.NoError(t, uc.LogoutAdmin(context.Background(), "a-1"))
	admins.AssertExpectations(t)
}
