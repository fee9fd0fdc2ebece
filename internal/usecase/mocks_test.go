package usecase_test

import (
	"context"

	"medkit/internal/domain/model"
	"medkit/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =====================
// CartRepository
// =====================

type MockCartRepo struct {
	mock.Mock
}

func (m *MockCartRepo) GetOrCreateByCustomerID(ctx context.Context, customerID string) (model.Cart, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(model.Cart), args.Error(1)
}

func (m *MockCartRepo) FindByCustomerID(ctx context.Context, customerID string) (model.Cart, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(model.Cart), args.Error(1)
}

func (m *MockCartRepo) FindBySessionID(ctx context.Context, sessionID string) (model.Cart, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(model.Cart), args.Error(1)
}

func (m *MockCartRepo) Reset(ctx context.Context, cartID string) (model.Cart, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).(model.Cart), args.Error(1)
}

func (m *MockCartRepo) Clear(ctx context.Context, cartID string) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

var _ repository.CartRepository = (*MockCartRepo)(nil)

// =====================
// CartItemRepository
// =====================

type MockCartItemRepo struct {
	mock.Mock
}

func (m *MockCartItemRepo) ListByCartID(ctx context.Context, cartID string) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).([]model.CartItem), args.Error(1)
}

func (m *MockCartItemRepo) FindLine(ctx context.Context, cartID, productID, brandName string) (model.CartItem, error) {
	args := m.Called(ctx, cartID, productID, brandName)
	return args.Get(0).(model.CartItem), args.Error(1)
}

func (m *MockCartItemRepo) UpsertLine(ctx context.Context, cartID, productID, brandName string, addQty int, price decimal.Decimal) error {
	args := m.Called(ctx, cartID, productID, brandName, addQty, price)
	return args.Error(0)
}

func (m *MockCartItemRepo) UpdateQuantity(ctx context.Context, cartItemID string, qty int) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *MockCartItemRepo) DeleteByID(ctx context.Context, cartItemID string) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

var _ repository.CartItemRepository = (*MockCartItemRepo)(nil)

// =====================
// ProductRepository
// =====================

type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *MockProductRepo) List(ctx context.Context, q repository.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepo) Create(ctx context.Context, p *model.Product) error {
	panic("not used in usecase tests")
}

func (m *MockProductRepo) Update(ctx context.Context, p *model.Product) error {
	panic("not used in usecase tests")
}

func (m *MockProductRepo) Delete(ctx context.Context, id string) error {
	panic("not used in usecase tests")
}

func (m *MockProductRepo) FindBrand(ctx context.Context, productID, brandName string) (model.Brand, error) {
	args := m.Called(ctx, productID, brandName)
	return args.Get(0).(model.Brand), args.Error(1)
}

func (m *MockProductRepo) UpdateRating(ctx context.Context, productID string, rating float64, count int) error {
	panic("not used in usecase tests")
}

var _ repository.ProductRepository = (*MockProductRepo)(nil)

// =====================
// OrderRepository
// =====================

type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *MockOrderRepo) FindForUpdate(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *MockOrderRepo) List(ctx context.Context, q repository.OrderListQuery) ([]model.Order, int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepo) Create(ctx context.Context, order *model.Order) error {
	panic("not used in usecase tests")
}

func (m *MockOrderRepo) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *MockOrderRepo) FindByCheckoutSessionID(ctx context.Context, sessionID string) (model.Order, bool, error) {
	panic("not used in usecase tests")
}

func (m *MockOrderRepo) SetDelivery(ctx context.Context, orderID string, d model.DeliveryDetails) error {
	panic("not used in usecase tests")
}

func (m *MockOrderRepo) StatsByCustomers(ctx context.Context, customerIDs []string) (map[string]repository.CustomerStats, error) {
	panic("not used in usecase tests")
}

var _ repository.OrderRepository = (*MockOrderRepo)(nil)

// =====================
// OrderItemRepository
// =====================

type MockOrderItemRepo struct {
	mock.Mock
}

func (m *MockOrderItemRepo) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *MockOrderItemRepo) ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]model.OrderItem), args.Error(1)
}

var _ repository.OrderItemRepository = (*MockOrderItemRepo)(nil)

// =====================
// InventoryRepository
// =====================

type MockInventoryRepo struct {
	mock.Mock
}

func (m *MockInventoryRepo) DecreaseStockIfEnough(ctx context.Context, brandID string, qty int) (bool, error) {
	args := m.Called(ctx, brandID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryRepo) IncreaseStock(ctx context.Context, brandID string, qty int) error {
	args := m.Called(ctx, brandID, qty)
	return args.Error(0)
}

func (m *MockInventoryRepo) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

var _ repository.InventoryRepository = (*MockInventoryRepo)(nil)

// =====================
// AuditLogRepository
// =====================

type MockAuditLogRepo struct {
	mock.Mock
}

func (m *MockAuditLogRepo) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditLogRepo) List(ctx context.Context, filter repository.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]model.AuditLog), args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repository.AuditLogRepository = (*MockAuditLogRepo)(nil)

// =====================
// TxRepos / TransactionManager
// =====================

type MockTxRepos struct {
	OrdersRepo     repository.OrderRepository
	OrderItemsRepo repository.OrderItemRepository
	InventoryRepo  repository.InventoryRepository
	AuditLogsRepo  repository.AuditLogRepository
}

func (r *MockTxRepos) Orders() repository.OrderRepository         { return r.OrdersRepo }
func (r *MockTxRepos) OrderItems() repository.OrderItemRepository { return r.OrderItemsRepo }
func (r *MockTxRepos) Inventory() repository.InventoryRepository  { return r.InventoryRepo }
func (r *MockTxRepos) AuditLogs() repository.AuditLogRepository   { return r.AuditLogsRepo }

func (r *MockTxRepos) Carts() repository.CartRepository {
	panic("not used in usecase tests")
}

func (r *MockTxRepos) CartItems() repository.CartItemRepository {
	panic("not used in usecase tests")
}

func (r *MockTxRepos) Products() repository.ProductRepository {
	panic("not used in usecase tests")
}

func (r *MockTxRepos) Checkouts() repository.CheckoutRepository {
	panic("not used in usecase tests")
}

var _ repository.TxRepos = (*MockTxRepos)(nil)

// WithinTx は fn をそのまま呼ぶ
type MockTxManager struct {
	Repos repository.TxRepos
}

func (m *MockTxManager) WithinTx(ctx context.Context, fn func(r repository.TxRepos) error) error {
	return fn(m.Repos)
}

var _ repository.TransactionManager = (*MockTxManager)(nil)
