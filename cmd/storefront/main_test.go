package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"medkit/internal/apiclient"
	"medkit/internal/cartsync"
	"medkit/internal/infra/db"
	"medkit/internal/infra/token"
	"medkit/internal/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// =====================
// helper
// =====================

// 設定ファイルと MEDKIT_* を読まない状態で sandbox を立てる
func sandboxURL(t *testing.T) string {
	t.Helper()
	for _, key := range []string{"MEDKIT_BASE_URL", "MEDKIT_TOKEN", "MEDKIT_CUSTOMER_ID", "MEDKIT_TIMEOUT", "MEDKIT_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	gdb, err := db.Open(sqlite.Open(filepath.Join(t.TempDir(), "cli.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	srv := httptest.NewServer(server.New(server.Deps{
		DB:         gdb,
		CacheTTL:   time.Minute,
		Issuer:     token.NewJWTIssuer("cli-secret", time.Hour),
		BcryptCost: 4,
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, argv ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), argv, &stdout, &stderr)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// "export KEY=VALUE" の行を拾う
func exportsOf(t *testing.T, out string) (tok, id string) {
	t.Helper()
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		k, v, ok := strings.Cut(strings.TrimPrefix(line, "export "), "=")
		if !ok {
			continue
		}
		switch k {
		case "MEDKIT_TOKEN":
			tok = v
		case "MEDKIT_CUSTOMER_ID":
			id = v
		}
	}
	require.NotEmpty(t, tok, out)
	require.NotEmpty(t, id, out)
	return tok, id
}

type shop struct {
	baseURL    string
	productID  string
	customerTo string
	customerID string
}

// 管理者登録 → 商品作成 → 顧客登録 を CLI だけで行う
func newShop(t *testing.T) shop {
	t.Helper()
	base := sandboxURL(t)

	res := runCLI(t, "--base-url", base, "auth", "admin-register",
		"--name", "Store Admin", "--email", "admin@medkit.test", "--password", "Str0ngPass!")
	require.NoError(t, res.err, res.stderr)
	adminTok, _ := exportsOf(t, res.stdout)

	res = runCLI(t, "--base-url", base, "--token", adminTok, "admin", "create-product",
		"--name", "Nitrile Gloves", "--category", "PPE", "--description", "Box of 100",
		"--brand", "Acme:12.50:5")
	require.NoError(t, res.err, res.stderr)
	var p apiclient.Product
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &p))
	require.NotEmpty(t, p.ID)

	res = runCLI(t, "--base-url", base, "auth", "signup",
		"--name", "Jane Doe", "--email", "jane@medkit.test", "--password", "Str0ngPass!", "--phone", "0123456789")
	require.NoError(t, res.err, res.stderr)
	tok, id := exportsOf(t, res.stdout)

	return shop{baseURL: base, productID: p.ID, customerTo: tok, customerID: id}
}

func requireCartError(t *testing.T, err error, kind cartsync.ErrorKind, msg string) {
	t.Helper()
	ce, ok := cartsync.AsCartError(err)
	require.True(t, ok, "want CartError, got %v", err)
	assert.Equal(t, kind, ce.Kind)
	assert.Equal(t, msg, ce.Message)
}

func (s shop) cart(t *testing.T, args ...string) cliResult {
	t.Helper()
	argv := append([]string{"--base-url", s.baseURL, "--token", s.customerTo, "--customer-id", s.customerID, "cart"}, args...)
	return runCLI(t, argv...)
}

// =====================
// cart
// =====================

func TestCart_AddAndShow(t *testing.T) {
	s := newShop(t)

	res := s.cart(t, "add", s.productID, "Acme", "2")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "PRODUCT")
	assert.Contains(t, res.stdout, "Nitrile Gloves")
	assert.Contains(t, res.stdout, "items: 2  total: 25.00")
	assert.Contains(t, res.stderr, "Added to Cart")

	res = s.cart(t, "show")
	require.NoError(t, res.err, res.stderr)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"PRODUCT", "BRAND", "QTY", "PRICE", "TOTAL", "STOCK"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Nitrile", "Gloves", "Acme", "2", "12.50", "25.00", "5"}, strings.Fields(lines[1]))
	assert.True(t, strings.HasPrefix(lines[2], "items: 2  total: 25.00  session: "))
}

func TestCart_AddUnknownBrand(t *testing.T) {
	s := newShop(t)

	res := s.cart(t, "add", s.productID, "Globex", "1")

	require.Error(t, res.err)
	assert.Equal(t, `brand "Globex" not found on Nitrile Gloves`, res.err.Error())
	assert.Empty(t, res.stdout)
}

func TestCart_AddBadQuantity(t *testing.T) {
	s := newShop(t)

	res := s.cart(t, "add", s.productID, "Acme", "two")
	require.Error(t, res.err)
	assert.Equal(t, `invalid quantity "two"`, res.err.Error())

	// 数値だが 1 未満は同期器が弾く
	res = s.cart(t, "add", s.productID, "Acme", "0")
	requireCartError(t, res.err, cartsync.KindValidation, "Quantity must be at least 1")
	assert.Contains(t, res.stderr, "Cart Error")
}

func TestCart_AddOverStockKeepsCart(t *testing.T) {
	s := newShop(t)
	require.NoError(t, s.cart(t, "add", s.productID, "Acme", "2").err)

	res := s.cart(t, "add", s.productID, "Acme", "9")
	requireCartError(t, res.err, cartsync.KindStock, "Only 5 units available in stock")

	res = s.cart(t, "show")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "items: 2  total: 25.00")
}

func TestCart_UpdateRemoveClear(t *testing.T) {
	s := newShop(t)
	require.NoError(t, s.cart(t, "add", s.productID, "Acme", "1").err)

	res := s.cart(t, "update", s.productID, "Acme", "3")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "items: 3  total: 37.50")

	res = s.cart(t, "remove", s.productID, "Acme")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "items: 0  total: 0.00")

	require.NoError(t, s.cart(t, "add", s.productID, "Acme", "1").err)
	res = s.cart(t, "clear")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "items: 0  total: 0.00")
}

func TestCart_RequiresCustomerID(t *testing.T) {
	base := sandboxURL(t)

	res := runCLI(t, "--base-url", base, "cart", "show")

	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "customer id is required")
}

// =====================
// 使い方・引数エラー
// =====================

func TestRun_Usage(t *testing.T) {
	base := sandboxURL(t)

	tests := []struct {
		name   string
		argv   []string
		stderr string
	}{
		{name: "no group", argv: []string{}, stderr: "groups: admin, auth, cart, checkout, delivery, products"},
		{name: "unknown group", argv: []string{"wishlist", "show"}, stderr: "usage: storefront [--config f]"},
		{name: "unknown command", argv: []string{"cart", "empty"}, stderr: "usage: storefront cart <command>"},
		{name: "missing args", argv: []string{"cart", "update", "p-1", "Acme"}, stderr: "update: expected 3 argument(s)"},
		{name: "unknown flag", argv: []string{"cart", "show", "--verbose"}, stderr: "unknown flag: --verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			argv := append([]string{"--base-url", base, "--customer-id", "c-1"}, tt.argv...)

			res := runCLI(t, argv...)

			assert.ErrorIs(t, res.err, errUsage)
			assert.Contains(t, res.stderr, tt.stderr)
		})
	}
}

func TestRun_HelpIsNotAnError(t *testing.T) {
	sandboxURL(t)

	res := runCLI(t, "--help")

	assert.NoError(t, res.err)
	assert.Contains(t, res.stderr, "usage: storefront")
}

func TestParseBrand(t *testing.T) {
	b, err := parseBrand("Acme:12.50:5:15")
	require.NoError(t, err)
	assert.Equal(t, "Acme", b.Name)
	assert.Equal(t, "12.5", b.Price.String())
	assert.Equal(t, 5, b.Stock)
	assert.Equal(t, "15", b.OriginalPrice.String())

	for _, bad := range []string{"Acme", "Acme:cheap", "Acme:1:many", "Acme:1:2:x"} {
		_, err := parseBrand(bad)
		assert.Error(t, err, bad)
	}
}
