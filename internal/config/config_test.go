package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"medkit/internal/config"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 既存の環境変数に左右されないよう空にしておく
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DB_DRIVER", "DATABASE_URL", "SQLITE_PATH",
		"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_SSLMODE",
		"JWT_SECRET", "ACCESS_TOKEN_TTL", "CACHE_TTL", "REDIS_DB",
		"S3_BUCKET", "S3_ACCESS_KEY", "S3_SECRET_KEY",
		"DEFAULT_SHIPPING_FEE", "STORE_NAME",
		"MEDKIT_BASE_URL", "MEDKIT_TOKEN", "MEDKIT_CUSTOMER_ID", "MEDKIT_TIMEOUT", "MEDKIT_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_SQLiteDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "SQLite")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "MedKit Supplies", cfg.StoreName)
	assert.True(t, cfg.DefaultShippingFee.IsZero())
}

func TestLoad_PostgresDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("POSTGRES_USER", "medkit")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("POSTGRES_DB", "shop")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("DEFAULT_SHIPPING_FEE", "7.50")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "host=localhost port=5433 user=medkit password=pw dbname=shop sslmode=disable", cfg.PostgresDSN())
	assert.True(t, cfg.DefaultShippingFee.Equal(decimal.RequireFromString("7.5")))

	t.Setenv("DATABASE_URL", "postgres://u:p@db/x")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db/x", cfg.PostgresDSN())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "no secret", env: map[string]string{"DB_DRIVER": "sqlite"}, want: "JWT_SECRET is required"},
		{name: "postgres without user", env: map[string]string{"JWT_SECRET": "s", "POSTGRES_DB": "shop"}, want: "POSTGRES_USER is required"},
		{name: "unknown driver", env: map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "mysql"}, want: "DB_DRIVER must be postgres or sqlite"},
		{name: "bad port", env: map[string]string{"JWT_SECRET": "s", "POSTGRES_PORT": "abc"}, want: "POSTGRES_PORT must be number"},
		{name: "bad ttl", env: map[string]string{"JWT_SECRET": "s", "ACCESS_TOKEN_TTL": "soon"}, want: "ACCESS_TOKEN_TTL must be duration"},
		{name: "negative fee", env: map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "sqlite", "DEFAULT_SHIPPING_FEE": "-1"}, want: "DEFAULT_SHIPPING_FEE must not be negative"},
		{name: "half s3 keys", env: map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "sqlite", "S3_BUCKET": "b", "S3_ACCESS_KEY": "k"}, want: "S3_ACCESS_KEY and S3_SECRET_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadClient_Precedence(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: http://shop.test/api/\ntimeout: 5s\ncustomer_id: from-file\ntoken: file-token\n"), 0o600))
	t.Setenv("MEDKIT_TOKEN", "env-token")

	fs := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	fs.String("customer-id", "", "")
	fs.String("base-url", "", "")
	require.NoError(t, fs.Parse([]string{"--customer-id", "from-flag"}))

	cfg, err := config.LoadClient(path, fs)

	require.NoError(t, err)
	assert.Equal(t, "http://shop.test/api", cfg.BaseURL)
	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, "from-flag", cfg.CustomerID)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.RetryDelay)
}

func TestLoadClient_NoFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.LoadClient("", nil)

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", cfg.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, 5*time.Second, cfg.ErrorTTL)
}

func TestLoadClient_MissingExplicitFile(t *testing.T) {
	clearEnv(t)

	_, err := config.LoadClient(filepath.Join(t.TempDir(), "nope.yaml"), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}
