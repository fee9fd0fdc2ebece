package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Configはサンドボックスサーバー全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DBDriver    string // postgres / sqlite
	DatabaseURL string // あれば最優先
	SQLitePath  string // sqlite のファイル（:memory: 可）

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	JWTSecret      string        // JWT署名シークレット
	AccessTokenTTL time.Duration // アクセストークンの有効期限

	GoEnv    string // dev/prod
	LogLevel string
	FEURL    string // CORS の許可オリジン

	RedisAddr     string // 空ならメモリキャッシュ
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	S3Bucket    string // 空ならメモリストレージ
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	AMQPURL      string // 空ならメモリ publisher
	AMQPExchange string

	// チェックアウト画面に出すお店と振込先
	StoreName          string
	StoreAddress       string
	StorePhone         string
	StoreEmail         string
	StoreDescription   string
	BankName           string
	BankAccountNumber  string
	BankAccountName    string
	DefaultShippingFee decimal.Decimal
}

// Loadは環境変数から読む
func Load() (Config, error) {
	cfg := Config{
		Port: getenv("PORT", "8080"),

		DBDriver:    strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getenv("SQLITE_PATH", "medkit.db"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),
		FEURL:    getenv("FE_URL", "*"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Region:    getenv("S3_REGION", "us-east-1"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),

		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getenv("AMQP_EXCHANGE", "medkit.events"),

		StoreName:         getenv("STORE_NAME", "MedKit Supplies"),
		StoreAddress:      os.Getenv("STORE_ADDRESS"),
		StorePhone:        os.Getenv("STORE_PHONE"),
		StoreEmail:        os.Getenv("STORE_EMAIL"),
		StoreDescription:  getenv("STORE_DESCRIPTION", "Medical supplies and equipment"),
		BankName:          os.Getenv("BANK_NAME"),
		BankAccountNumber: os.Getenv("BANK_ACCOUNT_NUMBER"),
		BankAccountName:   os.Getenv("BANK_ACCOUNT_NAME"),
	}

	var err error
	if cfg.PostgresPort, err = atoiDefault("POSTGRES_PORT", 5432); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = atoiDefault("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.AccessTokenTTL, err = durationDefault("ACCESS_TOKEN_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = durationDefault("CACHE_TTL", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.DefaultShippingFee, err = decimalDefault("DEFAULT_SHIPPING_FEE", decimal.Zero); err != nil {
		return Config{}, err
	}

	// 必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.DBDriver {
	case "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			if cfg.PostgresUser == "" {
				return Config{}, fmt.Errorf("POSTGRES_USER is required")
			}
			if cfg.PostgresDB == "" {
				return Config{}, fmt.Errorf("POSTGRES_DB is required")
			}
		}
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres or sqlite: %q", cfg.DBDriver)
	}
	if cfg.S3Bucket != "" && (cfg.S3AccessKey == "") != (cfg.S3SecretKey == "") {
		return Config{}, fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY must be set together")
	}

	return cfg, nil
}

// Postgres の DSN
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

// listen アドレス
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func decimalDefault(key string, def decimal.Decimal) (decimal.Decimal, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be decimal: %w", key, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}
