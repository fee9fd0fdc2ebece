package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"medkit/internal/config"
	"medkit/internal/infra/cache"
	"medkit/internal/infra/db"
	"medkit/internal/infra/event"
	"medkit/internal/infra/storage"
	"medkit/internal/infra/token"
	"medkit/internal/logger"
	"medkit/internal/server"
	"medkit/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env は無くてもよい
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.NewForEnvironment(cfg.GoEnv)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	// DB接続
	gormDB, err := db.Connect(cfg, log)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	// キャッシュ（REDIS_ADDR が無ければメモリ）
	var c cache.Client = cache.NewMemoryClient()
	if cfg.RedisAddr != "" {
		rc, err := cache.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rc.Close()
		c = rc
	}

	// ファイル保存先（S3_BUCKET が無ければメモリ）
	var files storage.ObjectStorage = storage.NewMemoryObjectStorage()
	if cfg.S3Bucket != "" {
		s3, err := storage.NewS3ObjectStorage(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		}, storage.WithLogger(log))
		if err != nil {
			return err
		}
		files = s3
	}

	// イベント（AMQP_URL が無ければメモリ）
	var events event.Publisher = event.NewMemoryPublisher(log)
	if cfg.AMQPURL != "" {
		pool, err := event.NewChannelPool(cfg.AMQPURL, cfg.AMQPExchange, 4)
		if err != nil {
			return err
		}
		defer pool.Close()
		events = event.NewAMQPPublisher(pool, log)
	}

	e := server.New(server.Deps{
		DB:           gormDB,
		Cache:        c,
		CacheTTL:     cfg.CacheTTL,
		Files:        files,
		Events:       events,
		Issuer:       token.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL),
		Profile:      storeProfile(cfg),
		Log:          log,
		AllowOrigins: strings.Split(cfg.FEURL, ","),
	})

	return server.Start(ctx, e, cfg.Addr(), log)
}

func storeProfile(cfg config.Config) usecase.StoreProfile {
	return usecase.StoreProfile{
		Store: usecase.StoreInfo{
			Name:        cfg.StoreName,
			Address:     cfg.StoreAddress,
			Phone:       cfg.StorePhone,
			Email:       cfg.StoreEmail,
			Description: cfg.StoreDescription,
		},
		Bank: usecase.BankInfo{
			BankName:      cfg.BankName,
			AccountNumber: cfg.BankAccountNumber,
			AccountName:   cfg.BankAccountName,
		},
		DefaultShippingFee: cfg.DefaultShippingFee,
	}
}
