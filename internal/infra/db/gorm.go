package db

import (
	"fmt"

	"medkit/internal/config"
	"medkit/internal/domain/model"
	"medkit/internal/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.NewGormLogger(log, logger.GormLevel(cfg.LogLevel)),
	}

	switch cfg.DBDriver {
	case "sqlite":
		return Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	case "postgres":
		return Open(postgres.Open(cfg.PostgresDSN()), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", cfg.DBDriver)
	}
}

// 接続して外部キーを有効化する
func Open(dialector gorm.Dialector, gormCfg *gorm.Config) (*gorm.DB, error) {
	gdb, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if dialector.Name() == "sqlite" {
		if err := gdb.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
	}
	return gdb, nil
}

// テーブル作成
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.Customer{},
		&model.Admin{},
		&model.Product{},
		&model.Brand{},
		&model.Review{},
		&model.Cart{},
		&model.CartItem{},
		&model.CheckoutSession{},
		&model.CheckoutItem{},
		&model.Delivery{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	)
}
