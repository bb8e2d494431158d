// Package config loads runtime configuration and constructs the process-wide
// clients (database, redis). Nothing here is a lazily-initialized global:
// handles are built once in main and injected down the stack.
package config

import (
	"strings"

	"campus-grub-api/models"

	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port        string
	GinMode     string
	DBPath      string
	JWTSecret   string
	TaxRate     float64
	DeliveryFee float64
	RedisAddr   string // empty disables the profile cache
}

// Load reads configuration from the environment with sane defaults.
func Load() Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DB_PATH", "campus_grub.db")
	v.SetDefault("JWT_SECRET", "campus_grub_dev_secret")
	v.SetDefault("TAX_RATE", 0.05)
	v.SetDefault("DELIVERY_FEE", 0.0)
	v.SetDefault("REDIS_ADDR", "")

	return Config{
		Port:        v.GetString("PORT"),
		GinMode:     v.GetString("GIN_MODE"),
		DBPath:      v.GetString("DB_PATH"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		TaxRate:     v.GetFloat64("TAX_RATE"),
		DeliveryFee: v.GetFloat64("DELIVERY_FEE"),
		RedisAddr:   v.GetString("REDIS_ADDR"),
	}
}

// OpenDB connects sqlite via the pure-Go driver and migrates the schema.
func OpenDB(path string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
	); err != nil {
		return nil, err
	}
	log.Info("database connected and migrated", zap.String("path", path))
	return db, nil
}

// CloseDB releases the underlying connection pool on shutdown.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewRedis returns a client for addr, or nil when addr is empty (the profile
// cache then simply stays disabled).
func NewRedis(addr string) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr})
}
