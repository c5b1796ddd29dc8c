package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Kosench/go-article-counter/internal/model"
)

// ConnectMySQL opens a GORM handle over MySQL and optionally creates the
// article_counters table.
func ConnectMySQL(dsn string, pool PoolConfig, autoMigrate bool, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	applyPool(sqlDB, pool)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}

	if autoMigrate {
		if err := db.AutoMigrate(&model.CounterRecord{}); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to migrate mysql schema: %w", err)
		}
		logger.Info("mysql schema is up to date")
	}

	return db, nil
}

func CloseMySQL(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func GetMySQLVersion(db *gorm.DB) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var version string
	err := db.WithContext(ctx).Raw("SELECT VERSION()").Scan(&version).Error
	return version, err
}
