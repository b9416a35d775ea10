// Package database opens the postgres connection used by the API.
package database

import (
	"fmt"
	"time"

	"github.com/hateco-vn/quotation-api/internal/config"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a gorm postgres connection with pooling from config.
// Timestamps are written in UTC; query logging is off because the request
// middleware already logs at the HTTP layer.
func NewDatabase(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.ConnectionString()), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// AutoMigrate syncs the schema from the models. Development convenience;
// deployments use the goose migrations under migrations/.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Customer{},
		&domain.User{},
		&domain.ProductCategory{},
		&domain.Product{},
		&domain.RFQ{},
		&domain.RFQDetail{},
		&domain.Quotation{},
		&domain.QuotationItem{},
		&domain.Order{},
		&domain.OrderDetail{},
		&domain.ProductionStep{},
		&domain.Activity{},
		&domain.Notification{},
		&domain.NumberSequence{},
	)
}
