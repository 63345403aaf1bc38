package database

import (
	"fmt"
	"time"

	"order17vat/internal/config"
	"order17vat/internal/logger"
	"order17vat/internal/migration"
	"order17vat/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	logLevel := gormlogger.Warn
	if !cfg.IsRelease() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.NewGormLogger(logLevel, 200*time.Millisecond),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if cfg.DBDriver == config.DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// single writer
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate prepares the host tables. The order17vat table itself is created by the module on install.
func Migrate(db *gorm.DB, cfg config.Config) error {
	if cfg.DBMigrate == config.MigrateSQL {
		if cfg.DBDriver != config.DriverPostgres {
			return fmt.Errorf("DB_MIGRATE=%s requires DB_DRIVER=%s", config.MigrateSQL, config.DriverPostgres)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return migration.RunMigrations(sqlDB)
	}
	return AutoMigrate(db)
}

// AutoMigrate creates or updates the host tables from the gorm models
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Order{}, &model.AuditLog{}); err != nil {
		return fmt.Errorf("failed to auto-migrate models: %w", err)
	}
	return nil
}
