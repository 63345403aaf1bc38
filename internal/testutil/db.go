// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"fmt"
	"testing"

	"order17vat/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns an in-memory SQLite database holding the orders, order17vat and audit_logs tables.
// The pool is capped at one connection so every query sees the same in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.Order{}, &model.VatFlag{}, &model.AuditLog{}))
	return db
}

// SeedOrder inserts an order with the given id
func SeedOrder(t *testing.T, db *gorm.DB, id uint, optin bool) model.Order {
	t.Helper()

	order := model.Order{
		ID:           id,
		Reference:    fmt.Sprintf("ORD-%06d", id),
		CustomerName: "Customer",
		TotalPaid:    decimal.NewFromInt(int64(id)),
		Optin:        optin,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

// SeedFlag inserts a flag row directly, bypassing the service
func SeedFlag(t *testing.T, db *gorm.DB, orderID uint, isVat17 bool) model.VatFlag {
	t.Helper()

	flag := model.VatFlag{OrderID: orderID, IsVat17: isVat17}
	require.NoError(t, db.Create(&flag).Error)
	return flag
}
