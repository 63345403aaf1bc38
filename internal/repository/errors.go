package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrVatFlagNotFound  = errors.New("vat17 record not found")
	ErrDuplicateVatFlag = errors.New("vat17 record already exists for order")
	ErrOrderNotFound    = errors.New("order not found")
)

// StoreWriteError is returned when the vat17 table rejects an insert, update or delete
type StoreWriteError struct {
	Op       string
	OrderID  uint
	RecordID uint
	Err      error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("vat17 store %s failed (order %d, record %d): %v", e.Op, e.OrderID, e.RecordID, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// IsDuplicateKeyErr reports unique constraint violations across the supported dialects
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	// PostgreSQL (23505)
	if strings.Contains(msg, "duplicate key value violates unique constraint") || strings.Contains(msg, "SQLSTATE 23505") {
		return true
	}
	// SQLite (2067)
	return strings.Contains(msg, "UNIQUE constraint failed")
}
