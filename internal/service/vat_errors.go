package service

import (
	"fmt"

	"order17vat/internal/repository"
)

// ErrOrderNotFound is the order lookup failure surfaced unchanged to callers
var ErrOrderNotFound = repository.ErrOrderNotFound

// CannotCreateVatError reports that the order's vat17 row could not be created
type CannotCreateVatError struct {
	OrderID uint
	Err     error
}

func (e *CannotCreateVatError) Error() string {
	return fmt.Sprintf("an error occurred when creating vat17 for order id %d: %v", e.OrderID, e.Err)
}

func (e *CannotCreateVatError) Unwrap() error { return e.Err }

// CannotToggleVatStatusError reports that the order's vat17 flag could not be read or written
type CannotToggleVatStatusError struct {
	OrderID uint
	Err     error
}

func (e *CannotToggleVatStatusError) Error() string {
	return fmt.Sprintf("failed to change vat17 status for order id %d: %v", e.OrderID, e.Err)
}

func (e *CannotToggleVatStatusError) Unwrap() error { return e.Err }
