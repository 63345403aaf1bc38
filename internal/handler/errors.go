package handler

import (
	"errors"
	"fmt"
	"strconv"

	"order17vat/internal/service"
)

// OrderListPath is the order grid every toggle redirects back to
const OrderListPath = "/admin/orders"

const (
	msgSuccessfulUpdate   = "Successful update."
	msgSuccessfulDeletion = "Successful deletion."
	msgOrderID            = "Something bad happened when trying to get order id"
	msgCreateVat          = "Failed to create 17 vat"
	msgUpdateStatus       = "An error occurred while updating the status."
	msgUnexpected         = "An unexpected error occurred."
)

var errInvalidOrderID = errors.New("order id must be a positive integer")

// vatErrorMessage maps a flag write failure to the text shown to back-office users
func vatErrorMessage(err error) string {
	var createErr *service.CannotCreateVatError
	var toggleErr *service.CannotToggleVatStatusError

	switch {
	case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, errInvalidOrderID):
		return msgOrderID
	case errors.As(err, &createErr):
		return msgCreateVat
	case errors.As(err, &toggleErr):
		return msgUpdateStatus
	default:
		return msgUnexpected
	}
}

func parseOrderID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidOrderID, raw)
	}
	return uint(id), nil
}
