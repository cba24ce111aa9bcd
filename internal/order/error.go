package order

import (
	"errors"

	"ordering-be/internal/apperr"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotCancellable    = errors.New("order cannot be cancelled")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidOrder      = errors.New("invalid order")
	ErrInvalidItem       = errors.New("invalid order item")
	ErrItemsLocked       = errors.New("order items locked")
)

func errOrderNotFound(field string, value any) error {
	return apperr.NotFound("Order", field, value)
}

func errItemNotFound(id int64) error {
	return apperr.NotFound("OrderItem", "id", id)
}

func errInvalidTransition(from, to Status) error {
	return apperr.BusinessWrap(ErrInvalidTransition, "Invalid status transition from %s to %s", from, to)
}

func errTerminalStatus(from Status) error {
	return apperr.BusinessWrap(ErrInvalidTransition, "Cannot change status from %s", from)
}

func errUnknownStatus(s Status) error {
	return apperr.BusinessWrap(ErrInvalidOrder, "Invalid order status: %s", s)
}

func errNotAvailable(name string, available, requested int) error {
	return apperr.BusinessWrap(ErrInsufficientStock,
		"Product '%s' is not available in requested quantity. Available: %d, Requested: %d",
		name, available, requested)
}

func errInsufficientStock(name string) error {
	return apperr.BusinessWrap(ErrInsufficientStock, "Insufficient stock for product: %s", name)
}

func errInvalidItem(msg string) error {
	return apperr.BusinessWrap(ErrInvalidItem, "%s", msg)
}
