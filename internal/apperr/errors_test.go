package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	err := NotFound("Order", "id", int64(7))

	assert.Equal(t, "Order not found with id: 7", err.Error())
	assert.True(t, IsNotFound(err))
	assert.False(t, IsBusiness(err))
	assert.False(t, IsOptimisticLock(err))
}

func TestBusiness(t *testing.T) {
	err := Business("Stock quantity cannot be negative")

	assert.Equal(t, "Stock quantity cannot be negative", err.Error())
	assert.True(t, IsBusiness(err))
	assert.False(t, IsNotFound(err))
}

func TestBusinessWrap(t *testing.T) {
	errInvalid := errors.New("invalid transition")
	err := BusinessWrap(errInvalid, "Invalid status transition from %s to %s", "PENDING", "SHIPPED")

	assert.Equal(t, "Invalid status transition from PENDING to SHIPPED", err.Error())
	assert.ErrorIs(t, err, errInvalid)
	assert.ErrorIs(t, err, ErrBusiness)
	assert.False(t, IsOptimisticLock(err))
}

func TestOptimisticLock(t *testing.T) {
	err := OptimisticLock("Product", 3)

	assert.Contains(t, err.Error(), "Product 3")
	assert.True(t, IsOptimisticLock(err))
	assert.False(t, IsBusiness(err))
}

func TestWrappedStillClassified(t *testing.T) {
	err := fmt.Errorf("create order: %w", NotFound("User", "id", 1))

	assert.True(t, IsNotFound(err))
	assert.Equal(t, "create order: User not found with id: 1", err.Error())
}
