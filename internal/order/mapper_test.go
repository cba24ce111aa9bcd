package order

import (
	"encoding/json"
	"testing"
	"time"

	"ordering-be/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToResponse(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		assert.Nil(t, ToResponse(nil))
	})

	t.Run("Success", func(t *testing.T) {
		now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		o := &Order{
			ID:              9,
			OrderNumber:     "ORD20240301100000123",
			UserID:          4,
			Customer:        Customer{FirstName: "Jane", LastName: "Roe", Email: "jane@example.com"},
			TotalAmount:     decimal.RequireFromString("199.98"),
			Status:          StatusPending,
			OrderDate:       now,
			ShippingAddress: utils.StrPtr("Main St 1"),
			Items: []*Item{{
				ID:          1,
				OrderID:     9,
				ProductID:   2,
				ProductName: "Headphones",
				Quantity:    2,
				UnitPrice:   decimal.RequireFromString("99.99"),
				TotalPrice:  decimal.RequireFromString("199.98"),
			}},
		}

		res := ToResponse(o)
		assert.Equal(t, "Jane Roe", res.UserFullName)
		assert.Equal(t, "jane@example.com", res.UserEmail)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "Headphones", res.Items[0].ProductName)

		raw, err := json.Marshal(res)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"totalAmount":"199.98"`)
		assert.Contains(t, string(raw), `"orderNumber":"ORD20240301100000123"`)
		assert.NotContains(t, string(raw), "notes")
	})

	t.Run("No items renders empty list", func(t *testing.T) {
		raw, err := json.Marshal(ToResponse(&Order{ID: 1}))
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"items":[]`)
	})
}

func TestStatusTransitions(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:    {StatusConfirmed, StatusCancelled},
		StatusConfirmed:  {StatusProcessing, StatusCancelled},
		StatusProcessing: {StatusShipped, StatusCancelled},
		StatusShipped:    {StatusDelivered},
		StatusDelivered:  {StatusRefunded},
	}
	all := []Status{
		StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusRefunded,
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)

			err := checkTransition(from, to)
			if want {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", from, to)
			}
		}
	}

	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusRefunded.IsTerminal())
	assert.False(t, StatusDelivered.IsTerminal())
	assert.False(t, Status("LOST").IsValid())

	assert.Equal(t, "Invalid status transition from PENDING to SHIPPED",
		checkTransition(StatusPending, StatusShipped).Error())
	assert.Equal(t, "Cannot change status from CANCELLED",
		checkTransition(StatusCancelled, StatusPending).Error())
}
