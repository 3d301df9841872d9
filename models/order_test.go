package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionOrderStatus(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusConfirmed, OrderStatusShipped, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusDelivered, false},
		{OrderStatusConfirmed, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
		// setting the same status again is always a no-op
		{OrderStatusPending, OrderStatusPending, true},
		{OrderStatusDelivered, OrderStatusDelivered, true},
		{OrderStatusCancelled, OrderStatusCancelled, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransitionOrderStatus(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestIsValidOrderStatus(t *testing.T) {
	for _, s := range []string{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled,
	} {
		assert.True(t, IsValidOrderStatus(s), s)
	}
	assert.False(t, IsValidOrderStatus("dispatched"))
	assert.False(t, IsValidOrderStatus(""))
	assert.False(t, IsValidOrderStatus("Pending"))
}

func TestIsValidPaymentStatus(t *testing.T) {
	for _, s := range []string{PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed} {
		assert.True(t, IsValidPaymentStatus(s), s)
	}
	assert.False(t, IsValidPaymentStatus("refunded"))
	assert.False(t, IsValidPaymentStatus(""))
}

func TestOrderTableNames(t *testing.T) {
	assert.Equal(t, "orders", Order{}.TableName())
	assert.Equal(t, "order_items", OrderItem{}.TableName())
}
