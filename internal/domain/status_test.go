package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapOrderStatus(t *testing.T) {
	cases := map[string]OrderState{
		"completed":      OrderStateCompleted,
		"processing":     OrderStateProcessing,
		"on-hold":        OrderStateProcessing,
		"cancelled":      OrderStateCancelled,
		"refunded":       OrderStateCancelled,
		"failed":         OrderStateCancelled,
		"wc-completed":   OrderStateCompleted,
		" Refunded ":     OrderStateCancelled,
		"pending":        OrderStateProcessing,
		"checkout-draft": OrderStateProcessing,
		"":               OrderStateProcessing,
	}
	for in, want := range cases {
		assert.Equal(t, want, MapOrderStatus(in), "status %q", in)
	}
}

func TestMapOrderStatusIsTotal(t *testing.T) {
	for _, in := range []string{"x", "COMPLETED!", "wc-", "\x00", "🙂", "cancelled-by-admin"} {
		got := MapOrderStatus(in)
		assert.True(t, got.Valid(), "status %q mapped to %q", in, got)
	}
}

func TestPaymentStateFor(t *testing.T) {
	assert.Equal(t, PaymentStateReadyToPay, PaymentStateFor(OrderStateCompleted))
	assert.Equal(t, PaymentStateCancelled, PaymentStateFor(OrderStateCancelled))
	assert.Equal(t, PaymentStatePendingCompletion, PaymentStateFor(OrderStateProcessing))
	assert.Equal(t, PaymentStatePendingCompletion, PaymentStateFor(OrderState("bogus")))
}

func TestPaymentStateTerminal(t *testing.T) {
	assert.True(t, PaymentStatePaid.IsTerminal())
	for _, s := range []PaymentState{PaymentStatePendingCompletion, PaymentStateReadyToPay, PaymentStateCancelled} {
		assert.False(t, s.IsTerminal(), string(s))
	}
}
