package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_LegalChain(t *testing.T) {
	chains := [][]string{
		{OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusOutForDelivery, OrderStatusDelivered},
		{OrderStatusPending, OrderStatusPreparing, OrderStatusOutForDelivery, OrderStatusDelivered},
	}

	for _, chain := range chains {
		for i := 0; i < len(chain)-1; i++ {
			assert.True(t, CanTransition(chain[i], chain[i+1]),
				"expected %s -> %s to be legal", chain[i], chain[i+1])
		}
	}
}

func TestCanTransition_SkippedEdges(t *testing.T) {
	tests := []struct {
		from, to string
	}{
		{OrderStatusPending, OrderStatusReady},
		{OrderStatusPending, OrderStatusOutForDelivery},
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusPreparing, OrderStatusDelivered},
		{OrderStatusReady, OrderStatusDelivered},
		{OrderStatusOutForDelivery, OrderStatusPreparing},
		{OrderStatusPreparing, OrderStatusPending},
	}

	for _, tt := range tests {
		assert.False(t, CanTransition(tt.from, tt.to),
			"expected %s -> %s to be illegal", tt.from, tt.to)
	}
}

func TestCanTransition_TerminalStates(t *testing.T) {
	targets := []string{
		OrderStatusPending,
		OrderStatusPreparing,
		OrderStatusReady,
		OrderStatusOutForDelivery,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}

	for _, terminal := range []string{OrderStatusDelivered, OrderStatusCancelled} {
		assert.True(t, IsTerminalStatus(terminal))
		for _, target := range targets {
			assert.False(t, CanTransition(terminal, target),
				"expected no transition out of %s, got %s", terminal, target)
		}
	}
}

func TestCanTransition_CancellableFromAnyNonTerminal(t *testing.T) {
	for _, from := range []string{
		OrderStatusPending,
		OrderStatusPreparing,
		OrderStatusReady,
		OrderStatusOutForDelivery,
	} {
		assert.True(t, CanTransition(from, OrderStatusCancelled),
			"expected %s to be cancellable", from)
	}
}

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range []string{
		OrderStatusPending,
		OrderStatusPreparing,
		OrderStatusReady,
		OrderStatusOutForDelivery,
		OrderStatusDelivered,
		OrderStatusCancelled,
	} {
		assert.True(t, IsValidOrderStatus(status))
	}

	assert.False(t, IsValidOrderStatus("shipped"))
	assert.False(t, IsValidOrderStatus(""))
	assert.False(t, IsValidOrderStatus("PENDING"))
}

func TestIsValidPaymentStatus(t *testing.T) {
	assert.True(t, IsValidPaymentStatus(PaymentStatusPending))
	assert.True(t, IsValidPaymentStatus(PaymentStatusPaid))
	assert.True(t, IsValidPaymentStatus(PaymentStatusFailed))
	assert.False(t, IsValidPaymentStatus("refunded"))
	assert.False(t, IsValidPaymentStatus(""))
}
