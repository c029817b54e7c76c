package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_ForwardSteps(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		fm   FulfillmentMethod
		want bool
	}{
		{"pending to confirmed", OrderPending, OrderConfirmed, FulfillmentDelivery, true},
		{"confirmed to preparing", OrderConfirmed, OrderPreparing, FulfillmentDelivery, true},
		{"preparing to ready", OrderPreparing, OrderReady, FulfillmentDelivery, true},
		{"ready to out_for_delivery", OrderReady, OrderOutForDelivery, FulfillmentDelivery, true},
		{"out_for_delivery to delivered", OrderOutForDelivery, OrderDelivered, FulfillmentDelivery, true},

		// Pickup orders skip out_for_delivery.
		{"pickup ready to delivered", OrderReady, OrderDelivered, FulfillmentPickup, true},
		{"pickup ready to out_for_delivery", OrderReady, OrderOutForDelivery, FulfillmentPickup, false},

		// No skipping.
		{"pending straight to delivered", OrderPending, OrderDelivered, FulfillmentDelivery, false},
		{"confirmed straight to delivered", OrderConfirmed, OrderDelivered, FulfillmentDelivery, false},
		{"pending to preparing", OrderPending, OrderPreparing, FulfillmentDelivery, false},

		// No going backwards.
		{"ready back to preparing", OrderReady, OrderPreparing, FulfillmentDelivery, false},
		{"confirmed back to pending", OrderConfirmed, OrderPending, FulfillmentDelivery, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to, tt.fm))
		})
	}
}

func TestCanTransition_Cancellation(t *testing.T) {
	nonTerminal := []OrderStatus{OrderPending, OrderConfirmed, OrderPreparing, OrderReady, OrderOutForDelivery}
	for _, from := range nonTerminal {
		assert.True(t, CanTransition(from, OrderCancelled, FulfillmentDelivery),
			"cancellation should be reachable from %s", from)
	}
}

func TestCanTransition_TerminalStates(t *testing.T) {
	targets := []OrderStatus{OrderPending, OrderConfirmed, OrderPreparing, OrderReady,
		OrderOutForDelivery, OrderDelivered, OrderCancelled}

	for _, terminal := range []OrderStatus{OrderDelivered, OrderCancelled} {
		for _, to := range targets {
			assert.False(t, CanTransition(terminal, to, FulfillmentDelivery),
				"%s should admit no transition to %s", terminal, to)
		}
	}
}

func TestNextStatus(t *testing.T) {
	next, ok := NextStatus(OrderPending, FulfillmentDelivery)
	assert.True(t, ok)
	assert.Equal(t, OrderConfirmed, next)

	next, ok = NextStatus(OrderReady, FulfillmentPickup)
	assert.True(t, ok)
	assert.Equal(t, OrderDelivered, next)

	_, ok = NextStatus(OrderDelivered, FulfillmentDelivery)
	assert.False(t, ok)

	_, ok = NextStatus(OrderCancelled, FulfillmentDelivery)
	assert.False(t, ok)
}

func TestValidateCancellation(t *testing.T) {
	assert.NoError(t, ValidateCancellation(CancelOutOfStock, ""))
	assert.NoError(t, ValidateCancellation(CancelCustomerRequest, ""))
	assert.NoError(t, ValidateCancellation(CancelUnableToDeliver, ""))
	assert.NoError(t, ValidateCancellation(CancelPaymentIssue, ""))
	assert.NoError(t, ValidateCancellation(CancelOther, "shopper moved away"))

	err := ValidateCancellation(CancelOther, "")
	assert.Error(t, err)
	assert.Equal(t, EINVALID, ErrorCode(err))

	err = ValidateCancellation(CancellationReason("vibes"), "")
	assert.Error(t, err)
	assert.Equal(t, EINVALID, ErrorCode(err))
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in    string
		first string
		last  string
	}{
		{"Ana Silva", "Ana", "Silva"},
		{"Ana Maria Silva", "Ana", "Maria Silva"},
		{"Cher", "Cher", ""},
		{"  Ana  Silva ", "Ana", "Silva"},
		{"", "", ""},
	}
	for _, tt := range tests {
		first, last := SplitName(tt.in)
		assert.Equal(t, tt.first, first, "first of %q", tt.in)
		assert.Equal(t, tt.last, last, "last of %q", tt.in)
	}
}
