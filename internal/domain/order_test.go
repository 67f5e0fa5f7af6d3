package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderStatusPlaced, OrderStatusProcessing, true},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCompleted, true},
		{OrderStatusPlaced, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusRefunded, true},
		{OrderStatusPlaced, OrderStatusShipped, false},
		{OrderStatusDelivered, OrderStatusProcessing, false},
		{OrderStatusCancelled, OrderStatusPlaced, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.False(t, OrderStatusPlaced.Terminal())
	assert.False(t, OrderStatusShipped.Terminal())
	assert.True(t, OrderStatusDelivered.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.True(t, OrderStatusRefunded.Terminal())
}

func TestTrackingNumberFor(t *testing.T) {
	assert.Equal(t, "TRKabc123", TrackingNumberFor("abc123"))
}

func TestCartItem_SameLine(t *testing.T) {
	a := CartItem{EquipmentID: "eq-1", RentalType: RentalTypeHour}
	b := CartItem{EquipmentID: "eq-1", RentalType: RentalTypeHour, Quantity: 5}
	c := CartItem{EquipmentID: "eq-1", RentalType: RentalTypeDay}
	d := CartItem{EquipmentID: "eq-2", RentalType: RentalTypeHour}

	assert.True(t, a.SameLine(b))
	assert.False(t, a.SameLine(c))
	assert.False(t, a.SameLine(d))
}
