package remote

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentgear-storefront/internal/domain"
)

func TestFlattenCartItem(t *testing.T) {
	t.Run("PayloadWrapped", func(t *testing.T) {
		raw := json.RawMessage(`{
			"id": "doc-1",
			"type": "cart",
			"userId": "user-1",
			"createdAt": "2026-08-01T10:00:00Z",
			"payload": {
				"itemId": "eq-1",
				"name": "Canon EOS R5",
				"rentType": "Hour",
				"quantity": 3,
				"rentalDuration": 2,
				"rentPerHour": 12500,
				"rentPerDay": 85000,
				"price": 25000
			}
		}`)

		item, err := flattenCartItem(raw)
		require.NoError(t, err)
		assert.Equal(t, "doc-1", item.ID)
		assert.Equal(t, "eq-1", item.EquipmentID)
		assert.Equal(t, domain.RentalTypeHour, item.RentalType)
		assert.Equal(t, 3, item.Quantity)
		assert.Equal(t, int64(25000), item.PriceCents)
		assert.Equal(t, int64(12500), item.HourlyRateCents)
		assert.Equal(t, time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), item.AddedAt)
	})

	t.Run("FlatDocument", func(t *testing.T) {
		raw := json.RawMessage(`{
			"id": "doc-2",
			"type": "cart",
			"userId": "user-1",
			"itemId": "eq-2",
			"name": "DJI Mavic 3 Pro",
			"rentType": "Day",
			"quantity": 1,
			"rentalDuration": 3,
			"rentPerDay": 120000
		}`)

		item, err := flattenCartItem(raw)
		require.NoError(t, err)
		assert.Equal(t, "doc-2", item.ID)
		assert.Equal(t, "eq-2", item.EquipmentID)
		assert.Equal(t, domain.RentalTypeDay, item.RentalType)
		assert.Equal(t, int64(120000), item.DailyRateCents)
	})

	t.Run("ZeroDurationClampedToOne", func(t *testing.T) {
		raw := json.RawMessage(`{"id":"doc-3","payload":{"itemId":"eq-1","rentType":"Hour","quantity":1}}`)
		item, err := flattenCartItem(raw)
		require.NoError(t, err)
		assert.Equal(t, 1, item.RentalDuration)
	})
}

func TestFlattenOrder(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "ord-1",
		"type": "order",
		"userId": "user-1",
		"createdAt": "2026-08-02T09:30:00Z",
		"payload": {
			"items": [
				{"id": "line-1", "itemId": "eq-1", "name": "Canon EOS R5", "rentType": "Hour", "quantity": 3, "rentalDuration": 1, "price": 12500}
			],
			"totalAmount": 320900,
			"subtotal": 255000,
			"deliveryFee": 20000,
			"tax": 45900,
			"orderStatus": "Placed",
			"paymentMethod": "card",
			"deliveryAddress": "1 Demo Street",
			"deliveryDate": "2026-09-15"
		}
	}`)

	order, err := flattenOrder(raw)
	require.NoError(t, err)
	// Wire renames: orderStatus and totalAmount land on Status and Total,
	// and the tracking number is derived from the document id.
	assert.Equal(t, "ord-1", order.ID)
	assert.Equal(t, "TRKord-1", order.TrackingNumber)
	assert.Equal(t, domain.OrderStatusPlaced, order.Status)
	assert.Equal(t, int64(320900), order.TotalCents)
	assert.Equal(t, int64(255000), order.SubtotalCents)
	assert.Equal(t, int64(20000), order.DeliveryFeeCents)
	assert.Equal(t, int64(45900), order.TaxCents)
	assert.Equal(t, time.Date(2026, 8, 2, 9, 30, 0, 0, time.UTC), order.OrderDate)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "line-1", order.Items[0].ID)
	assert.Equal(t, "eq-1", order.Items[0].EquipmentID)
}

func TestNewOrderDocument(t *testing.T) {
	draft := domain.OrderDraft{
		Items:            []domain.CartItem{{ID: "line-1", EquipmentID: "eq-1", RentalType: domain.RentalTypeHour, Quantity: 2, RentalDuration: 1, PriceCents: 12500}},
		SubtotalCents:    25000,
		DeliveryFeeCents: 20000,
		TaxCents:         4500,
		TotalCents:       49500,
		PaymentMethod:    "card",
		DeliveryAddress:  "1 Demo Street",
		DeliveryDate:     "2026-09-15",
	}

	doc := newOrderDocument("user-1", draft)
	assert.Equal(t, docTypeOrder, doc.Type)
	assert.Equal(t, "user-1", doc.UserID)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(doc.Payload, &payload))
	// New orders go out as Placed with the wire names.
	assert.Equal(t, "Placed", payload["orderStatus"])
	assert.Equal(t, float64(49500), payload["totalAmount"])
	assert.Equal(t, float64(25000), payload["subtotal"])
}

func TestFlattenEquipment(t *testing.T) {
	t.Run("FlatRecord", func(t *testing.T) {
		raw := json.RawMessage(`{"id":"eq-1","name":"Canon EOS R5","category":"Camera","rentPerHour":12500,"rentPerDay":85000,"rating":4.8,"available":true}`)
		eq, err := flattenEquipment(raw)
		require.NoError(t, err)
		assert.Equal(t, "eq-1", eq.ID)
		assert.Equal(t, int64(12500), eq.RentPerHourCents)
		assert.True(t, eq.Available)
	})

	t.Run("AbsentAvailableMeansRentable", func(t *testing.T) {
		raw := json.RawMessage(`{"id":"eq-2","name":"PlayStation 5","category":"Gaming"}`)
		eq, err := flattenEquipment(raw)
		require.NoError(t, err)
		assert.True(t, eq.Available)
	})

	t.Run("ExplicitFalseSticks", func(t *testing.T) {
		raw := json.RawMessage(`{"id":"eq-3","name":"Broken Drone","available":false}`)
		eq, err := flattenEquipment(raw)
		require.NoError(t, err)
		assert.False(t, eq.Available)
	})

	t.Run("PayloadWrapped", func(t *testing.T) {
		raw := json.RawMessage(`{"id":"doc-9","payload":{"id":"eq-9","name":"GoPro","category":"Camera","rentPerHour":3000}}`)
		eq, err := flattenEquipment(raw)
		require.NoError(t, err)
		// The document id wins over the payload's own id.
		assert.Equal(t, "doc-9", eq.ID)
		assert.Equal(t, "GoPro", eq.Name)
	})
}
