package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rentgear-storefront/internal/domain"
)

func hourLine(id, equipmentID string, qty, duration int, hourlyRate int64) domain.CartItem {
	return domain.CartItem{
		ID:              id,
		EquipmentID:     equipmentID,
		Name:            "Equipment " + equipmentID,
		RentalType:      domain.RentalTypeHour,
		Quantity:        qty,
		RentalDuration:  duration,
		HourlyRateCents: hourlyRate,
		DailyRateCents:  hourlyRate * 6,
	}
}

func TestCart_ApplyAdd(t *testing.T) {
	t.Run("MergesSameLine", func(t *testing.T) {
		cart := &Cart{}
		cart.ApplyAdd(hourLine("line-1", "eq-1", 3, 2, 10000))
		cart.ApplyAdd(hourLine("line-2", "eq-1", 2, 5, 10000))

		assert.Len(t, cart.Items, 1)
		assert.Equal(t, 5, cart.Items[0].Quantity)
		// The existing line keeps its duration; the second add only
		// contributes quantity.
		assert.Equal(t, 2, cart.Items[0].RentalDuration)
		assert.Equal(t, "line-1", cart.Items[0].ID)
	})

	t.Run("DifferentRentalTypeIsANewLine", func(t *testing.T) {
		cart := &Cart{}
		cart.ApplyAdd(hourLine("line-1", "eq-1", 1, 2, 10000))

		dayLine := hourLine("line-2", "eq-1", 1, 3, 10000)
		dayLine.RentalType = domain.RentalTypeDay
		cart.ApplyAdd(dayLine)

		assert.Len(t, cart.Items, 2)
		assert.Equal(t, 2, cart.ItemCount)
	})

	t.Run("ItemCountIsLineCountNotQuantitySum", func(t *testing.T) {
		cart := &Cart{}
		cart.ApplyAdd(hourLine("line-1", "eq-1", 3, 1, 10000))
		cart.ApplyAdd(hourLine("line-2", "eq-2", 5, 1, 10000))

		assert.Equal(t, 2, cart.ItemCount)
	})

	t.Run("RecomputesTotal", func(t *testing.T) {
		cart := &Cart{}
		// 10000 × 2 × 3 = 60000
		cart.ApplyAdd(hourLine("line-1", "eq-1", 2, 3, 10000))
		assert.Equal(t, int64(60000), cart.TotalCents)

		// Merge adds 1 to quantity: 10000 × 3 × 3 = 90000
		cart.ApplyAdd(hourLine("line-2", "eq-1", 1, 3, 10000))
		assert.Equal(t, int64(90000), cart.TotalCents)
	})

	t.Run("ClampsDurationToOne", func(t *testing.T) {
		cart := &Cart{}
		cart.ApplyAdd(hourLine("line-1", "eq-1", 1, 0, 10000))
		assert.Equal(t, 1, cart.Items[0].RentalDuration)
		assert.Equal(t, int64(10000), cart.TotalCents)
	})

	t.Run("ClearsLoading", func(t *testing.T) {
		cart := &Cart{}
		cart.Begin()
		assert.True(t, cart.Loading)
		cart.ApplyAdd(hourLine("line-1", "eq-1", 1, 1, 10000))
		assert.False(t, cart.Loading)
	})
}

func TestCart_ApplyRemove(t *testing.T) {
	t.Run("RemovesMatchingLine", func(t *testing.T) {
		cart := &Cart{}
		cart.ApplyAdd(hourLine("line-1", "eq-1", 1, 1, 10000))
		cart.ApplyAdd(hourLine("line-2", "eq-2", 1, 1, 20000))

		cart.ApplyRemove("line-1")

		assert.Len(t, cart.Items, 1)
		assert.Equal(t, "line-2", cart.Items[0].ID)
		assert.Equal(t, int64(20000), cart.TotalCents)
	})

	t.Run("UnknownIDIsNoOp", func(t *testing.T) {
		cart := &Cart{}
		cart.ApplyAdd(hourLine("line-1", "eq-1", 1, 1, 10000))
		cart.ApplyAdd(hourLine("line-2", "eq-2", 1, 1, 20000))
		before := cart.TotalCents

		cart.ApplyRemove("line-999")

		assert.Len(t, cart.Items, 2)
		assert.Equal(t, before, cart.TotalCents)
		assert.Equal(t, 2, cart.ItemCount)
	})
}

func TestCart_ApplyUpdate(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	t.Run("UpdatesQuantityAndRecomputes", func(t *testing.T) {
		cart := &Cart{}
		cart.ApplyAdd(hourLine("line-1", "eq-1", 1, 2, 10000))

		cart.ApplyUpdate("line-1", domain.CartItemUpdate{Quantity: intPtr(4)})

		assert.Equal(t, 4, cart.Items[0].Quantity)
		assert.Equal(t, int64(80000), cart.TotalCents)
	})

	t.Run("UpdatesDuration", func(t *testing.T) {
		cart := &Cart{}
		cart.ApplyAdd(hourLine("line-1", "eq-1", 1, 2, 10000))

		cart.ApplyUpdate("line-1", domain.CartItemUpdate{RentalDuration: intPtr(5)})

		assert.Equal(t, 5, cart.Items[0].RentalDuration)
		assert.Equal(t, int64(50000), cart.TotalCents)
	})

	t.Run("UnknownIDIsNoOp", func(t *testing.T) {
		cart := &Cart{}
		cart.ApplyAdd(hourLine("line-1", "eq-1", 1, 2, 10000))
		before := cart.Snapshot()

		cart.ApplyUpdate("line-999", domain.CartItemUpdate{Quantity: intPtr(9)})

		assert.Equal(t, before.Items, cart.Items)
		assert.Equal(t, before.TotalCents, cart.TotalCents)
	})
}

func TestCart_ApplyFetch(t *testing.T) {
	t.Run("FullReplace", func(t *testing.T) {
		cart := &Cart{}
		cart.ApplyAdd(hourLine("stale-1", "eq-9", 7, 1, 99999))

		cart.ApplyFetch([]domain.CartItem{
			hourLine("line-1", "eq-1", 2, 1, 10000),
			hourLine("line-2", "eq-2", 1, 3, 20000),
		})

		assert.Len(t, cart.Items, 2)
		assert.Equal(t, "line-1", cart.Items[0].ID)
		assert.Equal(t, int64(2*10000+3*20000), cart.TotalCents)
		assert.True(t, cart.Synced)
	})

	t.Run("EmptyRemoteEmptiesLocal", func(t *testing.T) {
		cart := &Cart{}
		cart.ApplyAdd(hourLine("line-1", "eq-1", 1, 1, 10000))

		cart.ApplyFetch(nil)

		assert.Empty(t, cart.Items)
		assert.Zero(t, cart.TotalCents)
		assert.Zero(t, cart.ItemCount)
	})
}

func TestCart_ApplyClear(t *testing.T) {
	cart := &Cart{}
	cart.ApplyAdd(hourLine("line-1", "eq-1", 2, 1, 10000))
	cart.ApplyAdd(hourLine("line-2", "eq-2", 1, 1, 20000))
	cart.Synced = true

	cart.ApplyClear()

	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalCents)
	assert.Zero(t, cart.ItemCount)
	assert.False(t, cart.Synced)
}

func TestCart_FailKeepsContents(t *testing.T) {
	cart := &Cart{}
	cart.ApplyAdd(hourLine("line-1", "eq-1", 2, 1, 10000))

	cart.Begin()
	cart.Fail("remote store unavailable")

	assert.False(t, cart.Loading)
	assert.Equal(t, "remote store unavailable", cart.Error)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, int64(20000), cart.TotalCents)
}

func TestCart_SnapshotIsACopy(t *testing.T) {
	cart := &Cart{}
	cart.ApplyAdd(hourLine("line-1", "eq-1", 2, 1, 10000))

	snap := cart.Snapshot()
	snap.Items[0].Quantity = 99

	assert.Equal(t, 2, cart.Items[0].Quantity)
}
