package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentgear-storefront/internal/domain"
)

func TestCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer c.Close()

	t.Run("Equipment", func(t *testing.T) {
		catalog := []domain.Equipment{
			{ID: "eq-1", Name: "Canon EOS R5", Category: "Camera", SubCategory: "Mirrorless", RentPerHourCents: 12500, RentPerDayCents: 85000, Rating: 4.8, Available: true},
			{ID: "eq-2", Name: "DJI Mavic 3 Pro", Category: "Drone", RentPerHourCents: 20000, RentPerDayCents: 120000, Rating: 4.9, Available: false},
		}
		require.NoError(t, c.SaveEquipment(ctx, catalog))

		cached, err := c.Equipment(ctx)
		require.NoError(t, err)
		assert.Equal(t, catalog, cached)

		// A later snapshot fully replaces the earlier one.
		require.NoError(t, c.SaveEquipment(ctx, catalog[:1]))
		cached, err = c.Equipment(ctx)
		require.NoError(t, err)
		require.Len(t, cached, 1)
		assert.Equal(t, "eq-1", cached[0].ID)
	})

	t.Run("Orders", func(t *testing.T) {
		orders := []domain.Order{{
			ID:             "ord-1",
			TrackingNumber: "TRKord-1",
			OrderDate:      time.Date(2026, 8, 2, 9, 30, 0, 0, time.UTC),
			Status:         domain.OrderStatusPlaced,
			Items: []domain.CartItem{
				{ID: "line-1", EquipmentID: "eq-1", Name: "Canon EOS R5", RentalType: domain.RentalTypeHour, Quantity: 3, RentalDuration: 1, PriceCents: 12500},
			},
			SubtotalCents:    255000,
			DeliveryFeeCents: 20000,
			TaxCents:         45900,
			TotalCents:       320900,
			PaymentMethod:    "card",
			DeliveryAddress:  "1 Demo Street",
			DeliveryDate:     "2026-09-15",
		}}
		require.NoError(t, c.SaveOrders(ctx, orders))

		cached, err := c.Orders(ctx)
		require.NoError(t, err)
		require.Len(t, cached, 1)
		assert.Equal(t, "ord-1", cached[0].ID)
		assert.Equal(t, domain.OrderStatusPlaced, cached[0].Status)
		assert.Equal(t, int64(320900), cached[0].TotalCents)
		assert.Equal(t, orders[0].OrderDate, cached[0].OrderDate)
		require.Len(t, cached[0].Items, 1)
		assert.Equal(t, "eq-1", cached[0].Items[0].EquipmentID)
	})
}

func TestCache_SaveEquipment_RollsBackOnInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	c := New(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM equipment").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO equipment").
		WithArgs("eq-1", "Canon EOS R5", "Camera", "", "", int64(12500), int64(85000), 4.8, 1).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = c.SaveEquipment(context.Background(), []domain.Equipment{
		{ID: "eq-1", Name: "Canon EOS R5", Category: "Camera", RentPerHourCents: 12500, RentPerDayCents: 85000, Rating: 4.8, Available: true},
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_SaveOrders_DeleteThenInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	c := New(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM orders").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = c.SaveOrders(context.Background(), []domain.Order{{
		ID:             "ord-1",
		TrackingNumber: "TRKord-1",
		OrderDate:      time.Now().UTC(),
		Status:         domain.OrderStatusPlaced,
	}})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
